package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "In-game action commands",
	}

	cmd.AddCommand(newActionNightCmd())
	cmd.AddCommand(newActionVoteCmd())

	return cmd
}

func newActionNightCmd() *cobra.Command {
	var (
		target string
		skip   bool
	)

	cmd := &cobra.Command{
		Use:   "night <community> <role>",
		Short: "Submit a night action (kill, save, or investigate)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !skip && target == "" {
				return fmt.Errorf("--target is required unless --skip is set")
			}

			req := map[string]any{"role": args[1]}
			if target != "" {
				req["target"] = target
			}
			if skip {
				req["skip"] = true
			}

			path := fmt.Sprintf("/api/v1/communities/%s/session/night-action", args[0])
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Night action submitted")
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target player id")
	cmd.Flags().BoolVar(&skip, "skip", false, "Skip the kill (mafia only)")

	return cmd
}

func newActionVoteCmd() *cobra.Command {
	var (
		target string
		skip   bool
	)

	cmd := &cobra.Command{
		Use:   "vote <community>",
		Short: "Submit a vote for elimination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !skip && target == "" {
				return fmt.Errorf("--target is required unless --skip is set")
			}

			req := map[string]any{}
			if target != "" {
				req["target"] = target
			}
			if skip {
				req["skip"] = true
			}

			path := fmt.Sprintf("/api/v1/communities/%s/session/vote", args[0])
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Vote submitted")
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target player id")
	cmd.Flags().BoolVar(&skip, "skip", false, "Vote to skip this round's elimination")

	return cmd
}
