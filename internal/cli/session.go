package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session lifecycle commands",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionStatusCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionSetCmd())
	cmd.AddCommand(newSessionForceStartCmd())
	cmd.AddCommand(newSessionAbortCmd())

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <community>",
		Short: "Open a new session with a registration window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionView
			if err := client.Post(fmt.Sprintf("/api/v1/communities/%s/session", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <community>",
		Short: "Show the current session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionView
			if err := client.Get(fmt.Sprintf("/api/v1/communities/%s/session", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <community>",
		Short: "Join the open registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionView
			if err := client.Post(fmt.Sprintf("/api/v1/communities/%s/session/players", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionSetCmd() *cobra.Command {
	var value int

	cmd := &cobra.Command{
		Use:   "set <community> <name>",
		Short: "Update a game setting during registration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": args[1], "value": value}

			var result SessionView
			if err := client.Put(fmt.Sprintf("/api/v1/communities/%s/session/settings", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&value, "value", 0, "Setting value (required)")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newSessionForceStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force-start <community>",
		Short: "Close registration early and start the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/communities/%s/session/start", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Session in %s started", args[0]))
			return nil
		},
	}
}

func newSessionAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort <community>",
		Short: "Abort the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/communities/%s/session", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Session in %s aborted", args[0]))
			return nil
		},
	}
}
