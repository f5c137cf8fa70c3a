// Package vote collects and resolves one day's public votes.
package vote

import (
	"log/slog"

	"github.com/avelkov/godfather/internal/model"
)

// SkipKey is how abstentions appear in the reported vote counts
const SkipKey = "skip"

// Tally applies vote submissions to a session and resolves them when the
// voting phase ends. Like night actions, submissions are last-write-wins
// per voter.
type Tally struct {
	logger *slog.Logger
}

// New creates a new Tally
func New(logger *slog.Logger) *Tally {
	return &Tally{logger: logger}
}

// Result summarizes one voting round
type Result struct {
	Eliminated *model.PlayerID // nil when nobody was voted out
	// Counts maps target id (or SkipKey) to vote count, abstainers included
	Counts map[string]int
}

// Submit records a vote for the voter, overwriting any prior vote this round
func (t *Tally) Submit(session *model.Session, voter model.PlayerID, target model.PlayerID, skip bool) error {
	p, ok := session.Players[voter]
	if !ok {
		return model.ErrUnknownPlayer
	}
	if !p.Alive {
		return model.ErrIllegalActionForRole
	}
	if !skip && !session.IsAlive(target) {
		return model.ErrUnknownPlayer
	}

	if skip {
		p.VotedFor = nil
		p.VotedSkip = true
	} else {
		tgt := target
		p.VotedFor = &tgt
		p.VotedSkip = false
	}
	session.Votes[voter] = model.VoteRecord{Target: target, Skip: skip}
	return nil
}

// Resolve counts the round's votes. Players who never voted count as
// skip. The target with strictly the highest count is eliminated; any
// tie for the maximum, including a tie with the skip count, means no one
// is eliminated. Skip itself never eliminates.
func (t *Tally) Resolve(session *model.Session) *Result {
	counts := make(map[string]int)
	for _, voter := range session.AlivePlayers() {
		record, ok := session.Votes[voter]
		if !ok || record.Skip {
			counts[SkipKey]++
			continue
		}
		counts[string(record.Target)]++
	}

	res := &Result{Counts: counts}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	var top []string
	for key, c := range counts {
		if c == max {
			top = append(top, key)
		}
	}

	if max > 0 && len(top) == 1 && top[0] != SkipKey {
		id := model.PlayerID(top[0])
		if err := session.Eliminate(id); err == nil {
			res.Eliminated = &id
		}
	}

	t.logger.Info("votes resolved",
		slog.String("community", string(session.Community)),
		slog.Int("round", session.Round),
		slog.Bool("elimination", res.Eliminated != nil),
		slog.Int("ballots", len(session.Votes)),
	)

	return res
}
