// Package night collects and resolves one night's private role actions.
package night

import (
	"log/slog"

	"github.com/avelkov/godfather/internal/model"
)

// Resolver applies night submissions to a session and resolves them when
// the phase ends. Submissions are last-write-wins per submitter: a role
// holder may change their mind until the deadline.
type Resolver struct {
	logger *slog.Logger
}

// New creates a new Resolver
func New(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Investigation is one police officer's resolved result
type Investigation struct {
	Officer model.PlayerID
	Target  model.PlayerID
	IsMafia bool
}

// Result summarizes one night's resolution
type Result struct {
	Killed         *model.PlayerID // nil when no one died
	TargetSaved    bool            // The kill target was protected by a doctor
	MafiaSkipped   bool            // Mafia spent a skip instead of killing
	Investigations []Investigation
}

// Submit records a night action for the submitter, overwriting any prior
// submission from the same player this round.
func (r *Resolver) Submit(session *model.Session, submitter model.PlayerID, role model.Role, target model.PlayerID, skip bool) error {
	p, ok := session.Players[submitter]
	if !ok {
		return model.ErrUnknownPlayer
	}
	if !p.Alive {
		return model.ErrIllegalActionForRole
	}
	if p.Role != role || !role.HasNightAction() {
		return model.ErrIllegalActionForRole
	}

	if skip {
		if role != model.RoleMafia {
			return model.ErrIllegalActionForRole
		}
		if session.SkipsUsed >= session.Settings.MafiaSkips {
			return model.ErrNoSkipsRemaining
		}
	} else {
		if !session.IsAlive(target) {
			return model.ErrUnknownPlayer
		}
	}

	session.ActionSeq++
	session.NightActions[submitter] = model.NightAction{
		Role:   role,
		Target: target,
		Skip:   skip,
		Seq:    session.ActionSeq,
	}
	if skip {
		p.NightTarget = nil
	} else {
		t := target
		p.NightTarget = &t
	}
	return nil
}

// AllActionsIn reports whether every living role-holder with a night
// action has submitted one. Used for early phase exit; it is an
// optimization only, resolution is identical either way.
func (r *Resolver) AllActionsIn(session *model.Session) bool {
	return len(session.PendingNightActors()) == 0
}

// Resolve runs the night resolution once, in order: police
// investigations (independent, never affect the kill), the mafia team's
// kill choice, doctor saves with the self-save restriction, then the
// elimination itself.
func (r *Resolver) Resolve(session *model.Session) *Result {
	res := &Result{}

	// 1. Police investigations
	for _, officer := range session.AlivePlayers(model.RolePolice) {
		action, ok := session.NightActions[officer]
		if !ok || action.Skip {
			continue
		}
		targetRole, err := session.RoleOf(action.Target)
		if err != nil {
			continue
		}
		res.Investigations = append(res.Investigations, Investigation{
			Officer: officer,
			Target:  action.Target,
			IsMafia: targetRole == model.RoleMafia,
		})
	}

	// 2. Mafia kill target: the team's choice is the most recent
	// submission among living mafia. Mafia can coordinate privately, so
	// any one member's final word stands for the team.
	var kill *model.NightAction
	for _, id := range session.AlivePlayers(model.RoleMafia) {
		action, ok := session.NightActions[id]
		if !ok {
			continue
		}
		if kill == nil || action.Seq > kill.Seq {
			a := action
			kill = &a
		}
	}

	if kill != nil && kill.Skip {
		session.SkipsUsed++
		res.MafiaSkipped = true
		kill = nil
	}

	// 3. Doctor saves, with the self-save restriction. Each doctor's save
	// is independent; the kill is prevented if the target matches any
	// accepted save.
	saved := make(map[model.PlayerID]bool)
	for _, doctor := range session.AlivePlayers(model.RoleDoctor) {
		p := session.Players[doctor]
		action, ok := session.NightActions[doctor]
		if !ok {
			// No submission: the flag only changes on a self-save outcome
			continue
		}
		if action.Target == doctor {
			if p.SelfSavedLastRound {
				// Second consecutive self-save attempt: ignored entirely
				continue
			}
			p.SelfSavedLastRound = true
			saved[action.Target] = true
		} else {
			p.SelfSavedLastRound = false
			saved[action.Target] = true
		}
	}

	// 4. Elimination. No living mafia, a dead target, or a matching save
	// all forfeit the kill without error.
	if kill != nil && session.IsAlive(kill.Target) {
		if saved[kill.Target] {
			res.TargetSaved = true
		} else {
			_ = session.Eliminate(kill.Target)
			t := kill.Target
			res.Killed = &t
		}
	}

	r.logger.Info("night resolved",
		slog.String("community", string(session.Community)),
		slog.Int("round", session.Round),
		slog.Bool("kill", res.Killed != nil),
		slog.Bool("saved", res.TargetSaved),
		slog.Bool("mafia_skipped", res.MafiaSkipped),
		slog.Int("investigations", len(res.Investigations)),
	)

	return res
}
