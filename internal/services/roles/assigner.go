// Package roles deals hidden roles over the registered players.
package roles

import (
	"log/slog"

	"github.com/avelkov/godfather/internal/dependencies/random"
	"github.com/avelkov/godfather/internal/model"
)

// Assigner distributes roles uniformly at random per the session settings
type Assigner struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new Assigner
func New(rnd random.Random, logger *slog.Logger) *Assigner {
	return &Assigner{
		random: rnd,
		logger: logger,
	}
}

// Assign deals roles to every registered player: the configured mafia,
// doctor and police counts, remainder citizens. It mutates each player's
// role exactly once; a second call fails with ErrAlreadyAssigned.
func (a *Assigner) Assign(session *model.Session) error {
	if session.RolesAssigned {
		return model.ErrAlreadyAssigned
	}

	special := session.Settings.SpecialRoles()
	if len(session.Players) < special+1 {
		return model.ErrInsufficientPlayers
	}

	// Shuffle a stable ordering of ids, then deal roles in blocks
	ids := make([]model.PlayerID, 0, len(session.Players))
	for _, id := range sortedPlayerIDs(session) {
		ids = append(ids, id)
	}
	a.random.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	idx := 0
	deal := func(role model.Role, count int) {
		for n := 0; n < count; n++ {
			session.Players[ids[idx]].Role = role
			idx++
		}
	}
	deal(model.RoleMafia, session.Settings.Mafia)
	deal(model.RoleDoctor, session.Settings.Doctors)
	deal(model.RolePolice, session.Settings.Police)
	deal(model.RoleCitizen, len(ids)-idx)

	session.RolesAssigned = true

	a.logger.Info("roles assigned",
		slog.String("community", string(session.Community)),
		slog.Int("players", len(ids)),
		slog.Int("mafia", session.Settings.Mafia),
		slog.Int("doctors", session.Settings.Doctors),
		slog.Int("police", session.Settings.Police),
	)

	return nil
}

func sortedPlayerIDs(session *model.Session) []model.PlayerID {
	// AlivePlayers returns every registered player here: nobody has been
	// eliminated before role assignment.
	return session.AlivePlayers()
}
