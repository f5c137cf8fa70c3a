package model

import (
	"sort"
	"time"
)

// Phase represents the current phase of a game session
type Phase string

const (
	PhaseRegistration   Phase = "registration"
	PhaseRoleAssignment Phase = "role_assignment"
	PhaseNight          Phase = "night"
	PhaseDayDiscussion  Phase = "day_discussion"
	PhaseVoting         Phase = "voting"
	PhaseCitizensWin    Phase = "citizens_win"
	PhaseMafiaWin       Phase = "mafia_win"
	PhaseAborted        Phase = "aborted"
)

// Terminal reports whether no further transitions are possible
func (p Phase) Terminal() bool {
	return p == PhaseCitizensWin || p == PhaseMafiaWin || p == PhaseAborted
}

// NightAction is one role-holder's submission for the current night.
// Seq orders submissions within the round for last-write-wins resolution.
type NightAction struct {
	Role   Role
	Target PlayerID // Empty when Skip
	Skip   bool     // Mafia only: forfeit the kill
	Seq    int
}

// VoteRecord is one player's submission for the current voting phase
type VoteRecord struct {
	Target PlayerID // Empty when Skip
	Skip   bool
}

// Session is the aggregate root for one community's game.
// Exactly one session is live per community at a time. All mutation happens
// under the game controller's per-community lock; the session itself carries
// no synchronization.
type Session struct {
	Community CommunityID
	Phase     Phase
	Round     int // Starts at 1, increments when a night resolves
	Settings  Settings
	HostID    PlayerID

	Players       map[PlayerID]*Player
	RolesAssigned bool

	// Per-round scratch state, discarded after resolution
	NightActions map[PlayerID]NightAction
	Votes        map[PlayerID]VoteRecord
	ActionSeq    int // Monotonic submission counter within the round

	// SkipsUsed counts mafia kill skips spent so far this game
	SkipsUsed int

	// PhaseSeq increments on every phase transition. A deadline trigger
	// carrying a stale PhaseSeq is a no-op, which makes the timer and
	// early-exit paths first-wins.
	PhaseSeq int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session in the registration phase
func NewSession(community CommunityID, host PlayerID, settings Settings, now time.Time) *Session {
	return &Session{
		Community:    community,
		Phase:        PhaseRegistration,
		Round:        1,
		Settings:     settings,
		HostID:       host,
		Players:      make(map[PlayerID]*Player),
		NightActions: make(map[PlayerID]NightAction),
		Votes:        make(map[PlayerID]VoteRecord),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Register adds a player during the registration phase
func (s *Session) Register(id PlayerID, now time.Time) error {
	if s.Phase != PhaseRegistration {
		return ErrRegistrationClosed
	}
	if _, ok := s.Players[id]; ok {
		return ErrDuplicateRegistration
	}
	s.Players[id] = &Player{
		ID:       id,
		Alive:    true,
		JoinedAt: now,
	}
	return nil
}

// Eliminate marks a player dead. Eliminating an already-dead player is a no-op.
func (s *Session) Eliminate(id PlayerID) error {
	p, ok := s.Players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	p.Alive = false
	return nil
}

// IsAlive reports whether the player is registered and alive
func (s *Session) IsAlive(id PlayerID) bool {
	p, ok := s.Players[id]
	return ok && p.Alive
}

// RoleOf returns the player's role
func (s *Session) RoleOf(id PlayerID) (Role, error) {
	p, ok := s.Players[id]
	if !ok {
		return "", ErrUnknownPlayer
	}
	return p.Role, nil
}

// AlivePlayers returns the ids of living players, optionally filtered by role.
// The result is sorted for deterministic iteration.
func (s *Session) AlivePlayers(roles ...Role) []PlayerID {
	var ids []PlayerID
	for id, p := range s.Players {
		if !p.Alive {
			continue
		}
		if len(roles) > 0 && !containsRole(roles, p.Role) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PlayerIDs returns every registered player id, sorted
func (s *Session) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containsRole(roles []Role, r Role) bool {
	for _, want := range roles {
		if want == r {
			return true
		}
	}
	return false
}

// AliveCount returns the number of living players, optionally filtered by role
func (s *Session) AliveCount(roles ...Role) int {
	return len(s.AlivePlayers(roles...))
}

// ClearRoundState wipes the per-round scratch state on every phase change
func (s *Session) ClearRoundState() {
	s.NightActions = make(map[PlayerID]NightAction)
	s.Votes = make(map[PlayerID]VoteRecord)
	s.ActionSeq = 0
	for _, p := range s.Players {
		p.NightTarget = nil
		p.VotedFor = nil
		p.VotedSkip = false
	}
}

// Clone returns a deep copy of the session. Status reads hand out clones
// so callers never observe a session mid-mutation.
func (s *Session) Clone() *Session {
	out := *s
	out.Players = make(map[PlayerID]*Player, len(s.Players))
	for id, p := range s.Players {
		cp := *p
		out.Players[id] = &cp
	}
	out.NightActions = make(map[PlayerID]NightAction, len(s.NightActions))
	for id, a := range s.NightActions {
		out.NightActions[id] = a
	}
	out.Votes = make(map[PlayerID]VoteRecord, len(s.Votes))
	for id, v := range s.Votes {
		out.Votes[id] = v
	}
	return &out
}

// PendingNightActors returns living role-holders who have a night action
// but have not submitted one this round.
func (s *Session) PendingNightActors() []PlayerID {
	var pending []PlayerID
	for _, id := range s.AlivePlayers(RoleMafia, RoleDoctor, RolePolice) {
		if _, ok := s.NightActions[id]; !ok {
			pending = append(pending, id)
		}
	}
	return pending
}
