package model

import "time"

// EventType identifies the type of game event
type EventType string

const (
	EventSessionStarted      EventType = "session_started"
	EventPlayerJoined        EventType = "player_joined"
	EventPhaseChanged        EventType = "phase_changed"
	EventRoleAssigned        EventType = "role_assigned"       // Private
	EventInvestigationResult EventType = "investigation_result" // Private
	EventElimination         EventType = "elimination"
	EventWinner              EventType = "winner"
	EventSessionAborted      EventType = "session_aborted"
)

// EliminationCause distinguishes how a player died
type EliminationCause string

const (
	CauseNightKill EliminationCause = "night_kill"
	CauseVote      EliminationCause = "vote"
)

// Team is a winning side
type Team string

const (
	TeamCitizens Team = "citizens"
	TeamMafia    Team = "mafia"
)

// Event is the structured notification the engine emits to platform glue.
// The engine never formats user-facing text; glue renders events however
// the chat platform requires.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Community CommunityID `json:"community"`

	// Private routes the event to a single player's channel instead of
	// the whole community (role notifications, investigation results).
	Private PlayerID `json:"private,omitempty"`

	Payload any `json:"payload,omitempty"`
}

// PhaseChangedPayload announces a phase transition
type PhaseChangedPayload struct {
	Phase    Phase      `json:"phase"`
	Round    int        `json:"round"`
	Deadline *time.Time `json:"deadline,omitempty"` // Absent for untimed phases
	Detail   string     `json:"detail,omitempty"`
}

// PlayerJoinedPayload announces a registration
type PlayerJoinedPayload struct {
	PlayerID    PlayerID `json:"player_id"`
	PlayerCount int      `json:"player_count"`
}

// RoleAssignedPayload privately tells a player their role.
// FellowMafia is populated only for mafia members.
type RoleAssignedPayload struct {
	Role        Role       `json:"role"`
	FellowMafia []PlayerID `json:"fellow_mafia,omitempty"`
}

// InvestigationResultPayload privately reports a police investigation
type InvestigationResultPayload struct {
	Target  PlayerID `json:"target"`
	IsMafia bool     `json:"is_mafia"`
}

// EliminationPayload reports a death (or the lack of one).
// The revealed fields follow the session's reveal mode.
type EliminationPayload struct {
	PlayerID *PlayerID        `json:"player_id,omitempty"` // nil: no one died
	Cause    EliminationCause `json:"cause"`
	Round    int              `json:"round"`

	WasMafia *bool `json:"was_mafia,omitempty"` // RevealAlignment and up
	Role     *Role `json:"role,omitempty"`      // RevealFullRole only

	// VoteCounts is present for vote eliminations: target id (or "skip") to count
	VoteCounts map[string]int `json:"vote_counts,omitempty"`
}

// WinnerPayload announces the winning team
type WinnerPayload struct {
	Team  Team `json:"team"`
	Round int  `json:"round"`
}
