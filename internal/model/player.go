package model

import "time"

// PlayerID uniquely identifies a player across the system.
// It is the chat platform's user id.
type PlayerID string

// CommunityID identifies the chat community (guild/server) a game runs in
type CommunityID string

// Role is a player's hidden role
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleMafia   Role = "mafia"
	RoleDoctor  Role = "doctor"
	RolePolice  Role = "police"
)

// HasNightAction reports whether this role submits a night action
func (r Role) HasNightAction() bool {
	return r == RoleMafia || r == RoleDoctor || r == RolePolice
}

// Valid reports whether r is one of the four game roles
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleMafia, RoleDoctor, RolePolice:
		return true
	}
	return false
}

// Player represents a registered participant in a game session.
// Players are owned by their Session and referenced by id everywhere else.
type Player struct {
	ID    PlayerID
	Role  Role // Assigned once at role assignment, immutable after
	Alive bool

	// Per-round scratch state, cleared on each phase change
	NightTarget *PlayerID // Target of this round's night action, if any
	VotedFor    *PlayerID // This round's vote target (nil = no vote yet)
	VotedSkip   bool

	// SelfSavedLastRound persists across rounds for doctors: a doctor
	// who self-saved may not self-save again the following night.
	SelfSavedLastRound bool

	JoinedAt time.Time
}

// Account holds platform-facing identity for an API caller.
// Game legality never depends on accounts; they only answer "who is calling".
type Account struct {
	PlayerID     PlayerID
	DisplayName  string
	Username     string // Empty for guests
	PasswordHash string // bcrypt hash, empty for guests
	Guest        bool
	CreatedAt    time.Time
}

// Token is a bearer session token for the HTTP API
type Token struct {
	Value     string
	PlayerID  PlayerID
	ExpiresAt time.Time
	CreatedAt time.Time
}
