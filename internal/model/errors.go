package model

import "errors"

// Common errors used across the application.
// All game errors are local, recoverable rejections of a single request;
// none of them end a session.
var (
	// Session lifecycle errors
	ErrSessionAlreadyActive = errors.New("a game session is already active for this community")
	ErrNoActiveSession      = errors.New("no active game session for this community")
	ErrNotEnoughPlayers     = errors.New("not enough players to start the game")
	ErrNotHost              = errors.New("player is not the session host")

	// Registration errors
	ErrDuplicateRegistration = errors.New("player is already registered")
	ErrRegistrationClosed    = errors.New("registration is closed")
	ErrUnknownPlayer         = errors.New("player is not registered in this game")

	// Role assignment errors
	ErrInsufficientPlayers = errors.New("insufficient players for the configured roles")
	ErrAlreadyAssigned     = errors.New("roles have already been assigned")

	// Action errors
	ErrPhaseClosed          = errors.New("the phase is not accepting this action")
	ErrIllegalActionForRole = errors.New("this action is not legal for the player's role")
	ErrNoSkipsRemaining     = errors.New("mafia has no kill skips remaining")

	// Settings errors
	ErrSettingsOutOfRange        = errors.New("setting value is out of range")
	ErrUnknownSetting            = errors.New("unknown setting name")
	ErrSettingsLockedOnceStarted = errors.New("settings are locked once the game has started")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired session token")
)
