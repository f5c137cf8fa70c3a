package model

import "time"

// Reveal modes control how much an elimination announcement discloses
const (
	RevealNone      = 1 // Name only
	RevealAlignment = 2 // Mafia or not
	RevealFullRole  = 3 // Exact role
)

// Settings holds the numeric game configuration for a session.
// Settings are mutable during registration and locked once the game starts.
type Settings struct {
	Mafia   int `json:"mafia"`
	Doctors int `json:"doctors"`
	Police  int `json:"police"`

	// Phase durations in seconds
	VoteTime         int `json:"vote_time"`
	DiscussionTime   int `json:"discussion_time"`
	NightTime        int `json:"night_time"`
	RegistrationTime int `json:"registration_time"`

	// MafiaSkips is how many nights per game the mafia may skip killing
	MafiaSkips int `json:"mafia_skips"`

	// RevealMode is one of the Reveal* constants
	RevealMode int `json:"reveal_mode"`
}

// DefaultSettings returns the standard game configuration
func DefaultSettings() Settings {
	return Settings{
		Mafia:            1,
		Doctors:          1,
		Police:           1,
		VoteTime:         30,
		DiscussionTime:   240,
		NightTime:        60,
		RegistrationTime: 90,
		MafiaSkips:       1,
		RevealMode:       RevealFullRole,
	}
}

// settingRange is the allowed [min, max] for one named setting
type settingRange struct {
	min, max int
}

var settingRanges = map[string]settingRange{
	"mafia":             {1, 5},
	"doctors":           {0, 3},
	"police":            {0, 3},
	"vote_time":         {30, 300},
	"discussion_time":   {30, 600},
	"night_time":        {15, 120},
	"registration_time": {30, 300},
	"mafia_skips":       {0, 3},
	"reveal_mode":       {RevealNone, RevealFullRole},
}

// Set updates the named setting after range validation
func (s *Settings) Set(name string, value int) error {
	r, ok := settingRanges[name]
	if !ok {
		return ErrUnknownSetting
	}
	if value < r.min || value > r.max {
		return ErrSettingsOutOfRange
	}

	switch name {
	case "mafia":
		s.Mafia = value
	case "doctors":
		s.Doctors = value
	case "police":
		s.Police = value
	case "vote_time":
		s.VoteTime = value
	case "discussion_time":
		s.DiscussionTime = value
	case "night_time":
		s.NightTime = value
	case "registration_time":
		s.RegistrationTime = value
	case "mafia_skips":
		s.MafiaSkips = value
	case "reveal_mode":
		s.RevealMode = value
	}
	return nil
}

// Validate checks every field against its allowed range
func (s *Settings) Validate() error {
	fields := map[string]int{
		"mafia":             s.Mafia,
		"doctors":           s.Doctors,
		"police":            s.Police,
		"vote_time":         s.VoteTime,
		"discussion_time":   s.DiscussionTime,
		"night_time":        s.NightTime,
		"registration_time": s.RegistrationTime,
		"mafia_skips":       s.MafiaSkips,
		"reveal_mode":       s.RevealMode,
	}
	for name, value := range fields {
		r := settingRanges[name]
		if value < r.min || value > r.max {
			return ErrSettingsOutOfRange
		}
	}
	return nil
}

// SpecialRoles is the number of non-citizen roles to deal
func (s *Settings) SpecialRoles() int {
	return s.Mafia + s.Doctors + s.Police
}

// MinPlayers is the minimum registered players for a meaningful game:
// every special role filled plus at least one citizen.
func (s *Settings) MinPlayers() int {
	return s.SpecialRoles() + 1
}

// Duration helpers

func (s *Settings) VoteDuration() time.Duration {
	return time.Duration(s.VoteTime) * time.Second
}

func (s *Settings) DiscussionDuration() time.Duration {
	return time.Duration(s.DiscussionTime) * time.Second
}

func (s *Settings) NightDuration() time.Duration {
	return time.Duration(s.NightTime) * time.Second
}

func (s *Settings) RegistrationDuration() time.Duration {
	return time.Duration(s.RegistrationTime) * time.Second
}
