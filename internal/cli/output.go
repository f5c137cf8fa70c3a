package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case SessionView:
		o.printSession(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches API)
type Identity struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Guest       bool      `json:"guest"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PlayerView response type
type PlayerView struct {
	ID    string `json:"id"`
	Alive bool   `json:"alive"`
	Role  string `json:"role,omitempty"`
}

// SettingsView response type
type SettingsView struct {
	Mafia            int `json:"mafia"`
	Doctors          int `json:"doctors"`
	Police           int `json:"police"`
	VoteTime         int `json:"vote_time"`
	DiscussionTime   int `json:"discussion_time"`
	NightTime        int `json:"night_time"`
	RegistrationTime int `json:"registration_time"`
	MafiaSkips       int `json:"mafia_skips"`
	RevealMode       int `json:"reveal_mode"`
}

// SessionView response type
type SessionView struct {
	Community     string       `json:"community"`
	Phase         string       `json:"phase"`
	Round         int          `json:"round"`
	Host          string       `json:"host"`
	Settings      SettingsView `json:"settings"`
	Players       []PlayerView `json:"players"`
	RolesAssigned bool         `json:"roles_assigned"`
	SkipsUsed     int          `json:"skips_used"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(i Identity) {
	guestStr := "no"
	if i.Guest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", i.DisplayName, i.PlayerID)
	fmt.Printf("Guest: %s\n", guestStr)
	fmt.Printf("Token: %s\n", i.Token)
	fmt.Printf("Expires: %s\n", i.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printSession(s SessionView) {
	fmt.Printf("Community: %s\n", s.Community)
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Printf("Round: %d\n", s.Round)
	fmt.Printf("Host: %s\n", s.Host)
	fmt.Printf("Settings: %d mafia, %d doctors, %d police\n", s.Settings.Mafia, s.Settings.Doctors, s.Settings.Police)
	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		if p.Role != "" {
			fmt.Printf("  - %s (%s, %s)\n", p.ID, p.Role, status)
		} else {
			fmt.Printf("  - %s (%s)\n", p.ID, status)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
