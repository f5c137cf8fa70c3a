// Package response defines the JSON response bodies of the API.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/auth"
)

// Identity is returned by the auth endpoints
type Identity struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Guest       bool      `json:"guest"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FromIdentity builds the API view of an authenticated identity
func FromIdentity(identity *auth.Identity) Identity {
	return Identity{
		PlayerID:    string(identity.Account.PlayerID),
		DisplayName: identity.Account.DisplayName,
		Guest:       identity.Account.Guest,
		Token:       identity.Token.Value,
		ExpiresAt:   identity.Token.ExpiresAt,
	}
}

// PlayerView is one player in a session view.
// Roles are exposed because API callers are trusted platform glue
// which handles per-player delivery itself.
type PlayerView struct {
	ID    string `json:"id"`
	Alive bool   `json:"alive"`
	Role  string `json:"role,omitempty"`
}

// SessionView is the API view of a session
type SessionView struct {
	Community     string         `json:"community"`
	Phase         string         `json:"phase"`
	Round         int            `json:"round"`
	Host          string         `json:"host"`
	Settings      model.Settings `json:"settings"`
	Players       []PlayerView   `json:"players"`
	RolesAssigned bool           `json:"roles_assigned"`
	SkipsUsed     int            `json:"skips_used"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// FromSession builds the API view of a session
func FromSession(session *model.Session) SessionView {
	view := SessionView{
		Community:     string(session.Community),
		Phase:         string(session.Phase),
		Round:         session.Round,
		Host:          string(session.HostID),
		Settings:      session.Settings,
		Players:       make([]PlayerView, 0, len(session.Players)),
		RolesAssigned: session.RolesAssigned,
		SkipsUsed:     session.SkipsUsed,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
	for _, id := range session.PlayerIDs() {
		p := session.Players[id]
		pv := PlayerView{ID: string(p.ID), Alive: p.Alive}
		if session.RolesAssigned {
			pv.Role = string(p.Role)
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
