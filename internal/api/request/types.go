// Package request defines the JSON request bodies of the API.
package request

// CreateGuest creates an anonymous identity
type CreateGuest struct {
	// PlayerID lets platform glue bind the identity to a chat-platform
	// user id; empty means "generate one"
	PlayerID    string `json:"player_id,omitempty"`
	DisplayName string `json:"display_name"`
}

// RegisterAccount creates a password-protected account
type RegisterAccount struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Login authenticates a registered account
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateSetting changes one named game setting
type UpdateSetting struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// NightAction submits a role action for the current night
type NightAction struct {
	Role   string `json:"role"`
	Target string `json:"target,omitempty"`
	Skip   bool   `json:"skip,omitempty"`
}

// Vote submits a vote for the current voting phase
type Vote struct {
	Target string `json:"target,omitempty"`
	Skip   bool   `json:"skip,omitempty"`
}
