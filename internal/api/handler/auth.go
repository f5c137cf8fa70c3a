// Package handler implements the HTTP handlers of the API.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avelkov/godfather/internal/api/apierr"
	"github.com/avelkov/godfather/internal/api/middleware"
	"github.com/avelkov/godfather/internal/api/request"
	"github.com/avelkov/godfather/internal/api/response"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/auth"
)

// AuthHandler serves the identity endpoints
type AuthHandler struct {
	auth   *auth.Service
	logger *slog.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// CreateGuest handles POST /auth/guest
func (h *AuthHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewBadRequestError("invalid request body"))
		return
	}
	if req.DisplayName == "" {
		apierr.WriteError(w, apierr.NewBadRequestError("display_name is required"))
		return
	}

	identity, err := h.auth.CreateGuest(r.Context(), model.PlayerID(req.PlayerID), req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, response.FromIdentity(identity))
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewBadRequestError("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewBadRequestError("username and password are required"))
		return
	}

	identity, err := h.auth.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, response.FromIdentity(identity))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewBadRequestError("invalid request body"))
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, response.FromIdentity(identity))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}
	if err := h.auth.Logout(r.Context(), identity.Token.Value); err != nil {
		apierr.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}
	response.WriteJSON(w, http.StatusOK, response.FromIdentity(identity))
}
