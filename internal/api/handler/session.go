package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avelkov/godfather/internal/api/apierr"
	"github.com/avelkov/godfather/internal/api/middleware"
	"github.com/avelkov/godfather/internal/api/request"
	"github.com/avelkov/godfather/internal/api/response"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/game"
)

// SessionHandler serves the session lifecycle endpoints
type SessionHandler struct {
	game   game.ControllerInterface
	logger *slog.Logger
}

// NewSessionHandler creates a session handler
func NewSessionHandler(controller game.ControllerInterface, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{game: controller, logger: logger}
}

func communityVar(r *http.Request) model.CommunityID {
	return model.CommunityID(mux.Vars(r)["community"])
}

// writeStatus responds with the current session view
func (h *SessionHandler) writeStatus(w http.ResponseWriter, r *http.Request, community model.CommunityID) {
	session, err := h.game.Status(r.Context(), community)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, response.FromSession(session))
}

// Start handles POST /communities/{community}/session
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	community := communityVar(r)
	host := middleware.CallerID(r.Context())

	session, err := h.game.StartSession(r.Context(), community, host)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, response.FromSession(session))
}

// Status handles GET /communities/{community}/session
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	session, err := h.game.Status(r.Context(), communityVar(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, response.FromSession(session))
}

// Join handles POST /communities/{community}/session/players
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	community := communityVar(r)
	player := middleware.CallerID(r.Context())

	if err := h.game.RegisterPlayer(r.Context(), community, player); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeStatus(w, r, community)
}

// UpdateSetting handles PUT /communities/{community}/session/settings
func (h *SessionHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSetting
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewBadRequestError("invalid request body"))
		return
	}

	community := communityVar(r)
	caller := middleware.CallerID(r.Context())

	if err := h.game.UpdateSetting(r.Context(), community, caller, req.Name, req.Value); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeStatus(w, r, community)
}

// ForceStart handles POST /communities/{community}/session/start
func (h *SessionHandler) ForceStart(w http.ResponseWriter, r *http.Request) {
	community := communityVar(r)
	caller := middleware.CallerID(r.Context())

	if err := h.game.ForceStart(r.Context(), community, caller); err != nil {
		apierr.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Abort handles DELETE /communities/{community}/session
func (h *SessionHandler) Abort(w http.ResponseWriter, r *http.Request) {
	community := communityVar(r)
	caller := middleware.CallerID(r.Context())

	if err := h.game.Abort(r.Context(), community, caller); err != nil {
		apierr.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
