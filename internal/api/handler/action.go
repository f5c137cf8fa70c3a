package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avelkov/godfather/internal/api/apierr"
	"github.com/avelkov/godfather/internal/api/middleware"
	"github.com/avelkov/godfather/internal/api/request"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/game"
)

// ActionHandler serves the in-game submission endpoints
type ActionHandler struct {
	game   game.ControllerInterface
	logger *slog.Logger
}

// NewActionHandler creates an action handler
func NewActionHandler(controller game.ControllerInterface, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{game: controller, logger: logger}
}

// SubmitNightAction handles POST /communities/{community}/session/night-action
func (h *ActionHandler) SubmitNightAction(w http.ResponseWriter, r *http.Request) {
	var req request.NightAction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewBadRequestError("invalid request body"))
		return
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		apierr.WriteError(w, apierr.NewBadRequestError("unknown role"))
		return
	}
	if !req.Skip && req.Target == "" {
		apierr.WriteError(w, apierr.NewBadRequestError("target is required unless skipping"))
		return
	}

	community := communityVar(r)
	submitter := middleware.CallerID(r.Context())

	err := h.game.SubmitNightAction(r.Context(), community, submitter, role, model.PlayerID(req.Target), req.Skip)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitVote handles POST /communities/{community}/session/vote
func (h *ActionHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req request.Vote
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewBadRequestError("invalid request body"))
		return
	}
	if !req.Skip && req.Target == "" {
		apierr.WriteError(w, apierr.NewBadRequestError("target is required unless skipping"))
		return
	}

	community := communityVar(r)
	voter := middleware.CallerID(r.Context())

	err := h.game.SubmitVote(r.Context(), community, voter, model.PlayerID(req.Target), req.Skip)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
