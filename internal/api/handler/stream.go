package handler

import (
	"log/slog"
	"net/http"

	"github.com/avelkov/godfather/internal/api/middleware"
	"github.com/avelkov/godfather/internal/events"
)

// StreamHandler serves the per-community SSE event stream
type StreamHandler struct {
	hubs   *events.HubManager
	logger *slog.Logger
}

// NewStreamHandler creates a stream handler
func NewStreamHandler(hubs *events.HubManager, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{hubs: hubs, logger: logger}
}

// Stream handles GET /communities/{community}/events.
// Connecting before a session exists is allowed so platform glue can
// subscribe ahead of the session_started event.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	community := communityVar(r)
	player := middleware.CallerID(r.Context())

	hub := h.hubs.GetOrCreateHub(community)
	events.ServeSSE(w, r, hub, player)
}
