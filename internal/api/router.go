// Package api wires the HTTP surface of the engine.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avelkov/godfather/internal/api/handler"
	"github.com/avelkov/godfather/internal/api/middleware"
	"github.com/avelkov/godfather/internal/api/response"
	"github.com/avelkov/godfather/internal/events"
	"github.com/avelkov/godfather/internal/services/auth"
	"github.com/avelkov/godfather/internal/services/game"
)

// NewRouter builds the API router with all routes and middleware
func NewRouter(
	controller game.ControllerInterface,
	authService *auth.Service,
	hubs *events.HubManager,
	logger *slog.Logger,
) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(logger))
	api.Use(middleware.Logging(logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	authHandler := handler.NewAuthHandler(authService, logger)
	api.HandleFunc("/auth/guest", authHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(authService))

	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	sessionHandler := handler.NewSessionHandler(controller, logger)
	protected.HandleFunc("/communities/{community}/session", sessionHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/communities/{community}/session", sessionHandler.Status).Methods(http.MethodGet)
	protected.HandleFunc("/communities/{community}/session", sessionHandler.Abort).Methods(http.MethodDelete)
	protected.HandleFunc("/communities/{community}/session/players", sessionHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/communities/{community}/session/settings", sessionHandler.UpdateSetting).Methods(http.MethodPut)
	protected.HandleFunc("/communities/{community}/session/start", sessionHandler.ForceStart).Methods(http.MethodPost)

	actionHandler := handler.NewActionHandler(controller, logger)
	protected.HandleFunc("/communities/{community}/session/night-action", actionHandler.SubmitNightAction).Methods(http.MethodPost)
	protected.HandleFunc("/communities/{community}/session/vote", actionHandler.SubmitVote).Methods(http.MethodPost)

	streamHandler := handler.NewStreamHandler(hubs, logger)
	protected.HandleFunc("/communities/{community}/events", streamHandler.Stream).Methods(http.MethodGet)

	return router
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Health{Status: "ok"})
}
