// Package factory wires the application's components together.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/avelkov/godfather/internal/dependencies/clock"
	"github.com/avelkov/godfather/internal/dependencies/random"
	"github.com/avelkov/godfather/internal/events"
	"github.com/avelkov/godfather/internal/services/auth"
	"github.com/avelkov/godfather/internal/services/game"
	"github.com/avelkov/godfather/internal/services/night"
	"github.com/avelkov/godfather/internal/services/roles"
	"github.com/avelkov/godfather/internal/services/vote"
	"github.com/avelkov/godfather/internal/storage"
	"github.com/avelkov/godfather/internal/storage/memory"
	redisstorage "github.com/avelkov/godfather/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Scheduler clock.Scheduler
	Random    random.Random

	// Services
	Assigner       *roles.Assigner
	NightResolver  *night.Resolver
	VoteTally      *vote.Tally
	GameController *game.Controller
	AuthService    *auth.Service
	HubManager     *events.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	scheduler := clock.NewScheduler()
	rnd := random.New()

	authCfg := cfg.AuthConfig
	if authCfg.TokenDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, scheduler, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	scheduler clock.Scheduler,
	rnd random.Random,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	hubManager := events.NewHubManager(logger)
	sink := events.NewHubSink(hubManager, clk.Now)

	assigner := roles.New(rnd, logger)
	resolver := night.New(logger)
	tally := vote.New(logger)
	gameController := game.NewController(store, assigner, resolver, tally, clk, scheduler, sink, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Scheduler:      scheduler,
		Random:         rnd,
		Assigner:       assigner,
		NightResolver:  resolver,
		VoteTally:      tally,
		GameController: gameController,
		AuthService:    authService,
		HubManager:     hubManager,
	}
}
