// Package auth identifies HTTP API callers. It answers "who is calling";
// game-state legality stays with the game controller.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avelkov/godfather/internal/dependencies/clock"
	"github.com/avelkov/godfather/internal/dependencies/random"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/storage"
)

const (
	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength      = 12
	idAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Identity is an authenticated caller
type Identity struct {
	Account *model.Account
	Token   *model.Token
}

// Config holds configuration for the auth service
type Config struct {
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 24 * time.Hour,
	}
}

// Service handles accounts and bearer tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
}

// New creates a new auth Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateGuest creates an anonymous identity. When playerID is empty a
// fresh one is generated; glue that already knows the platform user id
// passes it through so game actions line up.
func (s *Service) CreateGuest(ctx context.Context, playerID model.PlayerID, displayName string) (*Identity, error) {
	if playerID == "" {
		playerID = model.PlayerID("p_" + s.random.String(idLength, idAlphabet))
	}
	now := s.clock.Now()

	account := &model.Account{
		PlayerID:    playerID,
		DisplayName: displayName,
		Guest:       true,
		CreatedAt:   now,
	}
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return s.issueToken(ctx, account)
}

// Register creates a password-protected account
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Identity, error) {
	_, err := s.storage.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		PlayerID:     model.PlayerID("p_" + s.random.String(idLength, idAlphabet)),
		DisplayName:  displayName,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", slog.String("player_id", string(account.PlayerID)))
	return s.issueToken(ctx, account)
}

// Login authenticates a registered account
func (s *Service) Login(ctx context.Context, username, password string) (*Identity, error) {
	account, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, model.ErrInvalidCredentials
	}
	return s.issueToken(ctx, account)
}

// ValidateToken resolves a bearer token to its identity
func (s *Service) ValidateToken(ctx context.Context, value string) (*Identity, error) {
	token, err := s.storage.GetToken(ctx, value)
	if err != nil {
		return nil, err
	}
	if s.clock.Now().After(token.ExpiresAt) {
		_ = s.storage.DeleteToken(ctx, value)
		return nil, model.ErrInvalidToken
	}
	account, err := s.storage.GetAccount(ctx, token.PlayerID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	return &Identity{Account: account, Token: token}, nil
}

// Logout invalidates a bearer token
func (s *Service) Logout(ctx context.Context, value string) error {
	return s.storage.DeleteToken(ctx, value)
}

func (s *Service) issueToken(ctx context.Context, account *model.Account) (*Identity, error) {
	now := s.clock.Now()
	token := &model.Token{
		Value:     s.random.String(tokenLength, tokenAlphabet),
		PlayerID:  account.PlayerID,
		ExpiresAt: now.Add(s.cfg.TokenDuration),
		CreatedAt: now,
	}
	if err := s.storage.SaveToken(ctx, token); err != nil {
		return nil, err
	}
	return &Identity{Account: account, Token: token}, nil
}
