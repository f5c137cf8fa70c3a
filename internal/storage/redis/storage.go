package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// SetNX gives insert-if-absent: the loser of a concurrent create
	// sees the key already present.
	ok, err := s.client.SetNX(ctx, sessionKey(session.Community), data, s.cfg.SessionTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrSessionAlreadyActive
	}
	return nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Community), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, community model.CommunityID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(community)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, community model.CommunityID) error {
	return s.client.Del(ctx, sessionKey(community)).Err()
}

func (s *Storage) SessionExists(ctx context.Context, community model.CommunityID) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(community)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if account.Guest {
		ttl = s.cfg.GuestAccountTTL
	}

	if err := s.client.Set(ctx, accountKey(account.PlayerID), data, ttl).Err(); err != nil {
		return err
	}
	if account.Username != "" {
		return s.client.Set(ctx, usernameIndexKey(account.Username), string(account.PlayerID), 0).Err()
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, model.PlayerID(id))
}

// Token operations

func (s *Storage) SaveToken(ctx context.Context, token *model.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	// Let Redis expire the token itself
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, tokenKey(token.Value), data, ttl).Err()
}

func (s *Storage) GetToken(ctx context.Context, value string) (*model.Token, error) {
	data, err := s.client.Get(ctx, tokenKey(value)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	var token model.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Storage) DeleteToken(ctx context.Context, value string) error {
	return s.client.Del(ctx, tokenKey(value)).Err()
}
