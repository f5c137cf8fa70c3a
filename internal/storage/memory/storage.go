package memory

import (
	"context"
	"sync"

	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions      map[model.CommunityID]*model.Session
	accounts      map[model.PlayerID]*model.Account
	usernameIndex map[string]model.PlayerID
	tokens        map[string]*model.Token
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:      make(map[model.CommunityID]*model.Session),
		accounts:      make(map[model.PlayerID]*model.Account),
		usernameIndex: make(map[string]model.PlayerID),
		tokens:        make(map[string]*model.Token),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Community]; ok {
		return model.ErrSessionAlreadyActive
	}
	s.sessions[session.Community] = session
	return nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Community] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, community model.CommunityID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[community]
	if !ok {
		return nil, model.ErrNoActiveSession
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, community model.CommunityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, community)
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, community model.CommunityID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[community]
	return ok, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.PlayerID] = account
	if account.Username != "" {
		s.usernameIndex[account.Username] = account.PlayerID
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

// Token operations

func (s *Storage) SaveToken(ctx context.Context, token *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Value] = token
	return nil
}

func (s *Storage) GetToken(ctx context.Context, value string) (*model.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[value]
	if !ok {
		return nil, model.ErrInvalidToken
	}
	return token, nil
}

func (s *Storage) DeleteToken(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, value)
	return nil
}
