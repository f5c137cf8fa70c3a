package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/avelkov/godfather/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newSession(community model.CommunityID) *model.Session {
	return model.NewSession(community, "host", model.DefaultSettings(), time.Now())
}

// Session tests

func (s *StorageSuite) TestCreateSessionIsInsertIfAbsent() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.newSession("chat-1")))
	s.ErrorIs(s.storage.CreateSession(s.ctx, s.newSession("chat-1")), model.ErrSessionAlreadyActive)

	// Other communities are unaffected
	s.NoError(s.storage.CreateSession(s.ctx, s.newSession("chat-2")))
}

func (s *StorageSuite) TestGetSession() {
	session := s.newSession("chat-1")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(session.Community, retrieved.Community)
	s.Equal(model.PhaseRegistration, retrieved.Phase)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nope")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *StorageSuite) TestSaveSessionOverwrites() {
	session := s.newSession("chat-1")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	session.Phase = model.PhaseNight
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(model.PhaseNight, retrieved.Phase)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.newSession("chat-1")))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "chat-1"))

	_, err := s.storage.GetSession(s.ctx, "chat-1")
	s.ErrorIs(err, model.ErrNoActiveSession)

	// Deleting again is a no-op
	s.NoError(s.storage.DeleteSession(s.ctx, "chat-1"))
}

func (s *StorageSuite) TestSessionExists() {
	exists, err := s.storage.SessionExists(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.CreateSession(s.ctx, s.newSession("chat-1")))

	exists, err = s.storage.SessionExists(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.True(exists)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		PlayerID:    "p_1",
		DisplayName: "Alice",
		Username:    "alice",
		CreatedAt:   time.Now(),
	}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccount(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)

	byName, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(account.PlayerID, byName.PlayerID)
}

func (s *StorageSuite) TestGuestAccountHasNoUsernameIndex() {
	account := &model.Account{PlayerID: "p_1", DisplayName: "Guest", Guest: true}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	_, err := s.storage.GetAccountByUsername(s.ctx, "")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Token tests

func (s *StorageSuite) TestSaveGetDeleteToken() {
	token := &model.Token{
		Value:     "tok-1",
		PlayerID:  "p_1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.storage.SaveToken(s.ctx, token))

	retrieved, err := s.storage.GetToken(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), retrieved.PlayerID)

	s.Require().NoError(s.storage.DeleteToken(s.ctx, "tok-1"))
	_, err = s.storage.GetToken(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrInvalidToken)
}
