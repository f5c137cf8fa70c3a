package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/avelkov/godfather/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

const community = model.CommunityID("chat-1")

// Test: Complete game flow from registration to a citizens win
func (s *IntegrationSuite) TestCompleteGameFlow() {
	game := s.app.GameController

	// Step 1: The host opens a session and five players register.
	// With the mock's identity shuffle roles land on the sorted ids:
	// a=mafia, b=doctor, c=police, d and e citizens.
	_, err := game.StartSession(s.ctx, community, "a")
	s.Require().NoError(err)
	for _, id := range []model.PlayerID{"a", "b", "c", "d", "e"} {
		s.Require().NoError(game.RegisterPlayer(s.ctx, community, id))
	}

	// Step 2: The host starts the game early
	s.Require().NoError(game.ForceStart(s.ctx, community, "a"))

	session, err := game.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseNight, session.Phase)
	s.True(session.RolesAssigned)

	// Step 3: Night 1. The mafia kills d, the doctor protects e, the
	// police investigates a. All actions in resolves the night early.
	s.Require().NoError(game.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.Require().NoError(game.SubmitNightAction(s.ctx, community, "b", model.RoleDoctor, "e", false))
	s.Require().NoError(game.SubmitNightAction(s.ctx, community, "c", model.RolePolice, "a", false))

	session, err = game.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)
	s.Equal(2, session.Round)
	s.False(session.IsAlive("d"))

	// Step 4: The discussion deadline passes and voting opens
	s.app.MockScheduler.FireLast()

	session, err = game.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseVoting, session.Phase)

	// Step 5: The town votes out the mafia
	for _, voter := range []model.PlayerID{"b", "c", "e"} {
		s.Require().NoError(game.SubmitVote(s.ctx, community, voter, "a", false))
	}
	s.Require().NoError(game.SubmitVote(s.ctx, community, "a", "e", false))
	s.app.MockScheduler.FireLast()

	// Step 6: Citizens win and the session is gone
	_, err = game.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)

	// The community is free for the next game
	_, err = game.StartSession(s.ctx, community, "b")
	s.NoError(err)
}

func (s *IntegrationSuite) TestAuthAndGameShareStorage() {
	s.app.MockRandom.QueueString("tok-1")
	identity, err := s.app.AuthService.CreateGuest(s.ctx, "tg-42", "Alice")
	s.Require().NoError(err)

	resolved, err := s.app.AuthService.ValidateToken(s.ctx, identity.Token.Value)
	s.Require().NoError(err)

	_, err = s.app.GameController.StartSession(s.ctx, community, resolved.Account.PlayerID)
	s.Require().NoError(err)

	session, err := s.app.GameController.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("tg-42"), session.HostID)
}

type FactorySuite struct {
	suite.Suite
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) TestNewDefaultsToMemoryStorage() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Storage)
	s.NotNil(app.GameController)
	s.NotNil(app.AuthService)
	s.NotNil(app.HubManager)
}

func (s *FactorySuite) TestNewRejectsRedisWithoutConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *FactorySuite) TestNewRejectsUnknownStorageType() {
	_, err := New(Config{StorageType: "etcd"})
	s.Error(err)
}
