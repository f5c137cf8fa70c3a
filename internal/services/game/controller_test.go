package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/avelkov/godfather/internal/dependencies/mocks"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/night"
	"github.com/avelkov/godfather/internal/services/roles"
	"github.com/avelkov/godfather/internal/services/vote"
	"github.com/avelkov/godfather/internal/storage/memory"
	"github.com/avelkov/godfather/internal/testutil"
)

// recordSink captures outbound events for assertions
type recordSink struct {
	started        []model.PlayerID
	joins          []model.PlayerID
	phases         []model.PhaseChangedPayload
	roles          map[model.PlayerID]model.RoleAssignedPayload
	investigations map[model.PlayerID]model.InvestigationResultPayload
	eliminations   []model.EliminationPayload
	winners        []model.WinnerPayload
}

func newRecordSink() *recordSink {
	return &recordSink{
		roles:          make(map[model.PlayerID]model.RoleAssignedPayload),
		investigations: make(map[model.PlayerID]model.InvestigationResultPayload),
	}
}

func (s *recordSink) AnnounceSessionStarted(_ model.CommunityID, host model.PlayerID) {
	s.started = append(s.started, host)
}

func (s *recordSink) AnnouncePlayerJoined(_ model.CommunityID, player model.PlayerID, _ int) {
	s.joins = append(s.joins, player)
}

func (s *recordSink) AnnouncePhaseChange(_ model.CommunityID, payload model.PhaseChangedPayload) {
	s.phases = append(s.phases, payload)
}

func (s *recordSink) NotifyPlayerRole(_ model.CommunityID, player model.PlayerID, payload model.RoleAssignedPayload) {
	s.roles[player] = payload
}

func (s *recordSink) NotifyInvestigationResult(_ model.CommunityID, officer model.PlayerID, payload model.InvestigationResultPayload) {
	s.investigations[officer] = payload
}

func (s *recordSink) AnnounceElimination(_ model.CommunityID, payload model.EliminationPayload) {
	s.eliminations = append(s.eliminations, payload)
}

func (s *recordSink) AnnounceWinner(_ model.CommunityID, payload model.WinnerPayload) {
	s.winners = append(s.winners, payload)
}

func (s *recordSink) lastPhase() model.PhaseChangedPayload {
	return s.phases[len(s.phases)-1]
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	scheduler  *mocks.MockScheduler
	random     *mocks.MockRandom
	sink       *recordSink
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.scheduler = mocks.NewMockScheduler()
	s.random = mocks.NewMockRandom()
	s.sink = newRecordSink()
	s.controller = NewController(
		s.storage,
		roles.New(s.random, logger),
		night.New(logger),
		vote.New(logger),
		s.clock,
		s.scheduler,
		s.sink,
		logger,
	)
	s.ctx = context.Background()
}

const community = model.CommunityID("chat-1")

// startFiveGame opens a session hosted by "a", registers five players and
// force-starts. With the identity shuffle roles land on the sorted ids:
// a=mafia, b=doctor, c=police, d and e citizens.
func (s *ControllerSuite) startFiveGame() {
	_, err := s.controller.StartSession(s.ctx, community, "a")
	s.Require().NoError(err)
	for _, id := range []model.PlayerID{"a", "b", "c", "d", "e"} {
		s.Require().NoError(s.controller.RegisterPlayer(s.ctx, community, id))
	}
	s.Require().NoError(s.controller.ForceStart(s.ctx, community, "a"))
}

// StartSession tests

func (s *ControllerSuite) TestStartSessionOpensRegistration() {
	session, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.Equal(model.PhaseRegistration, session.Phase)
	s.Equal(1, session.Round)
	s.Equal(model.PlayerID("host"), session.HostID)

	s.Equal([]model.PlayerID{"host"}, s.sink.started)
	s.Require().Len(s.sink.phases, 1)
	s.Require().NotNil(s.sink.phases[0].Deadline)
	s.Equal(s.clock.Now().Add(90*time.Second), *s.sink.phases[0].Deadline)

	// The registration deadline timer is armed
	s.Require().NotNil(s.scheduler.Last())
	s.Equal(90*time.Second, s.scheduler.Last().Duration)
}

func (s *ControllerSuite) TestStartSessionRejectsSecondSession() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	_, err = s.controller.StartSession(s.ctx, community, "other")
	s.ErrorIs(err, model.ErrSessionAlreadyActive)
}

func (s *ControllerSuite) TestSessionsAreIndependentAcrossCommunities() {
	_, err := s.controller.StartSession(s.ctx, "chat-1", "host")
	s.Require().NoError(err)
	_, err = s.controller.StartSession(s.ctx, "chat-2", "host")
	s.NoError(err)
}

// Registration tests

func (s *ControllerSuite) TestRegisterPlayer() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.RegisterPlayer(s.ctx, community, "p1"))
	s.ErrorIs(s.controller.RegisterPlayer(s.ctx, community, "p1"), model.ErrDuplicateRegistration)

	s.Equal([]model.PlayerID{"p1"}, s.sink.joins)

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.True(session.IsAlive("p1"))
}

func (s *ControllerSuite) TestRegisterPlayerWithoutSessionFails() {
	err := s.controller.RegisterPlayer(s.ctx, community, "p1")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestRegistrationExpiryWithTooFewPlayersDiscardsSession() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)
	s.Require().NoError(s.controller.RegisterPlayer(s.ctx, community, "p1"))

	s.scheduler.FireLast()

	_, err = s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal(model.PhaseAborted, s.sink.lastPhase().Phase)
	s.Equal("not enough players", s.sink.lastPhase().Detail)
}

func (s *ControllerSuite) TestForceStartWithTooFewPlayersFails() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	err = s.controller.ForceStart(s.ctx, community, "host")
	s.ErrorIs(err, model.ErrNotEnoughPlayers)

	_, err = s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestForceStartIsHostOnly() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.ErrorIs(s.controller.ForceStart(s.ctx, community, "p1"), model.ErrNotHost)
}

func (s *ControllerSuite) TestForceStartDealsRolesAndEntersNight() {
	s.startFiveGame()

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseNight, session.Phase)
	s.True(session.RolesAssigned)
	s.Equal(model.RoleMafia, session.Players["a"].Role)
	s.Equal(model.RoleDoctor, session.Players["b"].Role)
	s.Equal(model.RolePolice, session.Players["c"].Role)
	s.Equal(model.RoleCitizen, session.Players["d"].Role)

	// Every player got a private role notification
	s.Len(s.sink.roles, 5)
	s.Equal(model.RoleMafia, s.sink.roles["a"].Role)
	s.Empty(s.sink.roles["a"].FellowMafia) // Lone mafioso has no fellows

	// The night deadline timer is armed
	s.Equal(60*time.Second, s.scheduler.Last().Duration)
}

func (s *ControllerSuite) TestForceStartTwiceFails() {
	s.startFiveGame()
	s.ErrorIs(s.controller.ForceStart(s.ctx, community, "a"), model.ErrPhaseClosed)
}

func (s *ControllerSuite) TestFellowMafiaListedForEachMember() {
	_, err := s.controller.StartSession(s.ctx, community, "a")
	s.Require().NoError(err)
	for _, id := range []model.PlayerID{"a", "b", "c", "d", "e", "f"} {
		s.Require().NoError(s.controller.RegisterPlayer(s.ctx, community, id))
	}
	s.Require().NoError(s.controller.UpdateSetting(s.ctx, community, "a", "mafia", 2))
	s.Require().NoError(s.controller.ForceStart(s.ctx, community, "a"))

	// a and b are the two mafia under the identity shuffle
	s.Equal([]model.PlayerID{"b"}, s.sink.roles["a"].FellowMafia)
	s.Equal([]model.PlayerID{"a"}, s.sink.roles["b"].FellowMafia)
	s.Empty(s.sink.roles["c"].FellowMafia)
}

// Settings tests

func (s *ControllerSuite) TestUpdateSettingIsHostOnly() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.ErrorIs(s.controller.UpdateSetting(s.ctx, community, "p1", "mafia", 2), model.ErrNotHost)
	s.NoError(s.controller.UpdateSetting(s.ctx, community, "host", "mafia", 2))

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(2, session.Settings.Mafia)
}

func (s *ControllerSuite) TestUpdateSettingRejectsBadValues() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.ErrorIs(s.controller.UpdateSetting(s.ctx, community, "host", "mafia", 99), model.ErrSettingsOutOfRange)
	s.ErrorIs(s.controller.UpdateSetting(s.ctx, community, "host", "nope", 1), model.ErrUnknownSetting)
}

func (s *ControllerSuite) TestSettingsLockOnceStarted() {
	s.startFiveGame()
	err := s.controller.UpdateSetting(s.ctx, community, "a", "mafia", 2)
	s.ErrorIs(err, model.ErrSettingsLockedOnceStarted)
}

// Night phase tests

func (s *ControllerSuite) TestNightActionOutsideNightFails() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	err = s.controller.SubmitNightAction(s.ctx, community, "p1", model.RoleMafia, "p2", false)
	s.ErrorIs(err, model.ErrPhaseClosed)
}

func (s *ControllerSuite) TestNightResolvesEarlyWhenAllActionsIn() {
	s.startFiveGame()

	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "b", model.RoleDoctor, "e", false))

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseNight, session.Phase)

	// The last pending role-holder acting triggers resolution
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "c", model.RolePolice, "a", false))

	session, err = s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)
	s.Equal(2, session.Round)
	s.False(session.IsAlive("d"))

	// The police got their private result
	s.Require().Contains(s.sink.investigations, model.PlayerID("c"))
	s.True(s.sink.investigations["c"].IsMafia)
	s.Equal(model.PlayerID("a"), s.sink.investigations["c"].Target)

	// The elimination was announced against the round the night belonged to
	s.Require().Len(s.sink.eliminations, 1)
	s.Require().NotNil(s.sink.eliminations[0].PlayerID)
	s.Equal(model.PlayerID("d"), *s.sink.eliminations[0].PlayerID)
	s.Equal(model.CauseNightKill, s.sink.eliminations[0].Cause)
	s.Equal(1, s.sink.eliminations[0].Round)
}

func (s *ControllerSuite) TestStaleNightTimerIsNoOp() {
	s.startFiveGame()
	nightTimer := s.scheduler.Last()

	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "b", model.RoleDoctor, "e", false))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "c", model.RolePolice, "a", false))

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)

	// The old night deadline fires late. Its PhaseSeq is stale, so nothing
	// happens.
	nightTimer.Fire()

	after, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, after.Phase)
	s.Equal(session.Round, after.Round)
	s.Len(s.sink.eliminations, 1)
}

func (s *ControllerSuite) TestNightTimerResolvesWithPartialActions() {
	s.startFiveGame()

	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))

	// Doctor and police never act; the deadline resolves with what came in
	s.scheduler.FireLast()

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)
	s.False(session.IsAlive("d"))
}

func (s *ControllerSuite) TestDoctorSavePreventsElimination() {
	s.startFiveGame()

	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "b", model.RoleDoctor, "d", false))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "c", model.RolePolice, "e", false))

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)
	s.True(session.IsAlive("d"))

	s.Require().Len(s.sink.eliminations, 1)
	s.Nil(s.sink.eliminations[0].PlayerID)
}

func (s *ControllerSuite) TestMafiaSkipForfeitsKill() {
	s.startFiveGame()

	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "", true))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "b", model.RoleDoctor, "d", false))
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "c", model.RolePolice, "e", false))

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)
	s.Equal(5, session.AliveCount())
	s.Equal(1, session.SkipsUsed)
}

// Voting phase tests

func (s *ControllerSuite) TestDiscussionDeadlineOpensVoting() {
	s.startFiveGame()
	s.scheduler.FireLast() // night deadline, nobody died

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseDayDiscussion, session.Phase)

	s.scheduler.FireLast() // discussion deadline

	session, err = s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseVoting, session.Phase)
	s.Equal(30*time.Second, s.scheduler.Last().Duration)
}

func (s *ControllerSuite) TestVoteOutsideVotingFails() {
	s.startFiveGame()
	err := s.controller.SubmitVote(s.ctx, community, "d", "a", false)
	s.ErrorIs(err, model.ErrPhaseClosed)
}

func (s *ControllerSuite) TestVotingEliminationReturnsToNight() {
	s.startFiveGame()
	s.scheduler.FireLast() // night: no deaths
	s.scheduler.FireLast() // discussion over

	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "b", "d", false))
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "c", "d", false))
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "e", "d", false))
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "a", "e", false))
	s.scheduler.FireLast() // voting deadline

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseNight, session.Phase)
	s.False(session.IsAlive("d"))

	last := s.sink.eliminations[len(s.sink.eliminations)-1]
	s.Equal(model.CauseVote, last.Cause)
	s.Equal(3, last.VoteCounts["d"])
}

func (s *ControllerSuite) TestVotingWithoutMajorityEliminatesNobody() {
	s.startFiveGame()
	s.scheduler.FireLast()
	s.scheduler.FireLast()

	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "b", "d", false))
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "c", "e", false))
	s.scheduler.FireLast()

	session, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.Equal(model.PhaseNight, session.Phase)
	s.Equal(5, session.AliveCount())
}

// Win condition tests

func (s *ControllerSuite) TestVotingOutMafiaEndsGameForCitizens() {
	s.startFiveGame()
	s.scheduler.FireLast()
	s.scheduler.FireLast()

	for _, voter := range []model.PlayerID{"b", "c", "e"} {
		s.Require().NoError(s.controller.SubmitVote(s.ctx, community, voter, "a", false))
	}
	s.scheduler.FireLast()

	_, err := s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)

	s.Equal(model.PhaseCitizensWin, s.sink.lastPhase().Phase)
	s.Require().Len(s.sink.winners, 1)
	s.Equal(model.TeamCitizens, s.sink.winners[0].Team)
}

func (s *ControllerSuite) TestMafiaReachingParityEndsGame() {
	s.startFiveGame()

	// Night 1: d dies. Mafia 1 vs town 3, game continues.
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.scheduler.FireLast()

	// Day 1: e is voted out. Mafia 1 vs town 2, continues.
	s.scheduler.FireLast()
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "a", "e", false))
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "b", "e", false))
	s.Require().NoError(s.controller.SubmitVote(s.ctx, community, "c", "e", false))
	s.scheduler.FireLast()

	// Night 2: b dies. Mafia 1 vs town 1: parity.
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "b", false))
	s.scheduler.FireLast()

	_, err := s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)

	s.Equal(model.PhaseMafiaWin, s.sink.lastPhase().Phase)
	s.Require().Len(s.sink.winners, 1)
	s.Equal(model.TeamMafia, s.sink.winners[0].Team)
}

// Reveal mode tests

func (s *ControllerSuite) TestRevealFullRoleByDefault() {
	s.startFiveGame()
	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.scheduler.FireLast()

	elim := s.sink.eliminations[0]
	s.Require().NotNil(elim.WasMafia)
	s.False(*elim.WasMafia)
	s.Require().NotNil(elim.Role)
	s.Equal(model.RoleCitizen, *elim.Role)
}

func (s *ControllerSuite) TestRevealNoneHidesRoleAndAlignment() {
	_, err := s.controller.StartSession(s.ctx, community, "a")
	s.Require().NoError(err)
	for _, id := range []model.PlayerID{"a", "b", "c", "d", "e"} {
		s.Require().NoError(s.controller.RegisterPlayer(s.ctx, community, id))
	}
	s.Require().NoError(s.controller.UpdateSetting(s.ctx, community, "a", "reveal_mode", model.RevealNone))
	s.Require().NoError(s.controller.ForceStart(s.ctx, community, "a"))

	s.Require().NoError(s.controller.SubmitNightAction(s.ctx, community, "a", model.RoleMafia, "d", false))
	s.scheduler.FireLast()

	elim := s.sink.eliminations[0]
	s.Require().NotNil(elim.PlayerID)
	s.Nil(elim.WasMafia)
	s.Nil(elim.Role)
}

// Abort tests

func (s *ControllerSuite) TestAbortIsIdempotent() {
	s.NoError(s.controller.Abort(s.ctx, community, "anyone"))
}

func (s *ControllerSuite) TestAbortIsHostOnly() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.ErrorIs(s.controller.Abort(s.ctx, community, "p1"), model.ErrNotHost)
	s.NoError(s.controller.Abort(s.ctx, community, "host"))

	_, err = s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal(model.PhaseAborted, s.sink.lastPhase().Phase)
}

func (s *ControllerSuite) TestSystemAbortBypassesHostCheck() {
	_, err := s.controller.StartSession(s.ctx, community, "host")
	s.Require().NoError(err)

	s.NoError(s.controller.Abort(s.ctx, community, ""))

	_, err = s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestAbortMidGameStopsTimer() {
	s.startFiveGame()
	nightTimer := s.scheduler.Last()

	s.Require().NoError(s.controller.Abort(s.ctx, community, "a"))
	s.True(nightTimer.Stopped)

	// A new session can start immediately
	_, err := s.controller.StartSession(s.ctx, community, "b")
	s.NoError(err)
}

// Status tests

func (s *ControllerSuite) TestStatusReturnsSnapshot() {
	s.startFiveGame()

	snapshot, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)

	// Mutating the snapshot must not touch the live session
	snapshot.Players["a"].Alive = false

	fresh, err := s.controller.Status(s.ctx, community)
	s.Require().NoError(err)
	s.True(fresh.IsAlive("a"))
}

func (s *ControllerSuite) TestStatusWithoutSessionFails() {
	_, err := s.controller.Status(s.ctx, community)
	s.ErrorIs(err, model.ErrNoActiveSession)
}
