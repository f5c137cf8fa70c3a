// Package game drives the phase state machine for mafia sessions:
// registration, role assignment, timed night/discussion/voting phases,
// and terminal win states.
package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avelkov/godfather/internal/dependencies/clock"
	"github.com/avelkov/godfather/internal/events"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/night"
	"github.com/avelkov/godfather/internal/services/roles"
	"github.com/avelkov/godfather/internal/services/vote"
	"github.com/avelkov/godfather/internal/services/win"
	"github.com/avelkov/godfather/internal/storage"
)

// Controller is the phase scheduler. It owns session lifecycle, phase
// timers and outbound events. All mutation of one community's session is
// serialized through that community's runner lock, so a submission racing
// a phase deadline is either fully applied or rejected with PhaseClosed.
type Controller struct {
	storage   storage.Storage
	assigner  *roles.Assigner
	resolver  *night.Resolver
	tally     *vote.Tally
	clock     clock.Clock
	scheduler clock.Scheduler
	sink      events.Sink
	logger    *slog.Logger

	mu      sync.Mutex
	runners map[model.CommunityID]*runner
}

// runner holds the per-community lock and the live phase timer
type runner struct {
	mu    sync.Mutex
	timer clock.Timer
}

// NewController creates a new game Controller
func NewController(
	store storage.Storage,
	assigner *roles.Assigner,
	resolver *night.Resolver,
	tally *vote.Tally,
	clk clock.Clock,
	scheduler clock.Scheduler,
	sink events.Sink,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   store,
		assigner:  assigner,
		resolver:  resolver,
		tally:     tally,
		clock:     clk,
		scheduler: scheduler,
		sink:      sink,
		logger:    logger,
		runners:   make(map[model.CommunityID]*runner),
	}
}

func (c *Controller) runnerFor(community model.CommunityID) *runner {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.runners[community]
	if !ok {
		r = &runner{}
		c.runners[community] = r
	}
	return r
}

func (c *Controller) dropRunner(community model.CommunityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.runners[community]; ok {
		if r.timer != nil {
			r.timer.Stop()
		}
		delete(c.runners, community)
	}
}

// Close cancels every live phase timer. Sessions stay in storage; a
// restarted process starts fresh games.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.runners {
		if r.timer != nil {
			r.timer.Stop()
		}
	}
	c.runners = make(map[model.CommunityID]*runner)
}

// StartSession opens registration for a community. At most one session is
// live per community; a second start fails with SessionAlreadyActive.
func (c *Controller) StartSession(ctx context.Context, community model.CommunityID, host model.PlayerID) (*model.Session, error) {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	now := c.clock.Now()
	session := model.NewSession(community, host, model.DefaultSettings(), now)
	session.PhaseSeq = 1

	if err := c.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	c.sink.AnnounceSessionStarted(community, host)
	c.schedule(r, community, session.PhaseSeq, session.Settings.RegistrationDuration())
	c.announcePhase(session, session.Settings.RegistrationDuration(), "")

	c.logger.Info("session started",
		slog.String("community", string(community)),
		slog.String("host", string(host)),
	)

	return session.Clone(), nil
}

// RegisterPlayer adds a player during registration
func (c *Controller) RegisterPlayer(ctx context.Context, community model.CommunityID, player model.PlayerID) error {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return err
	}
	if err := session.Register(player, c.clock.Now()); err != nil {
		return err
	}
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.sink.AnnouncePlayerJoined(community, player, len(session.Players))
	return nil
}

// UpdateSetting changes one named setting. Settings are host-only and
// locked once registration ends.
func (c *Controller) UpdateSetting(ctx context.Context, community model.CommunityID, caller model.PlayerID, name string, value int) error {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return err
	}
	if caller != session.HostID {
		return model.ErrNotHost
	}
	if session.Phase != model.PhaseRegistration {
		return model.ErrSettingsLockedOnceStarted
	}
	if err := session.Settings.Set(name, value); err != nil {
		return err
	}
	session.UpdatedAt = c.clock.Now()
	return c.storage.SaveSession(ctx, session)
}

// ForceStart ends registration early. Equivalent to the registration
// timer expiring; host only.
func (c *Controller) ForceStart(ctx context.Context, community model.CommunityID, caller model.PlayerID) error {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return err
	}
	if caller != session.HostID {
		return model.ErrNotHost
	}
	if session.Phase != model.PhaseRegistration {
		return model.ErrPhaseClosed
	}
	return c.closeRegistration(ctx, r, session)
}

// SubmitNightAction records a role action during the night phase.
// Resubmitting overwrites: last write wins. When every living role-holder
// has acted the night resolves early.
func (c *Controller) SubmitNightAction(ctx context.Context, community model.CommunityID, submitter model.PlayerID, role model.Role, target model.PlayerID, skip bool) error {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return err
	}
	if session.Phase != model.PhaseNight {
		return model.ErrPhaseClosed
	}
	if err := c.resolver.Submit(session, submitter, role, target, skip); err != nil {
		return err
	}
	session.UpdatedAt = c.clock.Now()

	if c.resolver.AllActionsIn(session) {
		// Early exit. The still-pending timer becomes a stale trigger:
		// resolveNight bumps PhaseSeq, so its eventual firing is a no-op.
		return c.resolveNight(ctx, r, session)
	}
	return c.storage.SaveSession(ctx, session)
}

// SubmitVote records a vote during the voting phase
func (c *Controller) SubmitVote(ctx context.Context, community model.CommunityID, voter model.PlayerID, target model.PlayerID, skip bool) error {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return err
	}
	if session.Phase != model.PhaseVoting {
		return model.ErrPhaseClosed
	}
	if err := c.tally.Submit(session, voter, target, skip); err != nil {
		return err
	}
	session.UpdatedAt = c.clock.Now()
	return c.storage.SaveSession(ctx, session)
}

// Abort terminates the session from any phase. Idempotent: aborting an
// idle community is a no-op.
func (c *Controller) Abort(ctx context.Context, community model.CommunityID, caller model.PlayerID) error {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		if errors.Is(err, model.ErrNoActiveSession) {
			return nil
		}
		return err
	}
	if caller != "" && caller != session.HostID {
		return model.ErrNotHost
	}

	session.Phase = model.PhaseAborted
	session.PhaseSeq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	c.announcePhase(session, 0, "session aborted")

	if err := c.storage.DeleteSession(ctx, community); err != nil {
		return err
	}
	c.dropRunner(community)

	c.logger.Info("session aborted", slog.String("community", string(community)))
	return nil
}

// Status returns a read-only snapshot of the community's session
func (c *Controller) Status(ctx context.Context, community model.CommunityID) (*model.Session, error) {
	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// schedule arms the phase deadline timer. The captured PhaseSeq makes the
// trigger single-shot: whichever of timer expiry and early exit runs
// first advances the phase, and the loser sees a stale seq.
func (c *Controller) schedule(r *runner, community model.CommunityID, seq int, d time.Duration) {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = c.scheduler.AfterFunc(d, func() {
		c.onDeadline(community, seq)
	})
}

// onDeadline handles a phase timer firing
func (c *Controller) onDeadline(community model.CommunityID, seq int) {
	ctx := context.Background()

	r := c.runnerFor(community)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := c.storage.GetSession(ctx, community)
	if err != nil {
		return
	}
	if session.PhaseSeq != seq {
		// Stale trigger: the phase already advanced through another path
		return
	}

	var terr error
	switch session.Phase {
	case model.PhaseRegistration:
		terr = c.closeRegistration(ctx, r, session)
	case model.PhaseNight:
		terr = c.resolveNight(ctx, r, session)
	case model.PhaseDayDiscussion:
		terr = c.enterPhase(ctx, r, session, model.PhaseVoting, session.Settings.VoteDuration(), "")
	case model.PhaseVoting:
		terr = c.resolveVoting(ctx, r, session)
	}
	if terr != nil && !errors.Is(terr, model.ErrNotEnoughPlayers) {
		c.logger.Error("phase deadline handling failed",
			slog.String("community", string(community)),
			slog.String("phase", string(session.Phase)),
			slog.String("error", terr.Error()),
		)
	}
}

// closeRegistration ends registration: either the game starts (roles are
// dealt and the first night begins) or the session is discarded for lack
// of players.
func (c *Controller) closeRegistration(ctx context.Context, r *runner, session *model.Session) error {
	if len(session.Players) < session.Settings.MinPlayers() {
		session.Phase = model.PhaseAborted
		session.PhaseSeq++
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		c.announcePhase(session, 0, "not enough players")
		if err := c.storage.DeleteSession(ctx, session.Community); err != nil {
			return err
		}
		c.dropRunner(session.Community)
		return model.ErrNotEnoughPlayers
	}

	session.Phase = model.PhaseRoleAssignment
	session.PhaseSeq++
	c.announcePhase(session, 0, "")

	if err := c.assigner.Assign(session); err != nil {
		return err
	}

	mafia := session.AlivePlayers(model.RoleMafia)
	for id, p := range session.Players {
		payload := model.RoleAssignedPayload{Role: p.Role}
		if p.Role == model.RoleMafia {
			for _, m := range mafia {
				if m != id {
					payload.FellowMafia = append(payload.FellowMafia, m)
				}
			}
		}
		c.sink.NotifyPlayerRole(session.Community, id, payload)
	}

	// Role assignment transitions unconditionally into the first night
	return c.enterPhase(ctx, r, session, model.PhaseNight, session.Settings.NightDuration(), "")
}

// resolveNight runs the night resolution and advances to day or a
// terminal state
func (c *Controller) resolveNight(ctx context.Context, r *runner, session *model.Session) error {
	res := c.resolver.Resolve(session)

	for _, inv := range res.Investigations {
		c.sink.NotifyInvestigationResult(session.Community, inv.Officer, model.InvestigationResultPayload{
			Target:  inv.Target,
			IsMafia: inv.IsMafia,
		})
	}

	payload := c.eliminationPayload(session, res.Killed, model.CauseNightKill, nil)
	c.sink.AnnounceElimination(session.Community, payload)

	// The round counter advances once the night resolves, win or lose
	session.Round++

	if res.Killed != nil {
		if outcome := win.Evaluate(session); outcome.Terminal() {
			return c.finish(ctx, r, session, outcome)
		}
	}
	return c.enterPhase(ctx, r, session, model.PhaseDayDiscussion, session.Settings.DiscussionDuration(), "")
}

// resolveVoting tallies the day's votes and advances to night or a
// terminal state
func (c *Controller) resolveVoting(ctx context.Context, r *runner, session *model.Session) error {
	res := c.tally.Resolve(session)

	payload := c.eliminationPayload(session, res.Eliminated, model.CauseVote, res.Counts)
	c.sink.AnnounceElimination(session.Community, payload)

	if res.Eliminated != nil {
		if outcome := win.Evaluate(session); outcome.Terminal() {
			return c.finish(ctx, r, session, outcome)
		}
	}
	return c.enterPhase(ctx, r, session, model.PhaseNight, session.Settings.NightDuration(), "")
}

// eliminationPayload shapes a death announcement per the reveal mode
func (c *Controller) eliminationPayload(session *model.Session, killed *model.PlayerID, cause model.EliminationCause, counts map[string]int) model.EliminationPayload {
	payload := model.EliminationPayload{
		PlayerID:   killed,
		Cause:      cause,
		Round:      session.Round,
		VoteCounts: counts,
	}
	if killed == nil {
		return payload
	}
	role := session.Players[*killed].Role
	if session.Settings.RevealMode >= model.RevealAlignment {
		wasMafia := role == model.RoleMafia
		payload.WasMafia = &wasMafia
	}
	if session.Settings.RevealMode >= model.RevealFullRole {
		payload.Role = &role
	}
	return payload
}

// enterPhase moves the session into a new phase, rearms the deadline
// timer and announces the change
func (c *Controller) enterPhase(ctx context.Context, r *runner, session *model.Session, phase model.Phase, d time.Duration, detail string) error {
	session.Phase = phase
	session.PhaseSeq++
	session.ClearRoundState()
	session.UpdatedAt = c.clock.Now()

	c.schedule(r, session.Community, session.PhaseSeq, d)
	c.announcePhase(session, d, detail)

	c.logger.Info("phase changed",
		slog.String("community", string(session.Community)),
		slog.String("phase", string(phase)),
		slog.Int("round", session.Round),
	)

	return c.storage.SaveSession(ctx, session)
}

// finish ends the game with a winner and discards the session
func (c *Controller) finish(ctx context.Context, r *runner, session *model.Session, outcome win.Outcome) error {
	if outcome == win.MafiaWin {
		session.Phase = model.PhaseMafiaWin
	} else {
		session.Phase = model.PhaseCitizensWin
	}
	session.PhaseSeq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}

	c.announcePhase(session, 0, "")
	c.sink.AnnounceWinner(session.Community, model.WinnerPayload{
		Team:  outcome.Team(),
		Round: session.Round,
	})

	if err := c.storage.DeleteSession(ctx, session.Community); err != nil {
		return err
	}
	c.dropRunner(session.Community)

	c.logger.Info("game finished",
		slog.String("community", string(session.Community)),
		slog.String("winner", string(outcome.Team())),
		slog.Int("round", session.Round),
	)
	return nil
}

func (c *Controller) announcePhase(session *model.Session, d time.Duration, detail string) {
	payload := model.PhaseChangedPayload{
		Phase:  session.Phase,
		Round:  session.Round,
		Detail: detail,
	}
	if d > 0 {
		deadline := c.clock.Now().Add(d)
		payload.Deadline = &deadline
	}
	c.sink.AnnouncePhaseChange(session.Community, payload)
}

// Interface for dependency injection
type ControllerInterface interface {
	StartSession(ctx context.Context, community model.CommunityID, host model.PlayerID) (*model.Session, error)
	RegisterPlayer(ctx context.Context, community model.CommunityID, player model.PlayerID) error
	UpdateSetting(ctx context.Context, community model.CommunityID, caller model.PlayerID, name string, value int) error
	ForceStart(ctx context.Context, community model.CommunityID, caller model.PlayerID) error
	SubmitNightAction(ctx context.Context, community model.CommunityID, submitter model.PlayerID, role model.Role, target model.PlayerID, skip bool) error
	SubmitVote(ctx context.Context, community model.CommunityID, voter model.PlayerID, target model.PlayerID, skip bool) error
	Abort(ctx context.Context, community model.CommunityID, caller model.PlayerID) error
	Status(ctx context.Context, community model.CommunityID) (*model.Session, error)
}

var _ ControllerInterface = (*Controller)(nil)
