// Package events carries the engine's outbound notifications: the Sink
// boundary the game controller emits through, and an SSE hub that streams
// events to platform glue.
package events

import (
	"log/slog"
	"time"

	"github.com/avelkov/godfather/internal/model"
)

// Sink receives structured game events. The engine decides what happened;
// implementations decide how (and whether) to deliver it. The engine never
// formats user-facing text.
type Sink interface {
	AnnounceSessionStarted(community model.CommunityID, host model.PlayerID)
	AnnouncePlayerJoined(community model.CommunityID, player model.PlayerID, playerCount int)
	AnnouncePhaseChange(community model.CommunityID, payload model.PhaseChangedPayload)
	NotifyPlayerRole(community model.CommunityID, player model.PlayerID, payload model.RoleAssignedPayload)
	NotifyInvestigationResult(community model.CommunityID, officer model.PlayerID, payload model.InvestigationResultPayload)
	AnnounceElimination(community model.CommunityID, payload model.EliminationPayload)
	AnnounceWinner(community model.CommunityID, payload model.WinnerPayload)
}

// HubSink publishes events into the SSE hub manager
type HubSink struct {
	hubs  *HubManager
	clock func() time.Time
}

// NewHubSink creates a Sink backed by the given hub manager
func NewHubSink(hubs *HubManager, now func() time.Time) *HubSink {
	if now == nil {
		now = time.Now
	}
	return &HubSink{hubs: hubs, clock: now}
}

var _ Sink = (*HubSink)(nil)

func (s *HubSink) publish(community model.CommunityID, typ model.EventType, private model.PlayerID, payload any) {
	s.hubs.Broadcast(model.Event{
		Type:      typ,
		Timestamp: s.clock(),
		Community: community,
		Private:   private,
		Payload:   payload,
	})
}

func (s *HubSink) AnnounceSessionStarted(community model.CommunityID, host model.PlayerID) {
	s.publish(community, model.EventSessionStarted, "", model.PlayerJoinedPayload{PlayerID: host, PlayerCount: 0})
}

func (s *HubSink) AnnouncePlayerJoined(community model.CommunityID, player model.PlayerID, playerCount int) {
	s.publish(community, model.EventPlayerJoined, "", model.PlayerJoinedPayload{PlayerID: player, PlayerCount: playerCount})
}

func (s *HubSink) AnnouncePhaseChange(community model.CommunityID, payload model.PhaseChangedPayload) {
	typ := model.EventPhaseChanged
	if payload.Phase == model.PhaseAborted {
		typ = model.EventSessionAborted
	}
	s.publish(community, typ, "", payload)
}

func (s *HubSink) NotifyPlayerRole(community model.CommunityID, player model.PlayerID, payload model.RoleAssignedPayload) {
	s.publish(community, model.EventRoleAssigned, player, payload)
}

func (s *HubSink) NotifyInvestigationResult(community model.CommunityID, officer model.PlayerID, payload model.InvestigationResultPayload) {
	s.publish(community, model.EventInvestigationResult, officer, payload)
}

func (s *HubSink) AnnounceElimination(community model.CommunityID, payload model.EliminationPayload) {
	s.publish(community, model.EventElimination, "", payload)
}

func (s *HubSink) AnnounceWinner(community model.CommunityID, payload model.WinnerPayload) {
	s.publish(community, model.EventWinner, "", payload)
}

// LogSink writes events to the logger. Used for headless runs and as a
// default when no hub is wired.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a Sink that only logs
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ Sink = (*LogSink)(nil)

func (s *LogSink) AnnounceSessionStarted(community model.CommunityID, host model.PlayerID) {
	s.logger.Info("session started", slog.String("community", string(community)), slog.String("host", string(host)))
}

func (s *LogSink) AnnouncePlayerJoined(community model.CommunityID, player model.PlayerID, playerCount int) {
	s.logger.Info("player joined", slog.String("community", string(community)), slog.String("player", string(player)), slog.Int("count", playerCount))
}

func (s *LogSink) AnnouncePhaseChange(community model.CommunityID, payload model.PhaseChangedPayload) {
	s.logger.Info("phase changed", slog.String("community", string(community)), slog.String("phase", string(payload.Phase)), slog.Int("round", payload.Round))
}

func (s *LogSink) NotifyPlayerRole(community model.CommunityID, player model.PlayerID, payload model.RoleAssignedPayload) {
	s.logger.Info("role assigned", slog.String("community", string(community)), slog.String("player", string(player)))
}

func (s *LogSink) NotifyInvestigationResult(community model.CommunityID, officer model.PlayerID, payload model.InvestigationResultPayload) {
	s.logger.Info("investigation resolved", slog.String("community", string(community)), slog.String("officer", string(officer)))
}

func (s *LogSink) AnnounceElimination(community model.CommunityID, payload model.EliminationPayload) {
	s.logger.Info("elimination", slog.String("community", string(community)), slog.Bool("death", payload.PlayerID != nil), slog.String("cause", string(payload.Cause)))
}

func (s *LogSink) AnnounceWinner(community model.CommunityID, payload model.WinnerPayload) {
	s.logger.Info("winner", slog.String("community", string(community)), slog.String("team", string(payload.Team)))
}
