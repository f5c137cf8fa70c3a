package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub("chat-1", testutil.NopLogger())
	go s.hub.Run()
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
}

func (s *HubSuite) receive(c *Client) []byte {
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for event")
		return nil
	}
}

func (s *HubSuite) expectNothing(c *Client) {
	select {
	case msg := <-c.send:
		s.Failf("unexpected event", "got %q", string(msg))
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *HubSuite) TestPublicEventReachesAllClients() {
	alice := NewClient("alice")
	bob := NewClient("bob")
	s.hub.Register(alice)
	s.hub.Register(bob)

	s.hub.Publish(model.Event{
		Type:      model.EventPhaseChanged,
		Community: "chat-1",
		Payload:   model.PhaseChangedPayload{Phase: model.PhaseNight, Round: 1},
	})

	for _, c := range []*Client{alice, bob} {
		msg := string(s.receive(c))
		s.Contains(msg, "event: phase_changed")
		s.Contains(msg, `"night"`)
	}
}

func (s *HubSuite) TestPrivateEventOnlyReachesItsPlayer() {
	alice := NewClient("alice")
	bob := NewClient("bob")
	s.hub.Register(alice)
	s.hub.Register(bob)

	s.hub.Publish(model.Event{
		Type:      model.EventRoleAssigned,
		Community: "chat-1",
		Private:   "alice",
		Payload:   model.RoleAssignedPayload{Role: model.RoleMafia},
	})

	msg := string(s.receive(alice))
	s.Contains(msg, "event: role_assigned")
	s.Contains(msg, `"mafia"`)

	s.expectNothing(bob)
}

func (s *HubSuite) TestEventsAreSSEFramed() {
	alice := NewClient("alice")
	s.hub.Register(alice)

	s.hub.Publish(model.Event{Type: model.EventWinner, Community: "chat-1"})

	msg := string(s.receive(alice))
	s.Regexp(`^event: winner\ndata: \{.*\}\n\n$`, msg)
}

func (s *HubSuite) TestUnregisterStopsDelivery() {
	alice := NewClient("alice")
	s.hub.Register(alice)
	s.hub.Unregister(alice)

	// The hub closes the channel on unregister
	_, open := <-alice.send
	s.False(open)
}

func (s *HubSuite) TestClientCount() {
	s.Equal(0, s.hub.ClientCount())

	alice := NewClient("alice")
	s.hub.Register(alice)
	s.Eventually(func() bool { return s.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	s.hub.Unregister(alice)
	s.Eventually(func() bool { return s.hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

type HubManagerSuite struct {
	suite.Suite
	manager *HubManager
}

func TestHubManagerSuite(t *testing.T) {
	suite.Run(t, new(HubManagerSuite))
}

func (s *HubManagerSuite) SetupTest() {
	s.manager = NewHubManager(testutil.NopLogger())
}

func (s *HubManagerSuite) TestGetOrCreateHubIsIdempotent() {
	hub := s.manager.GetOrCreateHub("chat-1")
	s.Same(hub, s.manager.GetOrCreateHub("chat-1"))
	s.NotSame(hub, s.manager.GetOrCreateHub("chat-2"))
}

func (s *HubManagerSuite) TestBroadcastWithoutHubIsDropped() {
	// Must not panic or block
	s.manager.Broadcast(model.Event{Type: model.EventWinner, Community: "nowhere"})
}

func (s *HubManagerSuite) TestBroadcastRoutesByCommunity() {
	hub := s.manager.GetOrCreateHub("chat-1")
	alice := NewClient("alice")
	hub.Register(alice)

	s.manager.Broadcast(model.Event{Type: model.EventWinner, Community: "chat-1"})

	select {
	case msg := <-alice.send:
		s.Contains(string(msg), "event: winner")
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for event")
	}
}

func (s *HubManagerSuite) TestRemoveHubClosesIt() {
	hub := s.manager.GetOrCreateHub("chat-1")
	alice := NewClient("alice")
	hub.Register(alice)

	s.manager.RemoveHub("chat-1")

	_, open := <-alice.send
	s.False(open)
	s.Nil(s.manager.GetHub("chat-1"))
}
