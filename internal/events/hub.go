package events

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/avelkov/godfather/internal/model"
)

// envelope is a marshalled event plus its routing restriction
type envelope struct {
	private model.PlayerID // Empty: deliver to every client
	data    []byte
}

// Hub fans game events out to the SSE clients of a single community.
// Private events (role notifications, investigation results) are delivered
// only to the client connected as that player.
type Hub struct {
	community model.CommunityID
	clients   map[*Client]bool
	mu        sync.RWMutex
	logger    *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}
}

// NewHub creates a new Hub for a community
func NewHub(community model.CommunityID, logger *slog.Logger) *Hub {
	return &Hub{
		community:  community,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("community", string(community))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("event client registered",
				slog.String("player_id", string(client.playerID)))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if env.private != "" && client.playerID != env.private {
					continue
				}
				select {
				case client.send <- env.data:
				default:
					h.logger.Warn("event dropped - client buffer full",
						slog.String("player_id", string(client.playerID)))
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish marshals the event as an SSE message and queues it for delivery
func (h *Hub) Publish(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed", slog.String("error", err.Error()))
		return
	}
	msg := formatSSEMessage(string(event.Type), data)

	select {
	case h.broadcast <- envelope{private: event.Private, data: msg}:
	default:
		h.logger.Warn("event dropped - hub buffer full")
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats a single-line SSE event frame
func formatSSEMessage(eventName string, data []byte) []byte {
	msg := make([]byte, 0, len(eventName)+len(data)+16)
	msg = append(msg, "event: "...)
	msg = append(msg, eventName...)
	msg = append(msg, "\ndata: "...)
	msg = append(msg, data...)
	msg = append(msg, "\n\n"...)
	return msg
}

// HubManager manages hubs for all communities
type HubManager struct {
	hubs   map[model.CommunityID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.CommunityID]*Hub),
		logger: logger.With(slog.String("component", "events")),
	}
}

// GetOrCreateHub returns the hub for a community, creating one if needed
func (m *HubManager) GetOrCreateHub(community model.CommunityID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[community]; ok {
		return hub
	}

	hub := NewHub(community, m.logger)
	m.hubs[community] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a community, or nil if it doesn't exist
func (m *HubManager) GetHub(community model.CommunityID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[community]
}

// Broadcast publishes an event to the community's hub, if one exists.
// Communities with no connected glue simply drop events.
func (m *HubManager) Broadcast(event model.Event) {
	if hub := m.GetHub(event.Community); hub != nil {
		hub.Publish(event)
	}
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(community model.CommunityID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[community]; ok {
		hub.Close()
		delete(m.hubs, community)
	}
}
