// Package realtime fans events out to websocket clients. Delivery is
// at-most-once: a frame is written to every client connected at dispatch
// time whose send queue has room, and dropped for the rest.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"tutfree/internal/config"
	"tutfree/internal/events"
	"tutfree/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// SubscribeEvent is the inbound frame that joins a business room.
const SubscribeEvent = "business:subscribe"

// Frame is the wire envelope in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type subscribeData struct {
	VenueID string `json:"venueId"`
}

// Hub tracks connected clients and their room membership.
type Hub struct {
	cfg      config.RealtimeConfig
	logger   *zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub(cfg config.RealtimeConfig, logger *zerolog.Logger) *Hub {
	return &Hub{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(h, conn)
	h.register(c)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.WSConnected()
	h.logger.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	h.mu.Unlock()
	metrics.WSDisconnected()
}

// Join adds c to room. There is no leave; membership ends with the connection.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Dispatch sends one frame to room members, or to every client when room is
// empty. It never blocks.
func (h *Hub) Dispatch(topic, room string, payload []byte) {
	frame, err := json.Marshal(Frame{Event: topic, Data: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Msg("failed to encode frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.clients
	if room != "" {
		targets = h.rooms[room]
	}
	for c := range targets {
		select {
		case c.send <- frame:
		default:
			metrics.IncDropped()
			h.logger.Debug().Str("topic", topic).Msg("client queue full, frame dropped")
		}
	}
	metrics.IncEvent(topic)
}

// HandleEvent adapts Dispatch to the event bus.
func (h *Hub) HandleEvent(e *events.Event) error {
	h.Dispatch(e.Type, e.Room, e.Payload)
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of members in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}
