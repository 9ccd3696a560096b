package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Snapshot message types pushed to clients.
const (
	MessageTypeLeaderboard = "leaderboard"
	MessageTypeFeed        = "feed"
)

// Message is one snapshot push over a challenge's live stream. The stream is
// outbound-only: clients receive fresh view snapshots, they never send.
type Message struct {
	// Type of snapshot: "leaderboard" or "feed"
	Type string `json:"type"`

	// Challenge this snapshot belongs to
	ChallengeID uuid.UUID `json:"challengeId"`

	// The serialized view snapshot
	Payload json.RawMessage `json:"payload"`

	// Timestamp when the snapshot was generated
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients grouped by challenge and fans
// snapshot pushes out to them.
type Hub struct {
	clients map[uuid.UUID]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Per-challenge presence listeners, notified when a challenge gains its
	// first client or loses its last one.
	presenceMu sync.RWMutex
	presence   []chan PresenceEvent

	logger zerolog.Logger
}

// PresenceEvent reports a challenge gaining its first client or losing its
// last one. Stream owners use it to start and stop per-challenge work.
type PresenceEvent struct {
	ChallengeID uuid.UUID
	Active      bool
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and snapshot broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()

	challengeID := client.challengeID
	first := len(h.clients[challengeID]) == 0
	if _, ok := h.clients[challengeID]; !ok {
		h.clients[challengeID] = make(map[*Client]bool)
	}
	h.clients[challengeID][client] = true

	h.mu.Unlock()

	h.logger.Info().
		Str("challengeID", challengeID.String()).
		Str("userID", client.userID).
		Msg("Stream client registered")

	if first {
		h.notifyPresence(PresenceEvent{ChallengeID: challengeID, Active: true})
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	challengeID := client.challengeID
	last := false
	if _, ok := h.clients[challengeID][client]; ok {
		delete(h.clients[challengeID], client)
		close(client.send)

		if len(h.clients[challengeID]) == 0 {
			delete(h.clients, challengeID)
			last = true
		}

		h.logger.Info().
			Str("challengeID", challengeID.String()).
			Str("userID", client.userID).
			Msg("Stream client unregistered")
	}

	h.mu.Unlock()

	if last {
		h.notifyPresence(PresenceEvent{ChallengeID: challengeID, Active: false})
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[message.ChallengeID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("challengeID", message.ChallengeID.String()).
			Msg("Failed to marshal snapshot for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow client: drop this snapshot for them. The next refresh
			// supersedes it anyway.
			h.logger.Warn().
				Str("challengeID", message.ChallengeID.String()).
				Str("userID", client.userID).
				Msg("Dropped snapshot for slow stream client")
		}
	}
}

// Broadcast pushes a snapshot to every client watching its challenge
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// ClientCount returns the number of connected clients for a challenge
func (h *Hub) ClientCount(challengeID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[challengeID])
}

// AddPresenceListener registers a channel that receives presence transitions
func (h *Hub) AddPresenceListener(listener chan PresenceEvent) {
	h.presenceMu.Lock()
	defer h.presenceMu.Unlock()
	h.presence = append(h.presence, listener)
}

func (h *Hub) notifyPresence(event PresenceEvent) {
	h.presenceMu.RLock()
	defer h.presenceMu.RUnlock()

	for _, listener := range h.presence {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow presence listener")
		}
	}
}
