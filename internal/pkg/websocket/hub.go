package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients, keyed by the user they belong to
type Hub struct {
	// Registered clients organized by user ID
	clients map[uuid.UUID]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message represents an event pushed over WebSocket
type Message struct {
	// Type of event, e.g. "notification"
	Type string `json:"type"`

	// Event payload
	Data interface{} `json:"data"`

	// Timestamp when the event was pushed
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles client registrations until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register hands a client to the running hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the running hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Str("userID", client.userID.String()).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel. Callers hold h.mu.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)

	// If no more clients for this user, clean up
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Str("userID", client.userID.String()).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// SendToUser pushes an event to every connection of a user and returns how many
// connections received it. Clients whose buffers are full are dropped.
func (h *Hub) SendToUser(userID uuid.UUID, eventType string, data interface{}) (int, error) {
	payload, err := json.Marshal(&Message{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal websocket message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
			delivered++
		default:
			// Client's send buffer is full, they might be slow or disconnected
			h.logger.Warn().Str("userID", userID.String()).Msg("Dropping slow websocket client")
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("userID", userID.String()).
		Int("clientCount", delivered).
		Msg("Message pushed to user")
	return delivered, nil
}

// GetClientsCount returns the number of connected clients for a user
func (h *Hub) GetClientsCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
