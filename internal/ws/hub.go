package ws

import (
	"context"
	"encoding/json"
	"sync"

	"doge_heroes/internal/domain"
	"doge_heroes/internal/logger"
	"doge_heroes/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub tracks connected clients and bridges each player's state bus to their
// sockets. A player may hold several connections (multiple tabs).
type Hub struct {
	svc *service.ProgressionService

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(svc *service.ProgressionService) *Hub {
	return &Hub{
		svc:     svc,
		clients: make(map[string]*Client),
	}
}

// Connect registers a new socket for a player and subscribes it to state
// updates. Returns the client; callers run it.
func (h *Hub) Connect(ctx context.Context, userID int64, conn *websocket.Conn) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
		hub:    h,
		Done:   make(chan struct{}),
	}

	c.unsubscribe = h.svc.Bus(ctx, userID).Subscribe(func(state *domain.GameState) {
		h.push(c, state)
	})

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	// ready handshake, then the initial snapshot so the client does not
	// wait for the first mutation
	ready, _ := json.Marshal(ReadyMessage{Type: "ready"})
	c.Send <- ready
	h.push(c, h.svc.Ledger(ctx, userID).GetState())

	logger.Debug("ws client connected", "user_id", userID, "client_id", c.ID)
	return c
}

func (h *Hub) push(c *Client, state *domain.GameState) {
	data, err := json.Marshal(StateMessage{Type: "state", State: state})
	if err != nil {
		logger.Warn("failed to marshal state message", "error", err)
		return
	}

	// drop the frame for slow consumers; the next mutation resends everything
	select {
	case c.Send <- data:
	default:
	}
}

func (h *Hub) drop(c *Client) {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}

	h.mu.Lock()
	delete(h.clients, c.ID)
	h.mu.Unlock()

	_ = c.Conn.Close()
	logger.Debug("ws client disconnected", "user_id", c.UserID, "client_id", c.ID)
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
