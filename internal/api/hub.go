package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// FeedMessage is the JSON envelope pushed to connected dashboards.
type FeedMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// client is a single WebSocket connection in the hub.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// writePump reads from the send channel and writes to the connection.
func (c *client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub fans result events out to every connected dashboard. It satisfies
// the processor's Notifier: a slow or dead consumer drops messages rather
// than stalling decision processing.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{clients: make(map[string]*client), log: log}
}

// Notify broadcasts a scored decision to all connected clients.
func (h *Hub) Notify(ev domain.ResultEvent) {
	h.Broadcast("result", ev)
}

// Broadcast sends one envelope to every client. Non-blocking: drops if a
// client's channel is full.
func (h *Hub) Broadcast(msgType string, data any) {
	payload, err := json.Marshal(FeedMessage{Type: msgType, Data: data})
	if err != nil {
		h.log.Warn("feed marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Drop message if channel full
		}
	}
}

// ClientCount returns the number of connected feeds.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.send)
		delete(h.clients, id)
	}
}

// HandleFeed upgrades the request to a WebSocket and streams result
// events until the client disconnects.
func (h *Hub) HandleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn("websocket accept failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.register(c)
	defer h.unregister(c.id)

	// The feed is push-only; CloseRead surfaces disconnects.
	ctx := c.conn.CloseRead(r.Context())
	c.writePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}
