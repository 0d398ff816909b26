// Package notifications fans urgent alerts out to websocket listeners. Every
// server instance runs a hub; instances coordinate through a shared Redis
// pub/sub channel so an alert raised on one node reaches listeners on all.
package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per viewer. Anonymous listeners pool under "".
	maxConnsPerViewer = 12
	// Max total connections
	maxTotalConns = 10000
)

// Hub maps viewerID -> set of connected alert listeners.
type Hub struct {
	mu         sync.RWMutex
	conns      map[string]map[*Client]struct{}
	totalConns int
	shutdown   chan struct{}
	done       chan struct{}
}

// NewHub creates a new alert hub.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]map[*Client]struct{}),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Register a connection for a viewer. Returns the Client or an error when a
// connection limit is exceeded.
func (h *Hub) Register(viewerID string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[viewerID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[viewerID] = m
	}

	if viewerID != "" && len(m) >= maxConnsPerViewer {
		return nil, errors.New("viewer connection limit reached")
	}

	client := NewClient(h, conn, viewerID)
	m[client] = struct{}{}
	h.totalConns++

	return client, nil
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.conns[client.ViewerID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
		}
		if len(m) == 0 {
			delete(h.conns, client.ViewerID)
		}
	}
}

// Broadcast sends message to all connections for one viewer.
func (h *Hub) Broadcast(viewerID, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[viewerID]; ok {
		data := []byte(message)
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// BroadcastAll sends message to every connected listener.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// ConnectionCount reports the number of active listeners.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// StartWiring subscribes the hub to the alert channels so alerts published on
// any instance reach this one's listeners.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartSubscriber(ctx, func(channel, payload string) {
		if channel == broadcastChannel {
			h.BroadcastAll(payload)
			return
		}
		viewerID, ok := viewerFromChannel(channel)
		if !ok {
			log.Printf("invalid alert channel: %s", channel)
			return
		}
		h.Broadcast(viewerID, payload)
	})
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	for viewerID, clients := range h.conns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for viewer %q: %v", viewerID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for viewer %q: %v", viewerID, err)
			}
		}
	}
	h.conns = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	close(h.done)
	return nil
}
