// internal/handler/websocket_types.go
package handler

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"printer-service/internal/model"
)

// Client represents a WebSocket client
type Client struct {
	ID          string          `json:"id"`
	Connection  *websocket.Conn `json:"-"`
	Send        chan []byte     `json:"-"`
	UserAgent   string          `json:"user_agent"`
	RemoteAddr  string          `json:"remote_addr"`
	ConnectedAt time.Time       `json:"connected_at"`

	mu sync.RWMutex
	// empty means every event type
	filter map[model.EventType]bool
}

// Wants reports whether the client receives events of type t
func (c *Client) Wants(t model.EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.filter) == 0 || c.filter[t]
}

// Subscribe narrows the client to the given event types
func (c *Client) Subscribe(types ...model.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter == nil {
		c.filter = make(map[model.EventType]bool)
	}
	for _, t := range types {
		c.filter[t] = true
	}
}

// Unsubscribe removes event types from the filter
func (c *Client) Unsubscribe(types ...model.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range types {
		delete(c.filter, t)
	}
}

// Subscriptions lists the filtered event types
func (c *Client) Subscriptions() []model.EventType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]model.EventType, 0, len(c.filter))
	for t := range c.filter {
		types = append(types, t)
	}
	return types
}

// WebSocketMessage represents an outgoing WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// inboundMessage is a message read from a client
type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// Hub tracks the connected WebSocket clients. A client's Send channel is
// closed exactly once, by the hub, and only under the write lock.
type Hub struct {
	clients map[string]*Client
	closed  bool
	mutex   sync.RWMutex
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register registers a new client. A closed hub closes the client at once.
func (h *Hub) Register(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		close(client.Send)
		return
	}
	h.clients[client.ID] = client
}

// Unregister unregisters a client
func (h *Hub) Unregister(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.closed = true
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
}

// Send queues message for one client. It reports false when the client is
// gone or too slow.
func (h *Hub) Send(client *Client, message []byte) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if _, ok := h.clients[client.ID]; !ok {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// Broadcast queues message for every client that wants t. Slow clients
// miss the message instead of blocking the caller.
func (h *Hub) Broadcast(t model.EventType, message []byte) (dropped int) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, client := range h.clients {
		if !client.Wants(t) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			dropped++
		}
	}
	return dropped
}

// GetStats returns connection statistics
func (h *Hub) GetStats() *ConnectionStats {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	stats := &ConnectionStats{
		TotalConnections: len(h.clients),
		Clients:          make([]*Client, 0, len(h.clients)),
	}
	for _, client := range h.clients {
		stats.Clients = append(stats.Clients, client)
	}
	return stats
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int       `json:"total_connections"`
	Clients          []*Client `json:"clients"`
}
