// internal/handler/event_bus.go
package handler

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"printer-service/internal/connection"
	"printer-service/internal/model"
)

// EventSource is anything connection events can be subscribed on
type EventSource interface {
	Subscribe(l connection.Listener) (unsubscribe func())
}

// EventBus forwards connection events to WebSocket clients. It runs as a
// dispatcher listener, so it never blocks: slow clients lose messages.
// Received data is base64 encoded by the JSON encoding of model.Event.
type EventBus struct {
	hub    *Hub
	logger *zap.Logger

	mu          sync.Mutex
	unsubscribe func()
}

// NewEventBus creates a new event bus
func NewEventBus(hub *Hub, logger *zap.Logger) *EventBus {
	return &EventBus{
		hub:    hub,
		logger: logger.With(zap.String("component", "event-bus")),
	}
}

// Start subscribes on source. Calling it again replaces the source.
func (eb *EventBus) Start(source EventSource) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.unsubscribe != nil {
		eb.unsubscribe()
	}
	eb.unsubscribe = source.Subscribe(eb.Publish)
}

// Stop unsubscribes from the source
func (eb *EventBus) Stop() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.unsubscribe != nil {
		eb.unsubscribe()
		eb.unsubscribe = nil
	}
}

// Publish broadcasts one event
func (eb *EventBus) Publish(event model.Event) {
	message, err := json.Marshal(&WebSocketMessage{
		Type:      "device_event",
		Data:      event,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		eb.logger.Error("Failed to marshal event", zap.Error(err))
		return
	}

	if dropped := eb.hub.Broadcast(event.Type, message); dropped > 0 {
		eb.logger.Warn("Client send channel full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.Int("clients", dropped),
		)
	}
}
