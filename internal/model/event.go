// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventDeviceConnected    EventType = "DEVICE_CONNECTED"
	EventDeviceDisconnected EventType = "DEVICE_DISCONNECTED"
	EventConnectionFailed   EventType = "CONNECTION_FAILED"
	EventConnectionLost     EventType = "CONNECTION_LOST"
	EventDataReceived       EventType = "DATA_RECEIVED"
	EventStateChanged       EventType = "STATE_CHANGED"
)

// Event is one entry of the ordered delivery queue. Only the fields relevant
// to the event type are set.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      EventType       `json:"type"`
	Device    *Device         `json:"device,omitempty"`
	Message   string          `json:"message,omitempty"`
	Data      []byte          `json:"data,omitempty"`
	From      ConnectionState `json:"from"`
	To        ConnectionState `json:"to"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent stamps an event with an ID and the current time
func NewEvent(eventType EventType) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

// DeviceConnectedEvent carries the name and address of the connected device
func DeviceConnectedEvent(device Device) Event {
	e := NewEvent(EventDeviceConnected)
	e.Device = &device
	return e
}

// ConnectionFailedEvent carries a human readable message
func ConnectionFailedEvent(message string) Event {
	e := NewEvent(EventConnectionFailed)
	e.Message = message
	return e
}

// DataReceivedEvent takes ownership of data
func DataReceivedEvent(data []byte) Event {
	e := NewEvent(EventDataReceived)
	e.Data = data
	return e
}

// StateChangedEvent records a transition
func StateChangedEvent(from, to ConnectionState) Event {
	e := NewEvent(EventStateChanged)
	e.From = from
	e.To = to
	return e
}
