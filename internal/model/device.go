// internal/model/device.go
package model

import (
	"errors"
	"fmt"
)

// Transport level errors surfaced to callers
var (
	ErrPermissionDenied     = errors.New("bluetooth permission denied")
	ErrTransportUnavailable = errors.New("bluetooth transport unavailable")
	ErrTransportDisabled    = errors.New("bluetooth transport disabled")
	ErrDeviceNotFound       = errors.New("device not found")
	ErrConnectionFailed     = errors.New("unable to connect to device")
	ErrConnectionLost       = errors.New("device connection was lost")
	ErrManagerClosed        = errors.New("connection manager closed")
)

// Device is a previously paired remote device. Address is the identity key.
type Device struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Address)
}

// ConnectionState of the single SPP session
type ConnectionState int

const (
	StateNone       ConnectionState = 0
	StateListening  ConnectionState = 1
	StateConnecting ConnectionState = 2
	StateConnected  ConnectionState = 3
)

func (s ConnectionState) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateListening:
		return "LISTENING"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON payloads
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names written by MarshalText
func (s *ConnectionState) UnmarshalText(text []byte) error {
	for _, st := range []ConnectionState{StateNone, StateListening, StateConnecting, StateConnected} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("invalid connection state: %q", text)
}

// SocketType reflects whether the RFCOMM link requires authentication and encryption
func SocketType(secure bool) string {
	if secure {
		return "Secure"
	}
	return "Insecure"
}
