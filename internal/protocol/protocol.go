// internal/protocol/protocol.go
package protocol

import (
	"io"
	"time"

	"printer-service/internal/model"
)

// Socket is one SPP link to a remote device. Connect and Read block; Close
// may be called from any goroutine and unblocks both with an error.
type Socket interface {
	Connect() error
	io.ReadWriteCloser
}

// Transport allocates sockets. Allocation only reserves resources; nothing
// goes over the air until Connect.
type Transport interface {
	Kind() string
	NewSocket(device model.Device, secure bool) (Socket, error)
}

// Stats provides link-level statistics of the current session
type Stats struct {
	BytesWritten   int64     `json:"bytes_written"`
	BytesRead      int64     `json:"bytes_read"`
	WriteCount     int64     `json:"write_count"`
	ErrorCount     int64     `json:"error_count"`
	LastActivity   time.Time `json:"last_activity"`
	ConnectedSince time.Time `json:"connected_since"`
}
