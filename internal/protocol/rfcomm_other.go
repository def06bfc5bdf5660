//go:build !linux

// internal/protocol/rfcomm_other.go
package protocol

import (
	"fmt"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// RFCOMMTransport is only available on Linux; use the serial transport with
// a bound COM port elsewhere.
type RFCOMMTransport struct {
	logger *zap.Logger
}

// NewRFCOMMTransport creates a transport whose sockets always fail
func NewRFCOMMTransport(config *RFCOMMConfig, logger *zap.Logger) *RFCOMMTransport {
	return &RFCOMMTransport{logger: logger.With(zap.String("protocol", "rfcomm"))}
}

func (t *RFCOMMTransport) Kind() string {
	return "rfcomm"
}

func (t *RFCOMMTransport) NewSocket(device model.Device, secure bool) (Socket, error) {
	return nil, fmt.Errorf("%w: native rfcomm sockets need linux", model.ErrTransportUnavailable)
}
