// internal/protocol/serial_connection.go
package protocol

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

var errSocketClosed = errors.New("socket closed")

// SerialTransport reaches SPP devices that are bound to a tty or COM port
type SerialTransport struct {
	config *SerialConfig
	logger *zap.Logger
	// open is serial.Open, replaced in tests
	open func(portName string, mode *serial.Mode) (serial.Port, error)
}

// NewSerialTransport creates a new serial transport
func NewSerialTransport(config *SerialConfig, logger *zap.Logger) *SerialTransport {
	return &SerialTransport{
		config: config,
		logger: logger.With(zap.String("protocol", "serial")),
		open:   serial.Open,
	}
}

func (t *SerialTransport) Kind() string {
	return "serial"
}

// PortFor returns the port bound to address
func (t *SerialTransport) PortFor(address string) (string, bool) {
	for addr, port := range t.config.Ports {
		if strings.EqualFold(addr, address) {
			return port, true
		}
	}
	return "", false
}

// NewSocket resolves the port for device. The secure flag has no meaning on
// a bound tty; the binding decides the link mode.
func (t *SerialTransport) NewSocket(device model.Device, secure bool) (Socket, error) {
	port, ok := t.PortFor(device.Address)
	if !ok {
		return nil, fmt.Errorf("%w: no serial port bound to %s", model.ErrDeviceNotFound, device.Address)
	}

	t.logger.Debug("Serial socket created",
		zap.String("address", device.Address),
		zap.String("port", port),
		zap.String("socket_type", model.SocketType(secure)),
	)
	return &serialSocket{transport: t, portName: port}, nil
}

// mode configures serial port mode
func (t *SerialTransport) mode() *serial.Mode {
	mode := &serial.Mode{
		BaudRate: t.config.BaudRate,
		DataBits: t.config.DataBits,
	}

	switch t.config.StopBits {
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		mode.StopBits = serial.OneStopBit
	}

	switch t.config.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}
	return mode
}

type serialSocket struct {
	transport *SerialTransport
	portName  string

	mutex  sync.Mutex
	port   serial.Port
	closed bool
}

// Connect opens the port. A Close that races with the open wins and the
// freshly opened port is released.
func (s *serialSocket) Connect() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return errSocketClosed
	}
	s.mutex.Unlock()

	port, err := s.transport.open(s.portName, s.transport.mode())
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		port.Close()
		return errSocketClosed
	}
	s.port = port
	return nil
}

func (s *serialSocket) current() (serial.Port, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed || s.port == nil {
		return nil, errSocketClosed
	}
	return s.port, nil
}

// Read blocks until data arrives. A zero length read without error is a
// timeout on some platforms and is retried.
func (s *serialSocket) Read(p []byte) (int, error) {
	port, err := s.current()
	if err != nil {
		return 0, err
	}
	for {
		n, err := port.Read(p)
		if err != nil {
			return n, fmt.Errorf("failed to read from serial port: %w", err)
		}
		if n > 0 {
			return n, nil
		}
		if _, err := s.current(); err != nil {
			return 0, err
		}
	}
}

func (s *serialSocket) Write(p []byte) (int, error) {
	port, err := s.current()
	if err != nil {
		return 0, err
	}
	n, err := port.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to serial port: %w", err)
	}
	return n, nil
}

func (s *serialSocket) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.port == nil {
		return nil
	}
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}
