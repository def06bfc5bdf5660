//go:build linux

// internal/protocol/rfcomm_linux.go
package protocol

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"printer-service/internal/model"
)

// RFCOMM link mode socket option, not exported by x/sys/unix
const (
	solRFCOMM       = 18
	rfcommLM        = 0x03
	rfcommLMAuth    = 0x0002
	rfcommLMEncrypt = 0x0004
)

// RFCOMMTransport opens native AF_BLUETOOTH sockets
type RFCOMMTransport struct {
	config *RFCOMMConfig
	logger *zap.Logger
}

// NewRFCOMMTransport creates a new RFCOMM transport
func NewRFCOMMTransport(config *RFCOMMConfig, logger *zap.Logger) *RFCOMMTransport {
	return &RFCOMMTransport{
		config: config,
		logger: logger.With(zap.String("protocol", "rfcomm")),
	}
}

func (t *RFCOMMTransport) Kind() string {
	return "rfcomm"
}

// NewSocket creates a non-blocking RFCOMM socket registered with the
// runtime poller. Secure sockets require an authenticated, encrypted link.
func (t *RFCOMMTransport) NewSocket(device model.Device, secure bool) (Socket, error) {
	addr, err := parseBDAddr(device.Address)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil, fmt.Errorf("%w: %v", model.ErrPermissionDenied, err)
		}
		if errors.Is(err, unix.EAFNOSUPPORT) {
			return nil, fmt.Errorf("%w: %v", model.ErrTransportUnavailable, err)
		}
		return nil, fmt.Errorf("failed to create rfcomm socket: %w", err)
	}

	if secure {
		if err := unix.SetsockoptInt(fd, solRFCOMM, rfcommLM, rfcommLMAuth|rfcommLMEncrypt); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("failed to set rfcomm link mode: %w", err)
		}
	}

	t.logger.Debug("RFCOMM socket created",
		zap.String("address", device.Address),
		zap.String("socket_type", model.SocketType(secure)),
		zap.Uint8("channel", t.config.Channel),
	)

	return &rfcommSocket{
		file:    os.NewFile(uintptr(fd), "rfcomm:"+device.Address),
		addr:    &unix.SockaddrRFCOMM{Addr: addr, Channel: t.config.Channel},
		timeout: t.config.ConnectTimeout,
	}, nil
}

type rfcommSocket struct {
	file    *os.File
	addr    *unix.SockaddrRFCOMM
	timeout time.Duration
	once    sync.Once
	err     error
}

// Connect starts a non-blocking connect and waits for writability through
// the poller, so Close interrupts it.
func (s *rfcommSocket) Connect() error {
	rc, err := s.file.SyscallConn()
	if err != nil {
		return fmt.Errorf("failed to access rfcomm socket: %w", err)
	}

	var connErr error
	if err := rc.Control(func(fd uintptr) {
		connErr = unix.Connect(int(fd), s.addr)
	}); err != nil {
		return fmt.Errorf("rfcomm connect: %w", err)
	}
	switch {
	case connErr == nil:
		return nil
	case !errors.Is(connErr, unix.EINPROGRESS):
		return fmt.Errorf("rfcomm connect: %w", connErr)
	}

	if s.timeout > 0 {
		if err := s.file.SetWriteDeadline(time.Now().Add(s.timeout)); err == nil {
			defer s.file.SetWriteDeadline(time.Time{})
		}
	}

	waited := false
	connErr = nil
	err = rc.Write(func(fd uintptr) bool {
		if !waited {
			waited = true
			return false
		}
		n, err := unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
		if err != nil {
			connErr = err
			return true
		}
		switch errno := syscall.Errno(n); errno {
		case unix.EINPROGRESS, unix.EALREADY, unix.EINTR:
			return false
		case 0:
			_, err := unix.Getpeername(int(fd))
			return err == nil
		default:
			connErr = errno
			return true
		}
	})
	if err != nil {
		return fmt.Errorf("rfcomm connect: %w", err)
	}
	if connErr != nil {
		return fmt.Errorf("rfcomm connect: %w", connErr)
	}
	return nil
}

func (s *rfcommSocket) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

func (s *rfcommSocket) Write(p []byte) (int, error) {
	return s.file.Write(p)
}

func (s *rfcommSocket) Close() error {
	s.once.Do(func() {
		s.err = s.file.Close()
	})
	return s.err
}

// parseBDAddr converts "AA:BB:CC:DD:EE:FF" into the little endian form the
// kernel expects
func parseBDAddr(address string) ([6]byte, error) {
	var out [6]byte
	hw, err := net.ParseMAC(address)
	if err != nil || len(hw) != len(out) {
		return out, fmt.Errorf("%w: invalid bluetooth address %q", model.ErrDeviceNotFound, address)
	}
	for i := range out {
		out[i] = hw[len(hw)-1-i]
	}
	return out, nil
}
