package connection

import (
	"errors"
	"io"
	"sync"

	"printer-service/internal/model"
	"printer-service/internal/protocol"
)

var errClosed = errors.New("socket closed")

// fakeSocket blocks in Connect until the test resolves it and in Read until
// data is fed, the read is failed or the socket is closed
type fakeSocket struct {
	device model.Device
	secure bool

	connectResult chan error
	reads         chan []byte
	readErr       chan error
	closed        chan struct{}
	closeOnce     sync.Once

	mu       sync.Mutex
	written  []byte
	writeErr error
}

func newFakeSocket(device model.Device, secure bool) *fakeSocket {
	return &fakeSocket{
		device:        device,
		secure:        secure,
		connectResult: make(chan error, 1),
		reads:         make(chan []byte, 8),
		readErr:       make(chan error, 1),
		closed:        make(chan struct{}),
	}
}

func (s *fakeSocket) Connect() error {
	select {
	case err := <-s.connectResult:
		return err
	case <-s.closed:
		return errClosed
	}
}

func (s *fakeSocket) Read(p []byte) (int, error) {
	select {
	case data := <-s.reads:
		return copy(p, data), nil
	case err := <-s.readErr:
		return 0, err
	case <-s.closed:
		return 0, io.EOF
	}
}

func (s *fakeSocket) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed() {
		return 0, errClosed
	}
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.written = append(s.written, p...)
	return len(p), nil
}

func (s *fakeSocket) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeSocket) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *fakeSocket) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written...)
}

// fakeTransport records every socket it hands out
type fakeTransport struct {
	mu       sync.Mutex
	sockets  []*fakeSocket
	allocErr error
}

func (t *fakeTransport) Kind() string {
	return "fake"
}

func (t *fakeTransport) NewSocket(device model.Device, secure bool) (protocol.Socket, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allocErr != nil {
		return nil, t.allocErr
	}
	s := newFakeSocket(device, secure)
	t.sockets = append(t.sockets, s)
	return s, nil
}

func (t *fakeTransport) socket(i int) *fakeSocket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sockets[i]
}

func (t *fakeTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sockets)
}

// recorder collects dispatched events
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) listen(e model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

// ofType returns the recorded events of type t
func (r *recorder) ofType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range r.all() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// states returns the target state of every stateChanged event
func (r *recorder) states() []model.ConnectionState {
	var out []model.ConnectionState
	for _, e := range r.ofType(model.EventStateChanged) {
		out = append(out, e.To)
	}
	return out
}
