// internal/connection/manager.go
package connection

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/protocol"
	"printer-service/internal/utils"
)

// DefaultReadBufferSize is the scratch buffer of the read worker
const DefaultReadBufferSize = 1024

const (
	connectFailedMessage  = "Unable to connect to device"
	connectionLostMessage = "Device connection was lost"
)

// Options tune a Manager
type Options struct {
	ReadBufferSize int
}

type transitionKind int

const (
	connectSucceeded transitionKind = iota
	connectFailed
	dataRead
	readFailed
)

// transition is what a worker reports back to the supervisor. gen ties it
// to the session that produced it.
type transition struct {
	gen  uint64
	kind transitionKind
	data []byte
	err  error
}

// session is one socket and its workers
type session struct {
	gen     uint64
	device  model.Device
	secure  bool
	socket  protocol.Socket
	log     *utils.DeviceLogger
	writeMu sync.Mutex
}

// Manager owns the single SPP session. The connect and read workers never
// touch manager state; they report transitions to a supervisor goroutine
// which applies them under the lock and drops those of torn down sessions.
type Manager struct {
	transport protocol.Transport
	events    *Dispatcher
	logger    *zap.Logger
	readSize  int

	mutex   sync.Mutex
	state   model.ConnectionState
	gen     uint64
	session *session
	stats   protocol.Stats
	closed  bool

	transitions chan transition
	stop        chan struct{}
	supervisor  sync.WaitGroup
	workers     sync.WaitGroup
}

// NewManager creates a manager in the LISTENING state
func NewManager(transport protocol.Transport, events *Dispatcher, logger *zap.Logger, opts Options) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = DefaultReadBufferSize
	}

	m := &Manager{
		transport:   transport,
		events:      events,
		logger:      logger.With(zap.String("component", "connection"), zap.String("transport", transport.Kind())),
		readSize:    opts.ReadBufferSize,
		transitions: make(chan transition),
		stop:        make(chan struct{}),
	}

	m.supervisor.Add(1)
	go m.supervise()

	m.Start()
	return m
}

// State returns the current connection state
func (m *Manager) State() model.ConnectionState {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

// Device returns the connected device, if any
func (m *Manager) Device() (model.Device, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state != model.StateConnected || m.session == nil {
		return model.Device{}, false
	}
	return m.session.device, true
}

// Stats returns link statistics of the current or last session
func (m *Manager) Stats() protocol.Stats {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.stats
}

// Subscribe registers a listener on the event queue
func (m *Manager) Subscribe(l Listener) (unsubscribe func()) {
	return m.events.Subscribe(l)
}

// Start cancels any session and waits for a connect in LISTENING
func (m *Manager) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return
	}
	m.teardownLocked()
	m.setStateLocked(model.StateListening)
}

// Connect replaces any session with a new attempt to reach device. The
// outcome is reported through deviceConnected or connectionFailed; only
// synchronous failures are returned.
func (m *Manager) Connect(device model.Device, secure bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return model.ErrManagerClosed
	}

	m.teardownLocked()

	log := utils.NewDeviceLogger(m.logger, device.Address, device.Name)
	socket, err := m.transport.NewSocket(device, secure)
	if err != nil {
		log.LogConnection("allocate", model.SocketType(secure), false, err)
		m.setStateLocked(model.StateListening)
		return fmt.Errorf("failed to create socket: %w", err)
	}

	m.gen++
	s := &session{
		gen:    m.gen,
		device: device,
		secure: secure,
		socket: socket,
		log:    log,
	}
	m.session = s
	m.setStateLocked(model.StateConnecting)

	log.Info("Connecting", zap.String("socket_type", model.SocketType(secure)))

	m.workers.Add(1)
	go m.connectWorker(s)
	return nil
}

// Disconnect stops the session. deviceDisconnected is only emitted when a
// device was connected.
func (m *Manager) Disconnect() {
	m.Stop()
}

// Stop cancels both workers and moves to NONE
func (m *Manager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	wasConnected := m.state == model.StateConnected
	s := m.session

	m.teardownLocked()
	m.setStateLocked(model.StateNone)

	if wasConnected {
		s.log.LogConnection("disconnect", model.SocketType(s.secure), true, nil)
		m.events.Publish(model.NewEvent(model.EventDeviceDisconnected))
	}
}

// Close stops the session, the supervisor and the dispatcher. Events
// already queued are still delivered.
func (m *Manager) Close() {
	m.mutex.Lock()
	if m.closed {
		m.mutex.Unlock()
		return
	}
	m.stopLocked()
	m.closed = true
	m.mutex.Unlock()

	close(m.stop)
	m.supervisor.Wait()
	m.workers.Wait()
	m.events.Close()
	m.logger.Info("Connection manager closed")
}

// Write sends data on the connected socket. It is a no-op with a warning
// unless CONNECTED. A write error closes the socket and the read worker
// reports the loss.
func (m *Manager) Write(data []byte) {
	m.mutex.Lock()
	s := m.session
	state := m.state
	m.mutex.Unlock()

	if state != model.StateConnected || s == nil {
		m.logger.Warn("Write ignored, not connected",
			zap.Stringer("state", state),
			zap.Int("bytes", len(data)),
		)
		return
	}
	if len(data) == 0 {
		return
	}

	start := time.Now()
	s.writeMu.Lock()
	err := writeFull(s.socket, data)
	s.writeMu.Unlock()

	m.mutex.Lock()
	if s.gen == m.gen {
		if err != nil {
			m.stats.ErrorCount++
		} else {
			m.stats.BytesWritten += int64(len(data))
			m.stats.WriteCount++
			m.stats.LastActivity = time.Now()
		}
	}
	m.mutex.Unlock()

	if err != nil {
		s.log.Error("Write failed, closing socket", zap.Error(err))
		s.socket.Close()
		return
	}
	s.log.LogTransfer("write", len(data), time.Since(start))
}

func writeFull(socket protocol.Socket, data []byte) error {
	for len(data) > 0 {
		n, err := socket.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}

// teardownLocked closes the socket of the current session, which unblocks
// its workers, and makes their pending reports stale
func (m *Manager) teardownLocked() {
	if m.session == nil {
		return
	}
	m.session.socket.Close()
	m.session = nil
	m.gen++
}

func (m *Manager) setStateLocked(to model.ConnectionState) {
	from := m.state
	if from == to {
		return
	}
	m.state = to
	m.logger.Debug("State changed", zap.Stringer("from", from), zap.Stringer("to", to))
	m.events.Publish(model.StateChangedEvent(from, to))
}

// report hands t to the supervisor unless the manager is shutting down
func (m *Manager) report(t transition) bool {
	select {
	case m.transitions <- t:
		return true
	case <-m.stop:
		return false
	}
}

func (m *Manager) connectWorker(s *session) {
	defer m.workers.Done()

	err := s.socket.Connect()
	if err != nil {
		m.report(transition{gen: s.gen, kind: connectFailed, err: err})
		return
	}
	m.report(transition{gen: s.gen, kind: connectSucceeded})
}

func (m *Manager) readWorker(s *session) {
	defer m.workers.Done()

	buf := make([]byte, m.readSize)
	for {
		n, err := s.socket.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if !m.report(transition{gen: s.gen, kind: dataRead, data: data}) {
				return
			}
		}
		if err != nil {
			m.report(transition{gen: s.gen, kind: readFailed, err: err})
			return
		}
	}
}

func (m *Manager) supervise() {
	defer m.supervisor.Done()
	for {
		select {
		case t := <-m.transitions:
			m.apply(t)
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) apply(t transition) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s := m.session
	if s == nil || t.gen != s.gen {
		m.logger.Debug("Dropping stale transition", zap.Uint64("gen", t.gen), zap.Int("kind", int(t.kind)))
		return
	}

	switch t.kind {
	case connectSucceeded:
		s.log.LogConnection("connect", model.SocketType(s.secure), true, nil)
		m.stats = protocol.Stats{ConnectedSince: time.Now(), LastActivity: time.Now()}
		m.setStateLocked(model.StateConnected)
		m.events.Publish(model.DeviceConnectedEvent(s.device))

		m.workers.Add(1)
		go m.readWorker(s)

	case connectFailed:
		s.log.LogConnection("connect", model.SocketType(s.secure), false, t.err)
		m.teardownLocked()
		m.setStateLocked(model.StateNone)
		m.events.Publish(model.ConnectionFailedEvent(connectFailedMessage))
		m.setStateLocked(model.StateListening)

	case dataRead:
		m.stats.BytesRead += int64(len(t.data))
		m.stats.LastActivity = time.Now()
		s.log.LogTransfer("read", len(t.data), 0)
		m.events.Publish(model.DataReceivedEvent(t.data))

	case readFailed:
		s.log.LogConnection("read", model.SocketType(s.secure), false, t.err)
		m.teardownLocked()
		m.setStateLocked(model.StateNone)
		e := model.NewEvent(model.EventConnectionLost)
		e.Message = connectionLostMessage
		m.events.Publish(e)
		m.setStateLocked(model.StateListening)
	}
}
