// internal/connection/dispatcher.go
package connection

import (
	"sync"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// Listener receives connection events. Listeners are called one at a time,
// in the order the events were published.
type Listener func(event model.Event)

// Dispatcher is an unbounded FIFO of events with a single consumer. Publish
// never blocks, so it can be called while holding the manager lock.
type Dispatcher struct {
	mutex     sync.Mutex
	queue     []model.Event
	listeners map[int]Listener
	order     []int
	nextID    int
	closed    bool

	wake   chan struct{}
	done   chan struct{}
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher and starts its consumer
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		listeners: make(map[int]Listener),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		logger:    logger.With(zap.String("component", "dispatcher")),
	}
	go d.run()
	return d
}

// Subscribe registers l and returns a func that removes it
func (d *Dispatcher) Subscribe(l Listener) (unsubscribe func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.order = append(d.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mutex.Lock()
			defer d.mutex.Unlock()
			delete(d.listeners, id)
			for i, v := range d.order {
				if v == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish enqueues event. Events published after Close are dropped.
func (d *Dispatcher) Publish(event model.Event) {
	d.mutex.Lock()
	if d.closed {
		d.mutex.Unlock()
		d.logger.Debug("Dispatcher closed, dropping event", zap.String("event_type", string(event.Type)))
		return
	}
	d.queue = append(d.queue, event)
	d.mutex.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Close delivers every queued event, then stops the consumer
func (d *Dispatcher) Close() {
	d.mutex.Lock()
	if d.closed {
		d.mutex.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mutex.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for range d.wake {
		for {
			d.mutex.Lock()
			if len(d.queue) == 0 {
				closed := d.closed
				d.mutex.Unlock()
				if closed {
					return
				}
				break
			}
			event := d.queue[0]
			d.queue[0] = model.Event{}
			d.queue = d.queue[1:]
			listeners := make([]Listener, 0, len(d.order))
			for _, id := range d.order {
				listeners = append(listeners, d.listeners[id])
			}
			d.mutex.Unlock()

			for _, l := range listeners {
				d.deliver(l, event)
			}
		}
	}
}

// deliver isolates the queue from a panicking listener
func (d *Dispatcher) deliver(l Listener, event model.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Listener panicked",
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r),
			)
		}
	}()
	l(event)
}
