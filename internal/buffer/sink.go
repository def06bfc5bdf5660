// internal/buffer/sink.go
package buffer

import "fmt"

// DefaultCapacity is enough for one receipt with a QR code.
const DefaultCapacity = 50 * 1024

// Sink is a bounded byte accumulator reused across print jobs.
//
// A Sink is not safe for concurrent use; exactly one goroutine encodes a job.
type Sink struct {
	data     []byte
	writePos int
}

// New allocates a sink with the given capacity
func New(capacity int) *Sink {
	s := &Sink{}
	s.Reserve(capacity)
	return s
}

// Reserve makes sure the sink can hold capacity bytes and resets it.
// The backing array is only reallocated when it has to grow.
func (s *Sink) Reserve(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if cap(s.data) < capacity {
		s.data = make([]byte, capacity)
	} else {
		s.data = s.data[:capacity]
	}
	s.writePos = 0
}

// Put appends b. Writing past capacity is a contract violation and panics;
// callers check Remaining first.
func (s *Sink) Put(b []byte) {
	if len(b) > s.Remaining() {
		panic(fmt.Sprintf("buffer: put of %d bytes exceeds remaining capacity %d of %d",
			len(b), s.Remaining(), len(s.data)))
	}
	s.writePos += copy(s.data[s.writePos:], b)
}

// Cap returns the total capacity
func (s *Sink) Cap() int {
	return len(s.data)
}

// Len returns the number of bytes written since the last Clear
func (s *Sink) Len() int {
	return s.writePos
}

// Remaining returns the free space left
func (s *Sink) Remaining() int {
	return len(s.data) - s.writePos
}

// Clear resets the write position without reallocating.
func (s *Sink) Clear() {
	s.writePos = 0
}

// Drain returns a copy of the bytes written since the last Clear. Stale bytes
// past the write position from an earlier, longer job are never included.
func (s *Sink) Drain() []byte {
	out := make([]byte, s.writePos)
	copy(out, s.data[:s.writePos])
	return out
}
