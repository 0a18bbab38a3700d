package buffer

import (
	"fmt"
	"sync"
)

type ringState uint8

const (
	stateOpen ringState = iota
	stateStopped
	stateDestroyed
)

// RingBuffer is a fixed-capacity byte ring buffer shared between any number of
// producer and consumer goroutines.
//
// Every transfer is all-or-nothing: Enqueue blocks until the whole span fits,
// Dequeue blocks until the whole span is available. Stop wakes every blocked
// goroutine and turns further waits into ErrClosed.
//
// All fields are guarded by mu. Goroutines suspend only inside the two wait
// loops, on notFull (space available) and notEmpty (data available).
type RingBuffer struct {
	notFull  *sync.Cond
	notEmpty *sync.Cond

	mu         sync.Mutex
	buf        []byte
	head, tail int
	length     int
	state      ringState
	stats      Stats
}

// NewRing creates a RingBuffer holding exactly capacity bytes.
//
// Returns ErrInvalidCapacity if capacity is not positive and ErrAllocation if
// the storage cannot be allocated. No RingBuffer is returned on error.
func NewRing(capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer: new ring of capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	buf, err := allocate(capacity)
	if err != nil {
		return nil, err
	}
	rb := &RingBuffer{buf: buf}
	rb.notFull = sync.NewCond(&rb.mu)
	rb.notEmpty = sync.NewCond(&rb.mu)
	return rb, nil
}

// MustRing is like NewRing but panics on error.
func MustRing(capacity int) *RingBuffer {
	rb, err := NewRing(capacity)
	if err != nil {
		panic(err)
	}
	return rb
}

// allocate turns the runtime's refusal to build the slice into ErrAllocation.
func allocate(capacity int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("buffer: allocate %d bytes: %v: %w", capacity, r, ErrAllocation)
		}
	}()
	return make([]byte, capacity), nil
}

// Enqueue copies all of p into the buffer.
//
// It blocks while the free space is smaller than len(p). If the buffer is
// stopped before the write can happen, Enqueue returns ErrClosed and writes
// nothing. A stopped buffer accepts no new data even when space is free.
//
// An empty p returns 0 immediately. A p larger than the capacity can never
// fit and returns ErrTooLarge without blocking.
func (rb *RingBuffer) Enqueue(p []byte) (int, error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	if err := rb.checkLocked("enqueue to", n); err != nil {
		return 0, err
	}

	waited := false
	for rb.length+n > len(rb.buf) && rb.state == stateOpen {
		waited = true
		rb.notFull.Wait()
	}
	if waited {
		rb.stats.EnqueueWaits++
	}
	if rb.state != stateOpen {
		return 0, rb.closedErrLocked("enqueue to")
	}

	tail := rb.tail
	if tail+n <= len(rb.buf) {
		copy(rb.buf[tail:tail+n], p)
	} else {
		m := copy(rb.buf[tail:], p)
		copy(rb.buf[:n-m], p[m:])
	}
	rb.tail = rb.advance(tail, n)
	rb.length += n
	rb.stats.Enqueues++
	rb.stats.BytesIn += uint64(n)

	rb.notEmpty.Signal()
	return n, nil
}

// Dequeue fills all of p with the oldest bytes in the buffer.
//
// It blocks while fewer than len(p) bytes are buffered. If the buffer is
// stopped while the data is still insufficient, Dequeue returns ErrClosed and
// leaves p untouched. Data already buffered when Stop is called can still be
// dequeued.
//
// An empty p returns 0 immediately. A p larger than the capacity returns
// ErrTooLarge without blocking.
func (rb *RingBuffer) Dequeue(p []byte) (int, error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	if err := rb.checkLocked("dequeue from", n); err != nil {
		return 0, err
	}

	waited := false
	for rb.length < n && rb.state == stateOpen {
		waited = true
		rb.notEmpty.Wait()
	}
	if waited {
		rb.stats.DequeueWaits++
	}
	if rb.length < n {
		return 0, rb.closedErrLocked("dequeue from")
	}

	rb.readLocked(p)
	rb.stats.Dequeues++
	rb.stats.BytesOut += uint64(n)

	rb.notFull.Signal()
	return n, nil
}

// readLocked copies len(p) buffered bytes into p and consumes them.
func (rb *RingBuffer) readLocked(p []byte) {
	n := len(p)
	head := rb.head
	if head+n <= len(rb.buf) {
		copy(p, rb.buf[head:head+n])
	} else {
		m := copy(p, rb.buf[head:])
		copy(p[m:], rb.buf[:n-m])
	}
	rb.head = rb.advance(head, n)
	rb.length -= n
}

// advance moves a cursor forward by n, wrapping at the end of the storage.
func (rb *RingBuffer) advance(pos, n int) int {
	pos += n
	if pos >= len(rb.buf) {
		pos -= len(rb.buf)
	}
	return pos
}

func (rb *RingBuffer) checkLocked(op string, n int) error {
	if rb.state == stateDestroyed {
		return fmt.Errorf("buffer: %s destroyed buffer: %w", op, ErrDestroyed)
	}
	if n > len(rb.buf) {
		return fmt.Errorf("buffer: %s buffer: %d bytes exceeds capacity %d: %w", op, n, len(rb.buf), ErrTooLarge)
	}
	return nil
}

func (rb *RingBuffer) closedErrLocked(op string) error {
	if rb.state == stateDestroyed {
		return fmt.Errorf("buffer: %s destroyed buffer: %w", op, ErrDestroyed)
	}
	return fmt.Errorf("buffer: %s closed buffer: %w", op, ErrClosed)
}

// Stop closes the buffer and wakes every goroutine blocked in Enqueue or
// Dequeue. It is safe to call more than once.
func (rb *RingBuffer) Stop() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.stopLocked()
}

func (rb *RingBuffer) stopLocked() {
	if rb.state != stateOpen {
		return
	}
	rb.state = stateStopped
	rb.notFull.Broadcast()
	rb.notEmpty.Broadcast()
}

// Destroy stops the buffer and releases its storage.
//
// Callers must Stop the buffer and wait for every producer and consumer to
// return before calling Destroy. Any later call fails with ErrDestroyed.
func (rb *RingBuffer) Destroy() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.stopLocked()
	rb.state = stateDestroyed
	rb.buf = nil
	rb.head, rb.tail, rb.length = 0, 0, 0
}

// Drain removes and returns a copy of every buffered byte. It never blocks.
//
// Drain is meant for collecting leftovers after Stop, when no Dequeue can be
// satisfied any more.
func (rb *RingBuffer) Drain() []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.length == 0 {
		return nil
	}
	out := make([]byte, rb.length)
	rb.readLocked(out)
	rb.stats.BytesDrained += uint64(len(out))
	rb.notFull.Broadcast()
	return out
}

// Len returns the number of unread bytes.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.length
}

// Cap returns the storage capacity in bytes, or 0 once destroyed.
func (rb *RingBuffer) Cap() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.buf)
}

// Free returns the number of bytes that can be enqueued without blocking.
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.buf) - rb.length
}

// IsOpen reports whether Stop has not been called yet.
func (rb *RingBuffer) IsOpen() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.state == stateOpen
}

// Stats returns a snapshot of the transfer counters.
func (rb *RingBuffer) Stats() Stats {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	s := rb.stats
	s.Capacity = len(rb.buf)
	s.Buffered = rb.length
	return s
}

// Write implements io.Writer with Enqueue semantics: either all of p is
// written or nothing is.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	return rb.Enqueue(p)
}

// Read implements io.Reader with Dequeue semantics: it waits until len(p)
// bytes are buffered instead of returning a short read.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	return rb.Dequeue(p)
}

// Close implements io.Closer. It is equivalent to Stop.
func (rb *RingBuffer) Close() error {
	rb.Stop()
	return nil
}
