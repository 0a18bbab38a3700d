package buffer

import "io"

var _ Queue = (*RingBuffer)(nil)

// Queue is the byte queue interface implemented by RingBuffer.
// Implementations are safe for concurrent use.
type Queue interface {
	io.ReadWriteCloser
	Enqueue(p []byte) (int, error)
	Dequeue(p []byte) (int, error)
	Drain() []byte
	Stop()
	Destroy()
	Len() int
	Cap() int
	Free() int
	IsOpen() bool
	Stats() Stats
}

// Bytes64KB creates a new RingBuffer with 64KB capacity.
func Bytes64KB() *RingBuffer {
	return MustRing(1 << 16)
}

// Bytes16KB creates a new RingBuffer with 16KB capacity.
func Bytes16KB() *RingBuffer {
	return MustRing(1 << 14)
}

// Bytes4KB creates a new RingBuffer with 4KB capacity.
func Bytes4KB() *RingBuffer {
	return MustRing(1 << 12)
}

// Bytes1KB creates a new RingBuffer with 1KB capacity.
func Bytes1KB() *RingBuffer {
	return MustRing(1 << 10)
}
