package workload

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidConfig is returned by Validate and Run for unusable configurations.
var ErrInvalidConfig = errors.New("workload: invalid config")

// Default values used by WithDefaults.
const (
	DefaultCapacity   = 4096
	DefaultWriteSize  = 512
	DefaultReadSize   = 512
	DefaultTotalBytes = 64 << 20
)

// Config describes a producer/consumer run over one RingBuffer.
type Config struct {
	// Name labels the run in reports, usually the profile name.
	Name string

	// Capacity is the ring buffer size in bytes.
	Capacity int

	// Producers and Consumers are the goroutine counts.
	Producers int
	Consumers int

	// WriteSize is the span of every enqueue. A producer's last span may be
	// shorter.
	WriteSize int

	// ReadSize is the span of every dequeue.
	ReadSize int

	// TotalBytes is the number of bytes to produce across all producers.
	// Zero means produce until Duration elapses.
	TotalBytes int64

	// Duration bounds the run. Zero means run until TotalBytes are produced.
	Duration time.Duration

	// Seed seeds the payload generator; producer i uses Seed+i.
	Seed int64

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.Producers == 0 {
		c.Producers = 1
	}
	if c.Consumers == 0 {
		c.Consumers = 1
	}
	if c.WriteSize == 0 {
		c.WriteSize = min(DefaultWriteSize, c.Capacity)
	}
	if c.ReadSize == 0 {
		c.ReadSize = min(DefaultReadSize, c.Capacity)
	}
	if c.TotalBytes == 0 && c.Duration == 0 {
		c.TotalBytes = DefaultTotalBytes
	}
	return c
}

// Validate checks that the run can make progress.
//
// Besides the obvious bounds, WriteSize+ReadSize must not exceed Capacity+1:
// otherwise a producer waiting for WriteSize free bytes and a consumer waiting
// for ReadSize buffered bytes can block each other forever.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.Producers <= 0:
		return fmt.Errorf("%w: producers must be positive, got %d", ErrInvalidConfig, c.Producers)
	case c.Consumers <= 0:
		return fmt.Errorf("%w: consumers must be positive, got %d", ErrInvalidConfig, c.Consumers)
	case c.WriteSize <= 0 || c.WriteSize > c.Capacity:
		return fmt.Errorf("%w: write_size must be in 1..%d, got %d", ErrInvalidConfig, c.Capacity, c.WriteSize)
	case c.ReadSize <= 0 || c.ReadSize > c.Capacity:
		return fmt.Errorf("%w: read_size must be in 1..%d, got %d", ErrInvalidConfig, c.Capacity, c.ReadSize)
	case c.WriteSize+c.ReadSize > c.Capacity+1:
		return fmt.Errorf("%w: write_size+read_size (%d) must not exceed capacity+1 (%d)",
			ErrInvalidConfig, c.WriteSize+c.ReadSize, c.Capacity+1)
	case c.TotalBytes < 0:
		return fmt.Errorf("%w: total_bytes must not be negative, got %d", ErrInvalidConfig, c.TotalBytes)
	case c.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative, got %s", ErrInvalidConfig, c.Duration)
	case c.TotalBytes == 0 && c.Duration == 0:
		return fmt.Errorf("%w: one of total_bytes or duration is required", ErrInvalidConfig)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// share returns the number of bytes producer i must produce, or -1 for
// unbounded.
func (c Config) share(i int) int64 {
	if c.TotalBytes == 0 {
		return -1
	}
	n := c.TotalBytes / int64(c.Producers)
	if i == 0 {
		n += c.TotalBytes % int64(c.Producers)
	}
	return n
}
