package buffer

import "errors"

var (
	// ErrClosed is returned by Enqueue and Dequeue when the buffer was stopped
	// before the required space or data became available.
	ErrClosed = errors.New("buffer: closed")

	// ErrAllocation is returned by NewRing when the storage cannot be allocated.
	ErrAllocation = errors.New("buffer: allocation failed")

	// ErrInvalidCapacity is returned by NewRing for a non-positive capacity.
	ErrInvalidCapacity = errors.New("buffer: invalid capacity")

	// ErrTooLarge is returned when a single transfer is larger than the
	// buffer capacity and therefore could never complete.
	ErrTooLarge = errors.New("buffer: transfer exceeds capacity")

	// ErrDestroyed is returned by calls made after Destroy.
	// errors.Is(ErrDestroyed, ErrClosed) reports true.
	ErrDestroyed = &destroyedError{}
)

type destroyedError struct{}

func (*destroyedError) Error() string { return "buffer: destroyed" }

func (*destroyedError) Is(target error) bool { return target == ErrClosed }
