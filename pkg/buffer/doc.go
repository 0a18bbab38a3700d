// Package buffer provides a thread-safe, fixed-capacity byte ring buffer with
// blocking backpressure.
//
// A RingBuffer is shared by any number of producer and consumer goroutines.
// Transfers are all-or-nothing spans of bytes:
//
//   - Enqueue blocks until the free space can hold the whole span.
//   - Dequeue blocks until the whole requested span is buffered.
//   - Stop wakes every blocked goroutine; waits that can no longer be
//     satisfied fail with ErrClosed.
//   - Destroy releases the storage once every goroutine has returned.
//
// A stopped buffer accepts no new data, but bytes that were already buffered
// can still be dequeued, or collected at once with Drain.
//
// The buffer never resizes, carries no message boundaries and always copies
// data in and out.
//
// Example usage:
//
//	rb, err := buffer.NewRing(4096)
//	if err != nil {
//		return err
//	}
//
//	// Producer
//	go func() {
//		rb.Enqueue([]byte("hello"))
//	}()
//
//	// Consumer
//	data := make([]byte, 5)
//	n, err := rb.Dequeue(data)
//
//	// Shutdown: stop, join goroutines, then destroy.
//	rb.Stop()
//	rb.Destroy()
package buffer
