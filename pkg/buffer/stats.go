package buffer

// Stats is a point-in-time snapshot of a RingBuffer's counters.
type Stats struct {
	Capacity int `json:"capacity" yaml:"capacity" msgpack:"capacity"`
	Buffered int `json:"buffered" yaml:"buffered" msgpack:"buffered"`

	Enqueues     uint64 `json:"enqueues" yaml:"enqueues" msgpack:"enqueues"`
	Dequeues     uint64 `json:"dequeues" yaml:"dequeues" msgpack:"dequeues"`
	BytesIn      uint64 `json:"bytes_in" yaml:"bytes_in" msgpack:"bytes_in"`
	BytesOut     uint64 `json:"bytes_out" yaml:"bytes_out" msgpack:"bytes_out"`
	BytesDrained uint64 `json:"bytes_drained" yaml:"bytes_drained" msgpack:"bytes_drained"`

	// EnqueueWaits and DequeueWaits count calls that had to block at least once.
	EnqueueWaits uint64 `json:"enqueue_waits" yaml:"enqueue_waits" msgpack:"enqueue_waits"`
	DequeueWaits uint64 `json:"dequeue_waits" yaml:"dequeue_waits" msgpack:"dequeue_waits"`
}
