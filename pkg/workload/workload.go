// Package workload drives a buffer.RingBuffer with concurrent producers and
// consumers and reports throughput and integrity.
//
// A run follows the buffer's lifecycle contract: producers finish, the buffer
// is stopped, consumers are joined, leftovers are drained, and only then is
// the buffer destroyed.
package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/ringbuf/pkg/buffer"
)

// ErrIntegrity is returned when the bytes taken out of the buffer do not
// match the bytes put in.
var ErrIntegrity = errors.New("workload: integrity check failed")

// tally accumulates what one goroutine moved through the buffer.
type tally struct {
	bytes int64
	calls int64
	sum   uint64
}

func (t *tally) add(p []byte) {
	t.bytes += int64(len(p))
	t.calls++
	for _, b := range p {
		t.sum += uint64(b)
	}
}

// Run executes the workload described by cfg.
//
// Run returns when every producer has finished (TotalBytes produced, Duration
// elapsed, or ctx done) and every consumer has returned. If ctx is canceled
// the buffer is stopped early and ctx.Err() is returned.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger()

	rb, err := buffer.NewRing(cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}
	defer rb.Destroy()

	runCtx := ctx
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	report := &Report{
		ID:        uuid.NewString(),
		Name:      cfg.Name,
		StartedAt: time.Now(),
		Capacity:  cfg.Capacity,
		Producers: cfg.Producers,
		Consumers: cfg.Consumers,
		WriteSize: cfg.WriteSize,
		ReadSize:  cfg.ReadSize,
	}
	log.Info("workload started",
		"id", report.ID,
		"capacity", cfg.Capacity,
		"producers", cfg.Producers,
		"consumers", cfg.Consumers,
		"write_size", cfg.WriteSize,
		"read_size", cfg.ReadSize,
	)

	// Waking blocked producers is the only way to honor a deadline.
	stopped := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case <-runCtx.Done():
			log.Debug("workload deadline reached, stopping buffer", "id", report.ID)
			rb.Stop()
		case <-stopped:
		}
	}()

	produced := make([]tally, cfg.Producers)
	consumed := make([]tally, cfg.Consumers)

	var cwg sync.WaitGroup
	for i := range cfg.Consumers {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			consume(rb, cfg.ReadSize, &consumed[i])
			log.Debug("consumer done", "id", report.ID, "consumer", i, "bytes", consumed[i].bytes)
		}()
	}

	var pwg sync.WaitGroup
	for i := range cfg.Producers {
		pwg.Add(1)
		go func() {
			defer pwg.Done()
			produce(runCtx, rb, cfg, i, &produced[i])
			log.Debug("producer done", "id", report.ID, "producer", i, "bytes", produced[i].bytes)
		}()
	}

	pwg.Wait()
	rb.Stop()
	close(stopped)
	<-watchDone
	cwg.Wait()
	leftover := rb.Drain()
	report.Elapsed = time.Since(report.StartedAt)
	report.Stats = rb.Stats()

	var in, out tally
	for _, t := range produced {
		in.bytes += t.bytes
		in.calls += t.calls
		in.sum += t.sum
	}
	for _, t := range consumed {
		out.bytes += t.bytes
		out.calls += t.calls
		out.sum += t.sum
	}
	var rest tally
	rest.add(leftover)

	report.BytesProduced = in.bytes
	report.BytesConsumed = out.bytes
	report.BytesDrained = rest.bytes
	report.Enqueues = in.calls
	report.Dequeues = out.calls
	if secs := report.Elapsed.Seconds(); secs > 0 {
		report.Throughput = float64(out.bytes+rest.bytes) / secs
	}
	report.Verified = in.bytes == out.bytes+rest.bytes && in.sum == out.sum+rest.sum

	log.Info("workload finished",
		"id", report.ID,
		"elapsed", report.Elapsed,
		"produced", report.BytesProduced,
		"consumed", report.BytesConsumed,
		"drained", report.BytesDrained,
		"verified", report.Verified,
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if !report.Verified {
		return report, fmt.Errorf("%w: produced %d bytes (sum %d), consumed %d+%d bytes (sum %d)",
			ErrIntegrity, in.bytes, in.sum, out.bytes, rest.bytes, out.sum+rest.sum)
	}
	return report, nil
}

func produce(ctx context.Context, rb *buffer.RingBuffer, cfg Config, i int, t *tally) {
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(i)))
	remaining := cfg.share(i)
	span := make([]byte, cfg.WriteSize)
	for remaining != 0 {
		if ctx.Err() != nil {
			return
		}
		p := span
		if remaining > 0 && remaining < int64(len(p)) {
			p = p[:remaining]
		}
		fill(rng, p)
		if _, err := rb.Enqueue(p); err != nil {
			// Stopped on deadline: the span was not written.
			return
		}
		t.add(p)
		if remaining > 0 {
			remaining -= int64(len(p))
		}
	}
}

func consume(rb *buffer.RingBuffer, size int, t *tally) {
	p := make([]byte, size)
	for {
		if _, err := rb.Dequeue(p); err != nil {
			return
		}
		t.add(p)
	}
}

func fill(rng *rand.Rand, p []byte) {
	for i := 0; i < len(p); i += 8 {
		v := rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
}
