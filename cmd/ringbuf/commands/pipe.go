package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/buffer"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Copy stdin to stdout through a ring buffer",
	Long: `Copy stdin to stdout through a ring buffer with one producer goroutine
reading stdin and one consumer goroutine writing stdout.

The consumer always dequeues whole chunks; the final partial chunk is
collected by draining the buffer after it is stopped.

Examples:
  ringbuf pipe --capacity 4096 --chunk 512 < in.bin > out.bin
  cat access.log | ringbuf pipe -v | gzip > access.log.gz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		capacity, err := cmd.Flags().GetInt("capacity")
		if err != nil {
			return fmt.Errorf("failed to read 'capacity' flag: %w", err)
		}
		chunk, err := cmd.Flags().GetInt("chunk")
		if err != nil {
			return fmt.Errorf("failed to read 'chunk' flag: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		stats, err := pipe(cmd.InOrStdin(), w, capacity, chunk)
		slog.Debug("pipe finished",
			"bytes_in", stats.BytesIn,
			"bytes_out", stats.BytesOut+stats.BytesDrained,
			"enqueue_waits", stats.EnqueueWaits,
			"dequeue_waits", stats.DequeueWaits,
		)
		return err
	},
}

func init() {
	pipeCmd.Flags().Int("capacity", 1<<16, "ring buffer capacity in bytes")
	pipeCmd.Flags().Int("chunk", 1<<12, "bytes per read and write")
}

// pipe copies r to w through a RingBuffer of the given capacity.
func pipe(r io.Reader, w io.Writer, capacity, chunk int) (buffer.Stats, error) {
	if chunk <= 0 || 2*chunk-1 > capacity {
		return buffer.Stats{}, fmt.Errorf("chunk must be in 1..%d for capacity %d, got %d", (capacity+1)/2, capacity, chunk)
	}
	rb, err := buffer.NewRing(capacity)
	if err != nil {
		return buffer.Stats{}, err
	}
	defer rb.Destroy()

	writeErr := make(chan error, 1)
	go func() {
		p := make([]byte, chunk)
		for {
			if _, err := rb.Dequeue(p); err != nil {
				if errors.Is(err, buffer.ErrClosed) {
					writeErr <- nil
				} else {
					writeErr <- err
				}
				return
			}
			if _, err := w.Write(p); err != nil {
				// Unblock the producer; nothing more can be written.
				rb.Stop()
				writeErr <- fmt.Errorf("write output: %w", err)
				return
			}
		}
	}()

	readErr := func() error {
		p := make([]byte, chunk)
		for {
			n, err := r.Read(p)
			if n > 0 {
				if _, qerr := rb.Enqueue(p[:n]); qerr != nil {
					// Stopped by a failed writer.
					return nil
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
		}
	}()

	rb.Stop()
	if err := <-writeErr; err != nil {
		return rb.Stats(), err
	}
	if readErr != nil {
		return rb.Stats(), readErr
	}
	if rest := rb.Drain(); len(rest) > 0 {
		if _, err := w.Write(rest); err != nil {
			return rb.Stats(), fmt.Errorf("write output: %w", err)
		}
	}
	return rb.Stats(), nil
}
