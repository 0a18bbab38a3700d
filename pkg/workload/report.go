package workload

import (
	"fmt"
	"strconv"
	"time"

	"github.com/haivivi/ringbuf/pkg/buffer"
	"github.com/haivivi/ringbuf/pkg/cli"
)

// Report summarizes one workload run.
type Report struct {
	ID        string    `json:"id" yaml:"id" msgpack:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	StartedAt time.Time `json:"started_at" yaml:"started_at" msgpack:"started_at"`

	Elapsed time.Duration `json:"elapsed" yaml:"elapsed" msgpack:"elapsed"`

	Capacity  int `json:"capacity" yaml:"capacity" msgpack:"capacity"`
	Producers int `json:"producers" yaml:"producers" msgpack:"producers"`
	Consumers int `json:"consumers" yaml:"consumers" msgpack:"consumers"`
	WriteSize int `json:"write_size" yaml:"write_size" msgpack:"write_size"`
	ReadSize  int `json:"read_size" yaml:"read_size" msgpack:"read_size"`

	BytesProduced int64 `json:"bytes_produced" yaml:"bytes_produced" msgpack:"bytes_produced"`
	BytesConsumed int64 `json:"bytes_consumed" yaml:"bytes_consumed" msgpack:"bytes_consumed"`
	BytesDrained  int64 `json:"bytes_drained" yaml:"bytes_drained" msgpack:"bytes_drained"`
	Enqueues      int64 `json:"enqueues" yaml:"enqueues" msgpack:"enqueues"`
	Dequeues      int64 `json:"dequeues" yaml:"dequeues" msgpack:"dequeues"`

	// Throughput is bytes taken out of the buffer per second.
	Throughput float64 `json:"throughput" yaml:"throughput" msgpack:"throughput"`

	// Verified reports whether every produced byte came back out exactly once.
	Verified bool `json:"verified" yaml:"verified" msgpack:"verified"`

	Stats buffer.Stats `json:"stats" yaml:"stats" msgpack:"stats"`
}

// Table implements cli.Tabler.
func (r *Report) Table() cli.Table {
	name := r.Name
	if name == "" {
		name = "-"
	}
	return cli.Table{
		Title:  "workload " + r.ID,
		Header: []string{"FIELD", "VALUE"},
		Rows: [][]string{
			{"profile", name},
			{"started", r.StartedAt.Format(time.RFC3339)},
			{"elapsed", cli.FormatDuration(r.Elapsed)},
			{"capacity", cli.FormatBytes(int64(r.Capacity))},
			{"producers x write", fmt.Sprintf("%d x %d B", r.Producers, r.WriteSize)},
			{"consumers x read", fmt.Sprintf("%d x %d B", r.Consumers, r.ReadSize)},
			{"produced", cli.FormatBytes(r.BytesProduced)},
			{"consumed", cli.FormatBytes(r.BytesConsumed)},
			{"drained", cli.FormatBytes(r.BytesDrained)},
			{"enqueue waits", fmt.Sprintf("%d / %d", r.Stats.EnqueueWaits, r.Stats.Enqueues)},
			{"dequeue waits", fmt.Sprintf("%d / %d", r.Stats.DequeueWaits, r.Stats.Dequeues)},
			{"throughput", cli.FormatRate(r.Throughput)},
			{"verified", strconv.FormatBool(r.Verified)},
		},
	}
}

// Reports is a list of reports with a compact table rendering.
type Reports []*Report

// Table implements cli.Tabler.
func (rs Reports) Table() cli.Table {
	t := cli.Table{
		Title:  "history",
		Header: []string{"ID", "PROFILE", "STARTED", "ELAPSED", "BYTES", "THROUGHPUT", "OK"},
		Footer: fmt.Sprintf("%d report(s)", len(rs)),
	}
	for _, r := range rs {
		t.Rows = append(t.Rows, []string{
			r.ID,
			r.Name,
			r.StartedAt.Format(time.DateTime),
			cli.FormatDuration(r.Elapsed),
			cli.FormatBytes(r.BytesConsumed + r.BytesDrained),
			cli.FormatRate(r.Throughput),
			strconv.FormatBool(r.Verified),
		})
	}
	return t
}
