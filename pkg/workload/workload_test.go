package workload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Capacity: 16, Producers: 1, Consumers: 1, WriteSize: 8, ReadSize: 9, TotalBytes: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}

	for name, mutate := range map[string]func(*Config){
		"capacity":    func(c *Config) { c.Capacity = 0 },
		"producers":   func(c *Config) { c.Producers = 0 },
		"consumers":   func(c *Config) { c.Consumers = -1 },
		"write_size":  func(c *Config) { c.WriteSize = 17 },
		"read_size":   func(c *Config) { c.ReadSize = 0 },
		"deadlock":    func(c *Config) { c.WriteSize, c.ReadSize = 8, 10 },
		"total_bytes": func(c *Config) { c.TotalBytes = -1 },
		"duration":    func(c *Config) { c.Duration = -time.Second },
		"unbounded":   func(c *Config) { c.TotalBytes = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err=%v", err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{Capacity: 100}.WithDefaults()
	if c.Producers != 1 || c.Consumers != 1 {
		t.Errorf("producers=%d, consumers=%d", c.Producers, c.Consumers)
	}
	if c.WriteSize != 100 || c.ReadSize != 100 {
		t.Errorf("write_size=%d, read_size=%d", c.WriteSize, c.ReadSize)
	}
	if c.TotalBytes != DefaultTotalBytes {
		t.Errorf("total_bytes=%d", c.TotalBytes)
	}

	c = Config{Duration: time.Second}.WithDefaults()
	if c.Capacity != DefaultCapacity || c.TotalBytes != 0 {
		t.Errorf("capacity=%d, total_bytes=%d", c.Capacity, c.TotalBytes)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults are invalid: %v", err)
	}
}

func TestConfigShare(t *testing.T) {
	c := Config{Producers: 3, TotalBytes: 10}
	var total int64
	for i := 0; i < 3; i++ {
		total += c.share(i)
	}
	if total != 10 || c.share(0) != 4 || c.share(2) != 3 {
		t.Errorf("shares=%d,%d,%d", c.share(0), c.share(1), c.share(2))
	}
	if (Config{Producers: 2}).share(1) != -1 {
		t.Error("unbounded share should be -1")
	}
}

func TestRun(t *testing.T) {
	cases := []Config{
		{Capacity: 8, Producers: 1, Consumers: 1, WriteSize: 3, ReadSize: 5, TotalBytes: 10000},
		{Capacity: 64, Producers: 4, Consumers: 4, WriteSize: 16, ReadSize: 16, TotalBytes: 1 << 16},
		{Capacity: 4096, Producers: 3, Consumers: 5, WriteSize: 700, ReadSize: 1000, TotalBytes: 1<<20 + 17},
		{Capacity: 1, Producers: 2, Consumers: 2, WriteSize: 1, ReadSize: 1, TotalBytes: 999},
	}
	for i, cfg := range cases {
		t.Run("case="+strconv.Itoa(i), func(t *testing.T) {
			cfg.Name = "test"
			cfg.Seed = int64(i)
			cfg.Logger = quietLogger()

			report, err := Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("run with error: %v", err)
			}
			if !report.Verified {
				t.Error("report not verified")
			}
			if report.BytesProduced != cfg.TotalBytes {
				t.Errorf("produced=%d, want=%d", report.BytesProduced, cfg.TotalBytes)
			}
			if got := report.BytesConsumed + report.BytesDrained; got != cfg.TotalBytes {
				t.Errorf("consumed+drained=%d, want=%d", got, cfg.TotalBytes)
			}
			if report.BytesDrained >= int64(cfg.ReadSize) {
				t.Errorf("drained=%d should be less than one read span", report.BytesDrained)
			}
			if report.ID == "" || report.Name != "test" {
				t.Errorf("id=%q, name=%q", report.ID, report.Name)
			}
			if report.Stats.Capacity != cfg.Capacity {
				t.Errorf("stats.capacity=%d", report.Stats.Capacity)
			}
			if report.Stats.BytesIn != uint64(cfg.TotalBytes) {
				t.Errorf("stats.bytes_in=%d", report.Stats.BytesIn)
			}
		})
	}
}

func TestRunDuration(t *testing.T) {
	cfg := Config{
		Capacity:  256,
		Producers: 2,
		Consumers: 2,
		WriteSize: 32,
		ReadSize:  64,
		Duration:  100 * time.Millisecond,
		Logger:    quietLogger(),
	}
	start := time.Now()
	report, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run with error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("run took %s", elapsed)
	}
	if !report.Verified {
		t.Error("report not verified")
	}
	if report.BytesProduced == 0 {
		t.Error("nothing produced")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		Capacity:   64,
		Producers:  2,
		Consumers:  1,
		WriteSize:  8,
		ReadSize:   8,
		TotalBytes: 1 << 40,
		Logger:     quietLogger(),
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	var report *Report
	go func() {
		var err error
		report, err = Run(ctx, cfg)
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v", err)
		}
		if report == nil || !report.Verified {
			t.Errorf("canceled run should still account for every byte: %+v", report)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunInvalid(t *testing.T) {
	_, err := Run(context.Background(), Config{Capacity: 4, Producers: 1, Consumers: 1, WriteSize: 4, ReadSize: 4, TotalBytes: 10})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err=%v", err)
	}
}

func TestReportTable(t *testing.T) {
	r := &Report{ID: "abc", Capacity: 1024, Verified: true}
	tbl := r.Table()
	if tbl.Title != "workload abc" {
		t.Errorf("title=%q", tbl.Title)
	}
	if got := tbl.Rows[len(tbl.Rows)-1]; got[0] != "verified" || got[1] != "true" {
		t.Errorf("last row=%v", got)
	}

	list := Reports{r, {ID: "def"}}.Table()
	if len(list.Rows) != 2 || list.Footer != "2 report(s)" {
		t.Errorf("rows=%d, footer=%q", len(list.Rows), list.Footer)
	}
}
