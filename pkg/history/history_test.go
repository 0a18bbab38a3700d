package history_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/haivivi/ringbuf/pkg/buffer"
	"github.com/haivivi/ringbuf/pkg/history"
	"github.com/haivivi/ringbuf/pkg/workload"
)

// newStore creates an in-memory badger Store for testing.
func newStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(history.Options{
		InMemory: true,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func report(id string, started time.Time) *workload.Report {
	return &workload.Report{
		ID:            id,
		Name:          "p",
		StartedAt:     started,
		Elapsed:       1500 * time.Millisecond,
		Capacity:      64,
		BytesProduced: 100,
		BytesConsumed: 96,
		BytesDrained:  4,
		Verified:      true,
		Stats:         buffer.Stats{Capacity: 64, Enqueues: 10, BytesIn: 100},
	}
}

func TestStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Get(ctx, "missing")
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := report("a", time.Unix(1700000000, 123))
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "a" || got.Name != "p" || got.Elapsed != want.Elapsed || !got.Verified {
		t.Errorf("Get = %+v", got)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	if got.Stats != want.Stats {
		t.Errorf("Stats = %+v, want %+v", got.Stats, want.Stats)
	}

	if err := s.Save(ctx, &workload.Report{}); err == nil {
		t.Error("Save without id should fail")
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := time.Unix(1700000000, 0)
	for i, id := range []string{"first", "second", "third"} {
		if err := s.Save(ctx, report(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d reports", len(all))
	}
	for i, want := range []string{"third", "second", "first"} {
		if all[i].ID != want {
			t.Errorf("List[%d] = %s, want %s", i, all[i].ID, want)
		}
	}

	two, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(two) != 2 || two[0].ID != "third" {
		t.Errorf("List(2) = %d reports", len(two))
	}
}

func TestStoreResave(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	r := report("a", time.Unix(100, 0))
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.StartedAt = time.Unix(200, 0)
	r.Name = "renamed"
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "renamed" {
		t.Errorf("List after resave = %d reports", len(all))
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Save(ctx, report("a", time.Unix(100, 0))); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Delete twice: %v", err)
	}
	all, err := s.List(ctx, 0)
	if err != nil || len(all) != 0 {
		t.Errorf("List after delete = %d, %v", len(all), err)
	}
}

func TestStoreWorkloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	r, err := workload.Run(ctx, workload.Config{
		Capacity:   128,
		Producers:  2,
		Consumers:  2,
		WriteSize:  16,
		ReadSize:   32,
		TotalBytes: 4096,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BytesProduced != 4096 || got.Stats.BytesIn != 4096 {
		t.Errorf("stored report = %+v", got)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := history.Open(history.Options{}); err == nil {
		t.Error("Open without dir should fail")
	}
}
