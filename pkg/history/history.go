// Package history persists workload reports in BadgerDB.
//
// Reports are msgpack-encoded and keyed by start time so that listing
// returns them in chronological order without decoding every value.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/ringbuf/pkg/workload"
)

// ErrNotFound is returned when no report has the requested ID.
var ErrNotFound = errors.New("history: not found")

// Store is a report store backed by BadgerDB v4.
type Store struct {
	db *badger.DB
}

// Options configures the store.
type Options struct {
	// Dir is the directory for BadgerDB data files.
	// Required unless InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode (no disk persistence).
	InMemory bool

	// Logger receives badger warnings and errors. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Open opens (or creates) a report store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("history: Options.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(slogLogger{logger})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores a report. Saving a report with an existing ID replaces it.
func (s *Store) Save(_ context.Context, r *workload.Report) error {
	if r.ID == "" {
		return errors.New("history: report has no id")
	}
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("history: encode report %s: %w", r.ID, err)
	}
	key := reportKey(r.StartedAt.UnixNano(), r.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if old, err := txn.Get(idKey(r.ID)); err == nil {
			prev, err := old.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := txn.Delete(prev); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(idKey(r.ID), key)
	})
}

// Get returns the report with the given ID.
func (s *Store) Get(_ context.Context, id string) (*workload.Report, error) {
	var r workload.Report
	err := s.db.View(func(txn *badger.Txn) error {
		ref, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		key, err := ref.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("history: report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get report %s: %w", id, err)
	}
	return &r, nil
}

// List returns up to limit reports, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) (workload.Reports, error) {
	var out workload.Reports
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = reportPrefix
		iterOpts.Reverse = true
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		seek := append(append([]byte{}, reportPrefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(reportPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r workload.Report
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &r)
			})
			if err != nil {
				slog.Warn("history: skip malformed report", "key", string(it.Item().Key()), "error", err)
				continue
			}
			out = append(out, &r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return out, nil
}

// Delete removes the report with the given ID.
func (s *Store) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		ref, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		key, err := ref.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(idKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("history: report %s: %w", id, ErrNotFound)
	}
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// slogLogger adapts slog to badger, dropping debug and info messages.
type slogLogger struct {
	log *slog.Logger
}

func (l slogLogger) Errorf(f string, v ...any) {
	l.log.Error(fmt.Sprintf("badger: "+f, v...))
}

func (l slogLogger) Warningf(f string, v ...any) {
	l.log.Warn(fmt.Sprintf("badger: "+f, v...))
}

func (slogLogger) Infof(string, ...any)  {}
func (slogLogger) Debugf(string, ...any) {}
