package trial

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("paramspace.trial")

// keyPrefix namespaces trial records inside the database.
const keyPrefix = "trial/"

func key(id string) []byte { return []byte(keyPrefix + id) }

// Store persists trials. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	stop   chan struct{}
	done   chan struct{}
}

// Open opens (creating if needed) the store described by cfg and starts
// value-log GC when cfg asks for it.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("Open: path is required for a persistent store: %w", ErrConfig)
	}
	if err := trialValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("Open: %w: %w", ErrConfig, err)
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("Open: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		logger = slog.Default()
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("Open: badger: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stop, s.done = make(chan struct{}), make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	logger.Debug("trial store opened", slog.String("path", cfg.Path), slog.Bool("in_memory", cfg.InMemory))

	return s, nil
}

// Close stops GC and closes the database.
func (s *Store) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration, ratio float64) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// ErrNoRewrite means nothing was worth collecting.
			if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("trial store value log GC failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Put validates and writes t, replacing any trial with the same ID.
func (s *Store) Put(ctx context.Context, t *Trial) (err error) {
	ctx, span := tracer.Start(ctx, "trial.Store.Put", trace.WithAttributes(spanAttrs(t)...))
	defer func() { endSpan(span, err) }()

	if t == nil {
		return fmt.Errorf("Put: nil trial: %w", ErrInvalid)
	}
	if err := trialValidate.Struct(t); err != nil {
		return fmt.Errorf("Put: %w: %w", ErrInvalid, err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("Put %s: %w", t.ID, err)
	}

	err = s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set(key(t.ID), data)
	})
	if err != nil {
		return fmt.Errorf("Put %s: %w", t.ID, err)
	}
	s.logger.Debug("trial stored", slog.String("id", t.ID), slog.String("space", t.Space))

	return nil
}

// Get returns the trial with the given ID.
//
// Errors:
//   - ErrNotFound if there is none.
func (s *Store) Get(ctx context.Context, id string) (t *Trial, err error) {
	ctx, span := tracer.Start(ctx, "trial.Store.Get", trace.WithAttributes(attribute.String("trial.id", id)))
	defer func() { endSpan(span, err) }()

	err = s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("Get %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			t, err = decodeTrial(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// List returns the stored trials, oldest first. A non-empty space keeps only
// that space's trials.
func (s *Store) List(ctx context.Context, space string) (out []*Trial, err error) {
	ctx, span := tracer.Start(ctx, "trial.Store.List", trace.WithAttributes(attribute.String("trial.space", space)))
	defer func() {
		span.SetAttributes(attribute.Int("trial.count", len(out)))
		endSpan(span, err)
	}()

	err = s.view(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var t *Trial
			err := it.Item().Value(func(val []byte) error {
				var derr error
				t, derr = decodeTrial(val)
				return derr
			})
			if err != nil {
				return fmt.Errorf("List: %s: %w", it.Item().Key(), err)
			}
			if space == "" || t.Space == space {
				out = append(out, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b *Trial) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

// Delete removes the trial with the given ID.
//
// Errors:
//   - ErrNotFound if there is none.
func (s *Store) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "trial.Store.Delete", trace.WithAttributes(attribute.String("trial.id", id)))
	defer func() { endSpan(span, err) }()

	return s.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("Delete %s: %w", id, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(key(id))
	})
}

func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func decodeTrial(val []byte) (*Trial, error) {
	var t Trial
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func spanAttrs(t *Trial) []attribute.KeyValue {
	if t == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String("trial.id", t.ID),
		attribute.String("trial.space", t.Space),
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
