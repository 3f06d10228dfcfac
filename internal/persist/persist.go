// Package persist mirrors engine state into durable local storage.
//
// Every engine owns one Record under a private key. Records are written
// through after each dispatch and read once at startup. A record that
// cannot be decoded is reported and discarded; the engine starts empty.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/storage"
)

// Storage keys owned by the engines.
const (
	CartKey          = "kinderkit.cart"
	NotificationsKey = "kinderkit.notifications"
)

// Reporter receives non-fatal persistence failures (metrics, error tracking).
type Reporter interface {
	PersistenceFailed(key, op string, err error)
}

// NopReporter discards failure reports.
type NopReporter struct{}

func (NopReporter) PersistenceFailed(string, string, error) {}

// Record is a JSON document of type T stored under one key.
type Record[T any] struct {
	store storage.Storage
	key   string
}

// NewRecord binds a record to key in store.
func NewRecord[T any](store storage.Storage, key string) *Record[T] {
	return &Record[T]{store: store, key: key}
}

// Key returns the storage key of the record.
func (r *Record[T]) Key() string {
	return r.key
}

// Load reads and decodes the record. found is false when nothing is stored.
// An undecodable blob yields a *domain.PersistenceReadError.
func (r *Record[T]) Load(ctx context.Context) (value T, found bool, err error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if storage.IsNotFound(err) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("failed to read %s: %w", r.key, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, false, &domain.PersistenceReadError{Key: r.key, Err: err}
	}

	return value, true, nil
}

// Save encodes value and replaces the stored record.
func (r *Record[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.key, err)
	}

	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.key, err)
	}

	return nil
}

// Rehydrate loads the record and hands the decoded value to replay.
// Nothing is replayed when the record is missing or unreadable; failures are
// logged and reported, never returned.
func Rehydrate[T any](ctx context.Context, rec *Record[T], logger *slog.Logger, reporter Reporter, replay func(T)) {
	value, found, err := rec.Load(ctx)
	if err != nil {
		logger.Warn("discarding stored state",
			slog.String("key", rec.Key()),
			slog.Bool("corrupt", domain.IsPersistenceReadError(err)),
			slog.String("error", err.Error()),
		)
		reporter.PersistenceFailed(rec.Key(), "read", err)
		return
	}
	if !found {
		logger.Debug("no stored state", slog.String("key", rec.Key()))
		return
	}

	replay(value)
}

// WriteThrough saves value, logging and reporting a failure instead of
// returning it. The in-memory state stays authoritative.
func WriteThrough[T any](ctx context.Context, rec *Record[T], logger *slog.Logger, reporter Reporter, value T) {
	if err := rec.Save(ctx, value); err != nil {
		logger.Error("failed to persist state",
			slog.String("key", rec.Key()),
			slog.String("error", err.Error()),
		)
		reporter.PersistenceFailed(rec.Key(), "write", err)
	}
}
