package storage

//go:generate mockgen -destination=mocks/storage.go -package=mocks github.com/dukerupert/kinderkit/internal/storage Storage

import (
	"context"

	"github.com/dukerupert/kinderkit/internal"
)

// Storage is the durable local key space the state engines persist into.
// Each engine owns its keys; nothing else writes to them.
type Storage interface {
	// Get returns the stored bytes for key.
	// Returns ErrRecordNotFound if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Returns nil if the key doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Exists checks if a value is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases the underlying resources.
	Close() error
}

// NewStorage creates a Storage implementation based on configuration.
func NewStorage(cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.Dir)
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLitePath)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// validateKey rejects keys that could escape the key space of a provider.
func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey(key)
	}
	for _, r := range key {
		if r == '/' || r == '\\' || r == 0 {
			return ErrInvalidKey(key)
		}
	}
	if key == "." || key == ".." {
		return ErrInvalidKey(key)
	}
	return nil
}
