package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/kinderkit/internal"
	"github.com/dukerupert/kinderkit/internal/storage"
)

func providers(t *testing.T) map[string]storage.Storage {
	t.Helper()

	local, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	sqlite, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]storage.Storage{
		"local":  local,
		"sqlite": sqlite,
		"memory": storage.NewMemoryStorage(),
	}
}

func TestStorage_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "kinderkit.cart")
			assert.True(t, storage.IsNotFound(err), "empty storage should report not found")

			ok, err := s.Exists(ctx, "kinderkit.cart")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "kinderkit.cart", []byte(`{"items":[]}`)))
			require.NoError(t, s.Put(ctx, "kinderkit.cart", []byte(`{"items":[],"orders":[]}`)))

			got, err := s.Get(ctx, "kinderkit.cart")
			require.NoError(t, err)
			assert.Equal(t, `{"items":[],"orders":[]}`, string(got), "second put replaces the first")

			ok, err = s.Exists(ctx, "kinderkit.cart")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestStorage_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "kinderkit.notifications", []byte(`[]`)))
			require.NoError(t, s.Delete(ctx, "kinderkit.notifications"))
			require.NoError(t, s.Delete(ctx, "kinderkit.notifications"))

			_, err := s.Get(ctx, "kinderkit.notifications")
			assert.True(t, storage.IsNotFound(err))
		})
	}
}

func TestStorage_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()

	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "a", []byte("1")))
			require.NoError(t, s.Put(ctx, "b", []byte("2")))

			a, err := s.Get(ctx, "a")
			require.NoError(t, err)
			b, err := s.Get(ctx, "b")
			require.NoError(t, err)

			assert.Equal(t, "1", string(a))
			assert.Equal(t, "2", string(b))
		})
	}
}

func TestStorage_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()

	for name, s := range providers(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../escape", "nested/key"} {
				err := s.Put(ctx, key, []byte("x"))
				assert.Error(t, err, "key %q should be rejected", key)
			}
		})
	}
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()

	value := []byte("original")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestLocalStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")

	first, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "kinderkit.cart", []byte(`{"items":[]}`)))

	second, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx, "kinderkit.cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "kinderkit.notifications", []byte(`[{"id":"n1"}]`)))
	require.NoError(t, first.Close())

	second, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "kinderkit.notifications")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"n1"}]`, string(got))
}

func TestNewSQLiteStorage_RequiresPath(t *testing.T) {
	_, err := storage.NewSQLiteStorage("  ")
	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     internal.StorageConfig
		wantErr bool
	}{
		{name: "local", cfg: internal.StorageConfig{Provider: "local", Dir: filepath.Join(t.TempDir(), "local")}},
		{name: "default is local", cfg: internal.StorageConfig{Dir: filepath.Join(t.TempDir(), "default")}},
		{name: "sqlite", cfg: internal.StorageConfig{Provider: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "s.db")}},
		{name: "memory", cfg: internal.StorageConfig{Provider: "memory"}},
		{name: "unknown", cfg: internal.StorageConfig{Provider: "r2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := storage.NewStorage(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
