package notification

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/storage"
)

type modelEntry struct {
	id   string
	read bool
}

// logModel is an independent rendition of the log rules used to check the
// engine after random command sequences.
type logModel struct {
	entries []modelEntry
	enabled bool
	history int
}

func (m *logModel) add(id string) {
	if !m.enabled {
		return
	}
	m.entries = append(m.entries, modelEntry{id: id})
	if over := len(m.entries) - m.history; over > 0 {
		m.entries = m.entries[over:]
	}
}

func (m *logModel) remove(id string) {
	for i, e := range m.entries {
		if e.id == id {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			return
		}
	}
}

func (m *logModel) markRead(id string) {
	for i := range m.entries {
		if m.entries[i].id == id {
			m.entries[i].read = true
		}
	}
}

func (m *logModel) unread() int {
	n := 0
	for _, e := range m.entries {
		if !e.read {
			n++
		}
	}
	return n
}

func (m *logModel) pick(rng *rand.Rand) string {
	if len(m.entries) == 0 || rng.Intn(5) == 0 {
		return "missing"
	}
	return m.entries[rng.Intn(len(m.entries))].id
}

func assertMatchesModel(t *testing.T, m *logModel, got []domain.Notification, msgAndArgs ...interface{}) {
	t.Helper()
	require.Len(t, got, len(m.entries), msgAndArgs...)
	for i, e := range m.entries {
		assert.Equal(t, e.id, got[i].ID, msgAndArgs...)
		assert.Equal(t, e.read, got[i].Read, msgAndArgs...)
	}
}

func assertSameLog(t *testing.T, want, got []domain.Notification, msgAndArgs ...interface{}) {
	t.Helper()
	require.Len(t, got, len(want), msgAndArgs...)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID, msgAndArgs...)
		assert.Equal(t, want[i].Type, got[i].Type, msgAndArgs...)
		assert.Equal(t, want[i].Title, got[i].Title, msgAndArgs...)
		assert.Equal(t, want[i].Icon, got[i].Icon, msgAndArgs...)
		assert.Equal(t, want[i].Read, got[i].Read, msgAndArgs...)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), msgAndArgs...)
	}
}

func TestEngine_RandomSequencesMatchModel(t *testing.T) {
	l := Limits{Recent: 3, History: 8}

	for _, seed := range []int64{1, 7, 42, 1234, 20261016} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			ctx := context.Background()
			rng := rand.New(rand.NewSource(seed))
			store := storage.NewMemoryStorage()
			opts := testOptions(l)
			e := NewEngine(ctx, store, opts)
			m := &logModel{enabled: true, history: l.History}
			added := 0

			for step := 0; step < 300; step++ {
				var op string
				switch rng.Intn(8) {
				case 0, 1, 2:
					op = "add"
					n, ok := e.AddNotification(ctx, payload(fmt.Sprintf("step %d", step)))
					require.Equal(t, m.enabled, ok, op)
					if ok {
						added++
						m.add(n.ID)
					}
				case 3:
					id := m.pick(rng)
					op = "remove " + id
					e.RemoveNotification(ctx, id)
					m.remove(id)
				case 4:
					id := m.pick(rng)
					op = "read " + id
					e.MarkAsRead(ctx, id)
					m.markRead(id)
				case 5:
					op = "read all"
					e.MarkAllAsRead(ctx)
					for i := range m.entries {
						m.entries[i].read = true
					}
				case 6:
					op = "clear"
					e.ClearAll(ctx)
					m.entries = nil
				case 7:
					op = "toggle gate"
					m.enabled = !m.enabled
					e.SetNotificationsEnabled(ctx, m.enabled)
				}

				msg := []interface{}{"step %d: %s", step, op}
				assert.Equal(t, m.unread(), e.UnreadCount(), msg...)
				assert.Equal(t, m.enabled, e.Enabled(), msg...)
				assertMatchesModel(t, m, e.AllNotifications(), msg...)

				recent := e.RecentNotifications()
				assert.LessOrEqual(t, len(recent), l.Recent, msg...)

				reopened := NewEngine(ctx, store, testOptions(l))
				assertSameLog(t, e.AllNotifications(), reopened.AllNotifications(), msg...)
				assert.Equal(t, e.UnreadCount(), reopened.UnreadCount(), msg...)
			}
			assert.Positive(t, added)
		})
	}
}
