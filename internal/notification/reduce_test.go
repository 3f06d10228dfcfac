package notification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/kinderkit/internal/domain"
)

var (
	epoch  = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	limits = Limits{Recent: 5, History: 50}
)

func add(i int) Add {
	return Add{
		Payload: domain.NotificationPayload{
			Type:  domain.NotificationSaleAlert,
			Title: fmt.Sprintf("n%d", i),
		},
		ID:        fmt.Sprintf("id-%d", i),
		CreatedAt: epoch.Add(time.Duration(i) * time.Second),
	}
}

func apply(s State, l Limits, cmds ...Command) State {
	for _, cmd := range cmds {
		s = Reduce(s, cmd, l)
	}
	return s
}

func ids(ns []domain.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestReduce_Add(t *testing.T) {
	s := apply(EmptyState(), limits, add(1))

	require.Len(t, s.Notifications, 1)
	n := s.Notifications[0]
	assert.Equal(t, "id-1", n.ID)
	assert.False(t, n.Read)
	assert.Equal(t, domain.DefaultIcon(domain.NotificationSaleAlert), n.Icon)
	assert.Equal(t, epoch.Add(time.Second), n.CreatedAt)
}

func TestReduce_AddKeepsExplicitIcon(t *testing.T) {
	cmd := add(1)
	cmd.Payload.Icon = "🎈"
	cmd.Payload.Action = &domain.Action{Label: "Go", Href: "/x"}

	s := apply(EmptyState(), limits, cmd)

	assert.Equal(t, "🎈", s.Notifications[0].Icon)
	require.NotNil(t, s.Notifications[0].Action)
	cmd.Payload.Action.Href = "/changed"
	assert.Equal(t, "/x", s.Notifications[0].Action.Href)
}

func TestReduce_HistoryCap(t *testing.T) {
	tests := []struct {
		name    string
		history int
		inserts int
	}{
		{name: "under cap", history: 50, inserts: 10},
		{name: "exactly at cap", history: 50, inserts: 50},
		{name: "one over cap", history: 50, inserts: 51},
		{name: "far over cap", history: 50, inserts: 137},
		{name: "cap of one", history: 1, inserts: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Limits{Recent: 1, History: tt.history}
			s := EmptyState()
			for i := 1; i <= tt.inserts; i++ {
				s = Reduce(s, add(i), l)
			}

			want := min(tt.inserts, tt.history)
			require.Len(t, s.Notifications, want)

			first := tt.inserts - want + 1
			for j, n := range s.Notifications {
				assert.Equal(t, fmt.Sprintf("id-%d", first+j), n.ID)
			}
		})
	}
}

func TestReduce_GateSuppressesAdds(t *testing.T) {
	s := apply(EmptyState(), limits, add(1), SetEnabled{Enabled: false}, add(2), add(3))
	assert.Equal(t, []string{"id-1"}, ids(s.Notifications))
	assert.False(t, s.Enabled)

	s = apply(s, limits, SetEnabled{Enabled: true})
	assert.Equal(t, []string{"id-1"}, ids(s.Notifications))

	s = apply(s, limits, add(4))
	assert.Equal(t, []string{"id-1", "id-4"}, ids(s.Notifications))
}

func TestReduce_GateAllowsOtherCommands(t *testing.T) {
	s := apply(EmptyState(), limits, add(1), add(2), SetEnabled{Enabled: false},
		MarkRead{ID: "id-1"}, Remove{ID: "id-2"})

	require.Len(t, s.Notifications, 1)
	assert.True(t, s.Notifications[0].Read)
}

func TestReduce_ReadAndRemove(t *testing.T) {
	base := apply(EmptyState(), limits, add(1), add(2), add(3))

	t.Run("mark read is idempotent", func(t *testing.T) {
		s := apply(base, limits, MarkRead{ID: "id-2"}, MarkRead{ID: "id-2"})
		assert.Equal(t, 2, s.UnreadCount())
		assert.True(t, s.Notifications[1].Read)
		assert.Equal(t, 3, base.UnreadCount())
	})

	t.Run("mark all read", func(t *testing.T) {
		s := apply(base, limits, MarkAllRead{}, MarkAllRead{})
		assert.Equal(t, 0, s.UnreadCount())
		assert.Len(t, s.Notifications, 3)
	})

	t.Run("unknown ids are no-ops", func(t *testing.T) {
		s := apply(base, limits, MarkRead{ID: "nope"}, Remove{ID: "nope"})
		assert.Equal(t, base, s)
	})

	t.Run("remove keeps order", func(t *testing.T) {
		s := apply(base, limits, Remove{ID: "id-2"})
		assert.Equal(t, []string{"id-1", "id-3"}, ids(s.Notifications))
	})

	t.Run("clear all keeps the gate", func(t *testing.T) {
		s := apply(base, limits, SetEnabled{Enabled: false}, ClearAll{})
		assert.Empty(t, s.Notifications)
		assert.False(t, s.Enabled)
	})
}

func TestReduce_UnreadCountTracksLog(t *testing.T) {
	cmds := []Command{
		add(1), add(2), MarkRead{ID: "id-1"}, add(3), Remove{ID: "id-3"},
		add(4), MarkRead{ID: "id-4"}, Remove{ID: "id-1"}, add(5), MarkRead{ID: "missing"},
	}

	s := EmptyState()
	for _, cmd := range cmds {
		s = Reduce(s, cmd, limits)

		unread := 0
		for _, n := range s.Notifications {
			if !n.Read {
				unread++
			}
		}
		assert.Equal(t, unread, s.UnreadCount(), cmd.Name())
	}
	assert.Equal(t, 2, s.UnreadCount())
}

func TestReduce_Restore(t *testing.T) {
	stored := domain.Notification{ID: "old", Type: domain.NotificationOrderShipped, Title: "t", Read: true}

	s := apply(State{Notifications: []domain.Notification{}, Enabled: false}, limits,
		Restore{Notification: stored},
		Restore{Notification: stored},
		Restore{Notification: domain.Notification{}},
	)

	require.Len(t, s.Notifications, 1)
	assert.True(t, s.Notifications[0].Read)
	assert.Equal(t, domain.DefaultIcon(domain.NotificationOrderShipped), s.Notifications[0].Icon)
}

func TestState_Recent(t *testing.T) {
	s := EmptyState()
	for i := 1; i <= 8; i++ {
		s = Reduce(s, add(i), limits)
	}

	assert.Equal(t, []string{"id-4", "id-5", "id-6", "id-7", "id-8"}, ids(s.Recent(5)))
	assert.Len(t, s.Recent(20), 8)
	assert.Empty(t, s.Recent(0))
	assert.Len(t, s.All(), 8)
}

func TestLimits_Normalize(t *testing.T) {
	assert.Equal(t, Limits{Recent: DefaultRecent, History: DefaultHistory}, Limits{}.normalize())
	assert.Equal(t, Limits{Recent: 3, History: 3}, Limits{Recent: 10, History: 3}.normalize())
}
