package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/persist"
	"github.com/dukerupert/kinderkit/internal/storage"
)

// Outcome summarizes what a dispatch did to the log.
type Outcome struct {
	Added      bool
	Suppressed bool
	Evicted    int
}

// Observer is told about every dispatch.
type Observer interface {
	NotificationDispatched(cmd Command, next State, outcome Outcome)
}

// Options configures an Engine. Zero values select production defaults.
type Options struct {
	Logger   *slog.Logger
	Reporter persist.Reporter
	Observer Observer
	Limits   Limits
	Clock    func() time.Time
	NewID    func() (string, error)
}

// Engine is the injectable notification state container.
type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	state    State
	limits   Limits
	record   *persist.Record[[]domain.Notification]
	subs     map[int]func(State)
	nextSub  int

	logger   *slog.Logger
	reporter persist.Reporter
	observer Observer
	clock    func() time.Time
	newID    func() (string, error)
}

// NewEngine creates a notification engine backed by store. The stored log is
// replayed through Reduce so the current history cap applies.
func NewEngine(ctx context.Context, store storage.Storage, opts Options) *Engine {
	e := &Engine{
		state:    EmptyState(),
		limits:   opts.Limits.normalize(),
		record:   persist.NewRecord[[]domain.Notification](store, persist.NotificationsKey),
		subs:     make(map[int]func(State)),
		logger:   opts.Logger,
		reporter: opts.Reporter,
		observer: opts.Observer,
		clock:    opts.Clock,
		newID:    opts.NewID,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With(slog.String("engine", "notification"))
	if e.reporter == nil {
		e.reporter = persist.NopReporter{}
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.newID == nil {
		e.newID = NewID
	}

	persist.Rehydrate(ctx, e.record, e.logger, e.reporter, func(stored []domain.Notification) {
		state := EmptyState()
		for _, n := range stored {
			state = Reduce(state, Restore{Notification: n}, e.limits)
		}
		e.state = state
		e.logger.Info("notifications rehydrated",
			slog.Int("stored", len(stored)),
			slog.Int("kept", len(state.Notifications)),
		)
	})

	return e
}

// NewID returns a time-derived unique notification identifier.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Limits returns the caps the engine was built with.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Dispatch applies cmd, writes the log through to storage when it changed and
// notifies subscribers in dispatch order.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) State {
	e.mu.Lock()

	prev := e.state
	next := Reduce(prev, cmd, e.limits)
	e.state = next

	outcome := Outcome{}
	if _, ok := cmd.(Add); ok {
		outcome.Suppressed = !prev.Enabled
		outcome.Added = prev.Enabled
		if outcome.Added {
			outcome.Evicted = len(prev.Notifications) + 1 - len(next.Notifications)
		}
	}

	if logChanged(cmd, outcome) {
		persist.WriteThrough(context.WithoutCancel(ctx), e.record, e.logger, e.reporter, next.Notifications)
	}

	e.notifyMu.Lock()
	subs := e.subscribers()
	e.mu.Unlock()
	defer e.notifyMu.Unlock()

	if e.observer != nil {
		e.observer.NotificationDispatched(cmd, next, outcome)
	}
	for _, fn := range subs {
		fn(next.Clone())
	}

	return next.Clone()
}

func logChanged(cmd Command, outcome Outcome) bool {
	switch cmd.(type) {
	case SetEnabled:
		return false
	case Add:
		return outcome.Added
	}
	return true
}

// Subscribe registers fn to receive the state after every dispatch.
// fn must not dispatch into this engine. The returned func unsubscribes.
func (e *Engine) Subscribe(fn func(State)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) subscribers() []func(State) {
	out := make([]func(State), 0, len(e.subs))
	for i := 0; i < e.nextSub; i++ {
		if fn, ok := e.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// AddNotification stores a new unread entry built from payload. It returns
// false without touching the log when the gate is closed.
func (e *Engine) AddNotification(ctx context.Context, payload domain.NotificationPayload) (domain.Notification, bool) {
	id, err := e.newID()
	if err != nil {
		e.logger.Error("failed to generate notification id", slog.String("error", err.Error()))
		return domain.Notification{}, false
	}

	s := e.Dispatch(ctx, Add{Payload: payload, ID: id, CreatedAt: e.clock().UTC()})
	if !s.Enabled {
		return domain.Notification{}, false
	}

	i := s.indexOf(id)
	if i < 0 {
		return domain.Notification{}, false
	}
	return s.Notifications[i], true
}

// SetNotificationsEnabled opens or closes the gate. Stored entries are kept.
func (e *Engine) SetNotificationsEnabled(ctx context.Context, enabled bool) {
	e.Dispatch(ctx, SetEnabled{Enabled: enabled})
}

// RemoveNotification deletes the entry with id if present.
func (e *Engine) RemoveNotification(ctx context.Context, id string) {
	e.Dispatch(ctx, Remove{ID: id})
}

// MarkAsRead flags the entry with id as read.
func (e *Engine) MarkAsRead(ctx context.Context, id string) {
	e.Dispatch(ctx, MarkRead{ID: id})
}

// MarkAllAsRead flags every entry as read.
func (e *Engine) MarkAllAsRead(ctx context.Context) {
	e.Dispatch(ctx, MarkAllRead{})
}

// ClearAll empties the log.
func (e *Engine) ClearAll(ctx context.Context) {
	e.Dispatch(ctx, ClearAll{})
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Enabled reports whether new notifications are accepted.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Enabled
}

// UnreadCount is recomputed from the log on every call.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.UnreadCount()
}

// RecentNotifications returns the newest Limits.Recent entries, oldest first.
func (e *Engine) RecentNotifications() []domain.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Recent(e.limits.Recent)
}

// AllNotifications returns the full retained log, oldest first.
func (e *Engine) AllNotifications() []domain.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.All()
}
