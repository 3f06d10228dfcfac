// Package notification holds the bounded notification log.
//
// The log is one chronologically ordered slice capped at Limits.History.
// The recent and full views are projections over that slice. New entries
// are only created while the enable gate is open.
package notification

import (
	"github.com/dukerupert/kinderkit/internal/domain"
)

// Default caps used when Limits fields are not positive.
const (
	DefaultRecent  = 5
	DefaultHistory = 50
)

// Limits bounds the log and the recent window.
type Limits struct {
	Recent  int
	History int
}

func (l Limits) normalize() Limits {
	if l.History <= 0 {
		l.History = DefaultHistory
	}
	if l.Recent <= 0 {
		l.Recent = DefaultRecent
	}
	if l.Recent > l.History {
		l.Recent = l.History
	}
	return l
}

// State is the notification log plus the enable gate. Only Notifications is
// persisted; the gate is session state.
type State struct {
	Notifications []domain.Notification
	Enabled       bool
}

// EmptyState returns an empty log with the gate open.
func EmptyState() State {
	return State{Notifications: []domain.Notification{}, Enabled: true}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Notifications: make([]domain.Notification, len(s.Notifications)),
		Enabled:       s.Enabled,
	}
	for i, n := range s.Notifications {
		out.Notifications[i] = n.Clone()
	}
	return out
}

// UnreadCount is the number of entries not yet read.
func (s State) UnreadCount() int {
	n := 0
	for _, item := range s.Notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// Recent returns the last n entries in chronological order.
func (s State) Recent(n int) []domain.Notification {
	if n < 0 {
		n = 0
	}
	start := len(s.Notifications) - n
	if start < 0 {
		start = 0
	}
	return cloneAll(s.Notifications[start:])
}

// All returns every retained entry in chronological order.
func (s State) All() []domain.Notification {
	return cloneAll(s.Notifications)
}

func (s State) indexOf(id string) int {
	for i, n := range s.Notifications {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []domain.Notification) []domain.Notification {
	out := make([]domain.Notification, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}
