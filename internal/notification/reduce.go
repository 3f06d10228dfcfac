package notification

import (
	"fmt"
	"slices"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Reduce applies cmd to s under limits. It never mutates s and never fails.
func Reduce(s State, cmd Command, limits Limits) State {
	limits = limits.normalize()

	switch c := cmd.(type) {
	case Add:
		if !s.Enabled {
			return s
		}
		icon := c.Payload.Icon
		if icon == "" {
			icon = domain.DefaultIcon(c.Payload.Type)
		}
		n := domain.Notification{
			ID:        c.ID,
			Type:      c.Payload.Type,
			Title:     c.Payload.Title,
			Message:   c.Payload.Message,
			Icon:      icon,
			CreatedAt: c.CreatedAt,
		}
		if c.Payload.Action != nil {
			action := *c.Payload.Action
			n.Action = &action
		}
		return appendCapped(s, n, limits.History)

	case SetEnabled:
		return State{Notifications: s.Notifications, Enabled: c.Enabled}

	case Remove:
		i := s.indexOf(c.ID)
		if i < 0 {
			return s
		}
		return State{
			Notifications: slices.Delete(slices.Clone(s.Notifications), i, i+1),
			Enabled:       s.Enabled,
		}

	case MarkRead:
		i := s.indexOf(c.ID)
		if i < 0 || s.Notifications[i].Read {
			return s
		}
		log := slices.Clone(s.Notifications)
		log[i].Read = true
		return State{Notifications: log, Enabled: s.Enabled}

	case MarkAllRead:
		log := slices.Clone(s.Notifications)
		for i := range log {
			log[i].Read = true
		}
		return State{Notifications: log, Enabled: s.Enabled}

	case ClearAll:
		return State{Notifications: []domain.Notification{}, Enabled: s.Enabled}

	case Restore:
		n := c.Notification.Clone()
		if n.ID == "" || s.indexOf(n.ID) >= 0 {
			return s
		}
		if n.Icon == "" {
			n.Icon = domain.DefaultIcon(n.Type)
		}
		return appendCapped(s, n, limits.History)

	default:
		panic(fmt.Sprintf("notification: unknown command %T", cmd))
	}
}

// appendCapped is the single insertion path. It drops the oldest entries
// once the log exceeds history.
func appendCapped(s State, n domain.Notification, history int) State {
	log := make([]domain.Notification, 0, len(s.Notifications)+1)
	log = append(log, s.Notifications...)
	log = append(log, n)
	if over := len(log) - history; over > 0 {
		log = log[over:]
	}
	return State{Notifications: log, Enabled: s.Enabled}
}
