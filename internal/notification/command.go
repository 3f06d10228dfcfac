package notification

import (
	"time"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Command is one notification log transition.
type Command interface {
	Name() string
	command()
}

// Add appends a new unread entry built from Payload. Ignored while the gate
// is closed.
type Add struct {
	Payload   domain.NotificationPayload
	ID        string
	CreatedAt time.Time
}

// SetEnabled opens or closes the gate.
type SetEnabled struct {
	Enabled bool
}

// Remove deletes the entry with ID.
type Remove struct {
	ID string
}

// MarkRead flags the entry with ID as read.
type MarkRead struct {
	ID string
}

// MarkAllRead flags every entry as read.
type MarkAllRead struct{}

// ClearAll empties the log.
type ClearAll struct{}

// Restore re-inserts a stored entry through the append path, keeping its
// identity and read flag. The gate does not apply.
type Restore struct {
	Notification domain.Notification
}

func (Add) Name() string         { return "add" }
func (SetEnabled) Name() string  { return "set_enabled" }
func (Remove) Name() string      { return "remove" }
func (MarkRead) Name() string    { return "mark_read" }
func (MarkAllRead) Name() string { return "mark_all_read" }
func (ClearAll) Name() string    { return "clear_all" }
func (Restore) Name() string     { return "restore" }

func (Add) command()         {}
func (SetEnabled) command()  {}
func (Remove) command()      {}
func (MarkRead) command()    {}
func (MarkAllRead) command() {}
func (ClearAll) command()    {}
func (Restore) command()     {}
