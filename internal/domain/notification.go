package domain

import "time"

// NotificationType classifies a notification and selects its icon and template.
type NotificationType string

const (
	NotificationCartReminder   NotificationType = "cart_reminder"
	NotificationItemAdded      NotificationType = "item_added"
	NotificationItemRemoved    NotificationType = "item_removed"
	NotificationOrderConfirmed NotificationType = "order_confirmed"
	NotificationOrderShipped   NotificationType = "order_shipped"
	NotificationDownloadReady  NotificationType = "download_ready"
	NotificationPaymentIssue   NotificationType = "payment_issue"
	NotificationSupportReply   NotificationType = "support_reply"
	NotificationProductUpdate  NotificationType = "product_update"
	NotificationLowStock       NotificationType = "low_stock"
	NotificationSaleAlert      NotificationType = "sale_alert"
)

// NotificationTypes lists every known type in display order.
var NotificationTypes = []NotificationType{
	NotificationCartReminder,
	NotificationItemAdded,
	NotificationItemRemoved,
	NotificationOrderConfirmed,
	NotificationOrderShipped,
	NotificationDownloadReady,
	NotificationPaymentIssue,
	NotificationSupportReply,
	NotificationProductUpdate,
	NotificationLowStock,
	NotificationSaleAlert,
}

var defaultIcons = map[NotificationType]string{
	NotificationCartReminder:   "🛒",
	NotificationItemAdded:      "✅",
	NotificationItemRemoved:    "🗑️",
	NotificationOrderConfirmed: "🎉",
	NotificationOrderShipped:   "🚚",
	NotificationDownloadReady:  "📥",
	NotificationPaymentIssue:   "⚠️",
	NotificationSupportReply:   "💬",
	NotificationProductUpdate:  "✨",
	NotificationLowStock:       "⏳",
	NotificationSaleAlert:      "🏷️",
}

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	_, ok := defaultIcons[t]
	return ok
}

// DefaultIcon returns the icon used when a producer does not set one.
func DefaultIcon(t NotificationType) string {
	if icon, ok := defaultIcons[t]; ok {
		return icon
	}
	return "🔔"
}

// Action is an optional navigable target attached to a notification.
type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// NotificationPayload is what producers hand to the notification engine.
// The engine assigns ID, CreatedAt and Read.
type NotificationPayload struct {
	Type    NotificationType `json:"type" validate:"required"`
	Title   string           `json:"title" validate:"required,max=200"`
	Message string           `json:"message" validate:"max=1000"`
	Icon    string           `json:"icon,omitempty"`
	Action  *Action          `json:"action,omitempty"`
}

// Notification is one entry of the notification log.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Icon      string           `json:"icon"`
	Action    *Action          `json:"action,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
}

// Clone returns a copy that shares no pointers with n.
func (n Notification) Clone() Notification {
	if n.Action != nil {
		action := *n.Action
		n.Action = &action
	}
	return n
}
