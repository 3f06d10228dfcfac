package storefront

import (
	"context"
	"net/http"

	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/handler"
	"github.com/dukerupert/kinderkit/internal/notification"
)

// NotificationEngine is the part of the notification engine the handlers use.
type NotificationEngine interface {
	State() notification.State
	Limits() notification.Limits
	AddNotification(ctx context.Context, payload domain.NotificationPayload) (domain.Notification, bool)
	SetNotificationsEnabled(ctx context.Context, enabled bool)
	RemoveNotification(ctx context.Context, id string)
	MarkAsRead(ctx context.Context, id string)
	MarkAllAsRead(ctx context.Context)
	ClearAll(ctx context.Context)
}

// NotificationHandler handles the notification log routes
type NotificationHandler struct {
	engine NotificationEngine
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(engine NotificationEngine) *NotificationHandler {
	return &NotificationHandler{engine: engine}
}

type setEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// List handles GET /notifications?view=recent|all
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	s := h.engine.State()

	var list []domain.Notification
	switch view := r.URL.Query().Get("view"); view {
	case "", "all":
		list = s.All()
	case "recent":
		list = s.Recent(h.engine.Limits().Recent)
	default:
		handler.ErrorResponse(w, r, domain.Invalid("notification.list", "view must be recent or all"))
		return
	}

	handler.JSON(w, http.StatusOK, newNotificationsView(s, list))
}

// Create handles POST /notifications
// A closed gate answers 204 with nothing stored.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "notification.create"

	var payload domain.NotificationPayload
	if err := handler.DecodeJSON(r, op, &payload); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if !payload.Type.Valid() {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "type", "unknown notification type"))
		return
	}
	if payload.Action != nil && (payload.Action.Label == "" || payload.Action.Href == "") {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "action", "label and href are required"))
		return
	}

	n, ok := h.engine.AddNotification(r.Context(), payload)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	handler.JSON(w, http.StatusCreated, n)
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.engine.MarkAsRead(r.Context(), r.PathValue("id"))
	h.List(w, r)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.engine.MarkAllAsRead(r.Context())
	h.List(w, r)
}

// Remove handles DELETE /notifications/{id}
func (h *NotificationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.engine.RemoveNotification(r.Context(), r.PathValue("id"))
	h.List(w, r)
}

// Clear handles DELETE /notifications
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearAll(r.Context())
	h.List(w, r)
}

// SetEnabled handles PUT /notifications/enabled
func (h *NotificationHandler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	var req setEnabledRequest
	if err := handler.DecodeJSON(r, "notification.enabled", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.engine.SetNotificationsEnabled(r.Context(), *req.Enabled)
	h.List(w, r)
}
