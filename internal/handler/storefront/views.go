package storefront

import (
	"time"

	"github.com/dukerupert/kinderkit/internal/cart"
	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/notification"
)

// Prices render as fixed two-place strings.

type lineItemView struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Image    string                 `json:"image,omitempty"`
	Price    string                 `json:"price"`
	OldPrice string                 `json:"oldPrice,omitempty"`
	Category domain.ProductCategory `json:"category,omitempty"`
	Quantity int                    `json:"quantity"`
	Subtotal string                 `json:"subtotal"`
}

type orderView struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	Items       []lineItemView     `json:"items"`
	TotalPrice  string             `json:"totalPrice"`
	Status      domain.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type cartView struct {
	Items      []lineItemView `json:"items"`
	Orders     []orderView    `json:"orders"`
	TotalItems int            `json:"totalItems"`
	TotalPrice string         `json:"totalPrice"`
}

type notificationsView struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
	Enabled       bool                  `json:"enabled"`
}

func newLineItemView(item domain.LineItem) lineItemView {
	v := lineItemView{
		ID:       item.ID,
		Title:    item.Title,
		Image:    item.Image,
		Price:    item.Price.StringFixed(2),
		Category: item.Category,
		Quantity: item.Quantity,
		Subtotal: item.Subtotal().StringFixed(2),
	}
	if item.OldPrice != nil {
		v.OldPrice = item.OldPrice.StringFixed(2)
	}
	return v
}

func newLineItemViews(items []domain.LineItem) []lineItemView {
	views := make([]lineItemView, len(items))
	for i, item := range items {
		views[i] = newLineItemView(item)
	}
	return views
}

func newOrderView(o domain.Order) orderView {
	return orderView{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Items:       newLineItemViews(o.Items),
		TotalPrice:  o.TotalPrice.StringFixed(2),
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}

func newCartView(s cart.State) cartView {
	orders := make([]orderView, len(s.Orders))
	for i, o := range s.Orders {
		orders[i] = newOrderView(o)
	}
	return cartView{
		Items:      newLineItemViews(s.Items),
		Orders:     orders,
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice().StringFixed(2),
	}
}

func newNotificationsView(s notification.State, list []domain.Notification) notificationsView {
	if list == nil {
		list = []domain.Notification{}
	}
	return notificationsView{
		Notifications: list,
		UnreadCount:   s.UnreadCount(),
		Enabled:       s.Enabled,
	}
}
