package notification

import (
	"context"
	"fmt"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Typed producers. Each one fixes the type, copy and action for a domain
// event and hands the payload to AddNotification.

// ItemAdded confirms that one unit of p went into the cart.
func (e *Engine) ItemAdded(ctx context.Context, p domain.Product) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationItemAdded,
		Title:   "Added to cart",
		Message: fmt.Sprintf("%s is in your cart.", p.Title),
		Action:  &domain.Action{Label: "View cart", Href: "/cart"},
	})
}

// ItemRemoved confirms that the product titled title left the cart.
func (e *Engine) ItemRemoved(ctx context.Context, title string) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationItemRemoved,
		Title:   "Removed from cart",
		Message: fmt.Sprintf("%s was removed from your cart.", title),
	})
}

// CartReminder nudges the shopper about count items waiting at checkout.
func (e *Engine) CartReminder(ctx context.Context, count int) (domain.Notification, bool) {
	noun := "items"
	if count == 1 {
		noun = "item"
	}
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationCartReminder,
		Title:   "Still thinking it over?",
		Message: fmt.Sprintf("You have %d %s waiting in your cart.", count, noun),
		Action:  &domain.Action{Label: "Checkout", Href: "/checkout"},
	})
}

// OrderConfirmed announces a freshly placed order.
func (e *Engine) OrderConfirmed(ctx context.Context, order domain.Order) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:  domain.NotificationOrderConfirmed,
		Title: "Order confirmed",
		Message: fmt.Sprintf("Order %s (%d items, $%s) is being processed.",
			order.OrderNumber, order.ItemCount(), order.TotalPrice.StringFixed(2)),
		Action: &domain.Action{Label: "View orders", Href: "/orders"},
	})
}

// OrderShipped reports that the order is in transit.
func (e *Engine) OrderShipped(ctx context.Context, orderNumber string) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationOrderShipped,
		Title:   "Order shipped",
		Message: fmt.Sprintf("Order %s is on its way.", orderNumber),
		Action:  &domain.Action{Label: "Track order", Href: "/orders"},
	})
}

// DownloadReady points at a purchased digital product. An empty href falls
// back to the downloads page.
func (e *Engine) DownloadReady(ctx context.Context, title, href string) (domain.Notification, bool) {
	if href == "" {
		href = "/downloads"
	}
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationDownloadReady,
		Title:   "Download ready",
		Message: fmt.Sprintf("%s is ready to download.", title),
		Action:  &domain.Action{Label: "Download", Href: href},
	})
}

// PaymentIssue asks the shopper to fix payment for the order.
func (e *Engine) PaymentIssue(ctx context.Context, orderNumber string) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationPaymentIssue,
		Title:   "Payment problem",
		Message: fmt.Sprintf("We could not process payment for order %s.", orderNumber),
		Action:  &domain.Action{Label: "Update payment", Href: "/account/billing"},
	})
}

// SupportReply points at a new support answer on subject.
func (e *Engine) SupportReply(ctx context.Context, subject string) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationSupportReply,
		Title:   "New reply from support",
		Message: fmt.Sprintf("Re: %s", subject),
		Action:  &domain.Action{Label: "Read reply", Href: "/support"},
	})
}

// ProductUpdate announces new content for an owned product.
func (e *Engine) ProductUpdate(ctx context.Context, title string) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationProductUpdate,
		Title:   "Product updated",
		Message: fmt.Sprintf("%s has new content.", title),
	})
}

// LowStock warns that only remaining units of title are left.
func (e *Engine) LowStock(ctx context.Context, title string, remaining int) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationLowStock,
		Title:   "Almost gone",
		Message: fmt.Sprintf("Only %d left of %s.", remaining, title),
	})
}

// SaleAlert advertises a percent discount on title.
func (e *Engine) SaleAlert(ctx context.Context, title string, percent int) (domain.Notification, bool) {
	return e.AddNotification(ctx, domain.NotificationPayload{
		Type:    domain.NotificationSaleAlert,
		Title:   "Sale",
		Message: fmt.Sprintf("%s is %d%% off.", title, percent),
		Action:  &domain.Action{Label: "Shop now", Href: "/catalog"},
	})
}
