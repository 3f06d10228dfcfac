// Package bridge turns cart events into notifications and order events.
//
// The cart and notification engines never call each other. Callers that
// want the storefront's user-facing feedback go through a Bridge instead.
package bridge

import (
	"context"
	"log/slog"

	"github.com/dukerupert/kinderkit/internal/cart"
	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/telemetry"
)

// Cart is the subset of the cart engine the bridge drives.
type Cart interface {
	AddToCart(ctx context.Context, p domain.Product) cart.State
	TakeFromCart(ctx context.Context, productID string) (cart.State, domain.LineItem, bool)
	ProcessOrder(ctx context.Context) (domain.Order, error)
}

// Notifier is the subset of the notification engine the bridge drives.
type Notifier interface {
	ItemAdded(ctx context.Context, p domain.Product) (domain.Notification, bool)
	ItemRemoved(ctx context.Context, title string) (domain.Notification, bool)
	OrderConfirmed(ctx context.Context, order domain.Order) (domain.Notification, bool)
	DownloadReady(ctx context.Context, title, href string) (domain.Notification, bool)
}

// Bridge coordinates one cart and one notification log.
type Bridge struct {
	cart      Cart
	notifier  Notifier
	publisher Publisher
	logger    *slog.Logger
}

// New creates a Bridge. A nil publisher disables order events.
func New(c Cart, n Notifier, publisher Publisher, logger *slog.Logger) *Bridge {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		cart:      c,
		notifier:  n,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "bridge")),
	}
}

// AddToCart adds one unit of p and announces it.
func (b *Bridge) AddToCart(ctx context.Context, p domain.Product) cart.State {
	s := b.cart.AddToCart(ctx, p)
	b.notifier.ItemAdded(ctx, p)
	return s
}

// RemoveFromCart removes the product and announces it. Removing an absent
// product produces no notification.
func (b *Bridge) RemoveFromCart(ctx context.Context, productID string) cart.State {
	s, item, ok := b.cart.TakeFromCart(ctx, productID)
	if ok {
		b.notifier.ItemRemoved(ctx, item.Title)
	}
	return s
}

// Checkout places an order from the active cart. On success it emits an
// order confirmation, one download notice per digital line item and an
// order event. Event publishing failures are logged; the order stands.
func (b *Bridge) Checkout(ctx context.Context) (domain.Order, error) {
	order, err := b.cart.ProcessOrder(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	telemetry.AddBreadcrumb("checkout", "order placed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})

	b.notifier.OrderConfirmed(ctx, order)
	for _, item := range order.Items {
		if isDigital(item) {
			b.notifier.DownloadReady(ctx, item.Title, "/downloads/"+item.ID)
		}
	}

	if err := b.publisher.PublishOrderConfirmed(ctx, order); err != nil {
		b.logger.Error("failed to publish order event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

func isDigital(item domain.LineItem) bool {
	return domain.Product{Category: item.Category}.IsDigital()
}
