package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Publisher announces placed orders to other processes.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, order domain.Order) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishOrderConfirmed(context.Context, domain.Order) error { return nil }

// OrderConfirmedEvent is the wire form of an order event.
type OrderConfirmedEvent struct {
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	TotalPrice  string            `json:"total_price"`
	ItemCount   int               `json:"item_count"`
	Items       []domain.LineItem `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewOrderConfirmedEvent builds the event for order.
func NewOrderConfirmedEvent(order domain.Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalPrice:  order.TotalPrice.StringFixed(2),
		ItemCount:   order.ItemCount(),
		Items:       order.Items,
		CreatedAt:   order.CreatedAt,
	}
}

// NATSPublisher publishes order events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url and publishes on subject.
func NewNATSPublisher(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("kinderkit-storefront"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishOrderConfirmed encodes order and publishes it.
func (p *NATSPublisher) PublishOrderConfirmed(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewOrderConfirmedEvent(order))
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
