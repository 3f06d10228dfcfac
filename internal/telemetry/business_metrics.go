package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/kinderkit/internal/cart"
	"github.com/dukerupert/kinderkit/internal/notification"
)

// BusinessMetrics holds Prometheus metrics for the cart and notification engines.
// It observes both engines and receives their persistence failures.
type BusinessMetrics struct {
	// Cart
	CartCommands *prometheus.CounterVec
	CartItems    prometheus.Gauge
	CartValue    prometheus.Gauge

	// Orders
	OrdersCreated  prometheus.Counter
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram
	EmptyCheckouts prometheus.Counter

	// Notifications
	NotificationCommands    *prometheus.CounterVec
	NotificationsCreated    *prometheus.CounterVec
	NotificationsSuppressed prometheus.Counter
	NotificationsEvicted    prometheus.Counter
	NotificationsUnread     prometheus.Gauge
	NotificationsRetained   prometheus.Gauge

	// Persistence
	PersistenceFailures *prometheus.CounterVec
}

var (
	_ cart.Observer         = (*BusinessMetrics)(nil)
	_ notification.Observer = (*BusinessMetrics)(nil)
)

// NewBusinessMetrics creates the metrics and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "kinderkit"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Cart
		// =======================================================================
		CartCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_commands_total",
				Help:      "Total cart commands dispatched",
			},
			[]string{"command", "result"}, // result: applied, rejected
		),
		CartItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items",
				Help:      "Units currently in the active cart",
			},
		),
		CartValue: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_cents",
				Help:      "Value of the active cart in cents",
			},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders created at checkout",
			},
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_cents",
				Help:      "Order value distribution in cents",
				Buckets:   []float64{500, 1000, 2500, 5000, 7500, 10000, 15000, 25000, 50000},
			},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of units per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 15, 20},
			},
		),
		EmptyCheckouts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_empty_cart_total",
				Help:      "Total checkouts rejected because the cart was empty",
			},
		),

		// =======================================================================
		// Notifications
		// =======================================================================
		NotificationCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notification_commands_total",
				Help:      "Total notification commands dispatched",
			},
			[]string{"command"},
		),
		NotificationsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_created_total",
				Help:      "Total notifications stored",
			},
			[]string{"type"},
		),
		NotificationsSuppressed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_suppressed_total",
				Help:      "Total notifications dropped while the gate was closed",
			},
		),
		NotificationsEvicted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_evicted_total",
				Help:      "Total notifications evicted by the history cap",
			},
		),
		NotificationsUnread: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_unread",
				Help:      "Unread notifications in the log",
			},
		),
		NotificationsRetained: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_retained",
				Help:      "Notifications currently retained in the log",
			},
		),

		// =======================================================================
		// Persistence
		// =======================================================================
		PersistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "persistence_failures_total",
				Help:      "Total failed reads and writes of engine state",
			},
			[]string{"key", "op"}, // op: read, write
		),
	}
}

// SeedCart sets the cart gauges from a rehydrated state.
func (m *BusinessMetrics) SeedCart(s cart.State) {
	m.CartItems.Set(float64(s.TotalItems()))
	m.CartValue.Set(cents(s.TotalPrice()))
}

// SeedNotifications sets the notification gauges from a rehydrated state.
func (m *BusinessMetrics) SeedNotifications(s notification.State) {
	m.NotificationsUnread.Set(float64(s.UnreadCount()))
	m.NotificationsRetained.Set(float64(len(s.Notifications)))
}

// CartDispatched records one cart dispatch.
func (m *BusinessMetrics) CartDispatched(cmd cart.Command, next cart.State, err error) {
	if err != nil {
		m.CartCommands.WithLabelValues(cmd.Name(), "rejected").Inc()
		if _, ok := cmd.(cart.Checkout); ok {
			m.EmptyCheckouts.Inc()
		}
		return
	}

	m.CartCommands.WithLabelValues(cmd.Name(), "applied").Inc()
	m.SeedCart(next)

	if _, ok := cmd.(cart.Checkout); ok && len(next.Orders) > 0 {
		order := next.Orders[len(next.Orders)-1]
		m.OrdersCreated.Inc()
		m.OrderValue.Observe(cents(order.TotalPrice))
		m.OrderItemCount.Observe(float64(order.ItemCount()))
	}
}

// NotificationDispatched records one notification dispatch.
func (m *BusinessMetrics) NotificationDispatched(cmd notification.Command, next notification.State, outcome notification.Outcome) {
	m.NotificationCommands.WithLabelValues(cmd.Name()).Inc()

	if add, ok := cmd.(notification.Add); ok {
		if outcome.Added {
			m.NotificationsCreated.WithLabelValues(string(add.Payload.Type)).Inc()
		}
		if outcome.Suppressed {
			m.NotificationsSuppressed.Inc()
		}
	}
	if outcome.Evicted > 0 {
		m.NotificationsEvicted.Add(float64(outcome.Evicted))
	}

	m.SeedNotifications(next)
}

// PersistenceFailed counts a failed read or write and forwards it to Sentry.
func (m *BusinessMetrics) PersistenceFailed(key, op string, err error) {
	m.PersistenceFailures.WithLabelValues(key, op).Inc()
	CaptureError(err, map[string]interface{}{
		"storage_key": key,
		"storage_op":  op,
	})
}

func cents(d decimal.Decimal) float64 {
	return d.Shift(2).Round(0).InexactFloat64()
}
