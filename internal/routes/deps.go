package routes

import (
	"net/http"

	"github.com/dukerupert/kinderkit/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for the storefront JSON API
type StorefrontDeps struct {
	// Cart and order history
	CartHandler *storefront.CartHandler

	// Notification log
	NotificationHandler *storefront.NotificationHandler

	// Read-only catalog
	ProductHandler *storefront.ProductHandler
}

// OpsDeps contains dependencies for health and metrics routes
type OpsDeps struct {
	HealthHandler  http.HandlerFunc
	MetricsHandler http.Handler
}
