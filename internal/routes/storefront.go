package routes

import (
	"net/http"

	"github.com/dukerupert/kinderkit/internal/handler"
	"github.com/dukerupert/kinderkit/internal/middleware"
	"github.com/dukerupert/kinderkit/internal/router"
)

// RegisterStorefrontRoutes registers the JSON API the storefront view layer calls.
// Routes that accept a body are size-capped and require a JSON content type.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	body := r.Group(middleware.MaxBodySize(), middleware.RequireJSON)

	// Catalog
	r.Get("/products", deps.ProductHandler.List)
	r.Get("/products/{id}", deps.ProductHandler.Get)

	// Cart
	r.Get("/cart", deps.CartHandler.View)
	r.Delete("/cart", deps.CartHandler.Clear)
	body.Post("/cart/items", deps.CartHandler.Add)
	body.Put("/cart/items/{id}", deps.CartHandler.Update)
	r.Delete("/cart/items/{id}", deps.CartHandler.Remove)
	body.Post("/cart/checkout", deps.CartHandler.Checkout)

	// Order history
	r.Get("/orders", deps.CartHandler.Orders)

	// Notifications
	r.Get("/notifications", deps.NotificationHandler.List)
	body.Post("/notifications", deps.NotificationHandler.Create)
	body.Post("/notifications/read-all", deps.NotificationHandler.MarkAllRead)
	body.Post("/notifications/{id}/read", deps.NotificationHandler.MarkRead)
	body.Put("/notifications/enabled", deps.NotificationHandler.SetEnabled)
	r.Delete("/notifications/{id}", deps.NotificationHandler.Remove)
	r.Delete("/notifications", deps.NotificationHandler.Clear)

	// Unmatched requests still run the global chain, so the CORS middleware
	// answers preflights for every route here.
	r.Unmatched(handler.UnmatchedResponse)
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", deps.HealthHandler)
	r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
}
