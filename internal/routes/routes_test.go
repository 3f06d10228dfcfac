package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/kinderkit/internal/bridge"
	"github.com/dukerupert/kinderkit/internal/cart"
	"github.com/dukerupert/kinderkit/internal/catalog"
	"github.com/dukerupert/kinderkit/internal/handler/storefront"
	"github.com/dukerupert/kinderkit/internal/middleware"
	"github.com/dukerupert/kinderkit/internal/notification"
	"github.com/dukerupert/kinderkit/internal/router"
	"github.com/dukerupert/kinderkit/internal/storage"
)

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStorage()
	reg := prometheus.NewRegistry()

	c := cart.NewEngine(ctx, store, cart.Options{Logger: logger})
	n := notification.NewEngine(ctx, store, notification.Options{Logger: logger})
	cat := catalog.NewMemory(catalog.SeedProducts())

	r := router.New(
		middleware.RequestID,
		router.CORS([]string{"http://localhost:5173"}),
		middleware.NewMetrics("test", reg).Middleware,
	)
	RegisterStorefrontRoutes(r, StorefrontDeps{
		CartHandler:         storefront.NewCartHandler(c, bridge.New(c, n, nil, logger), cat),
		NotificationHandler: storefront.NewNotificationHandler(n),
		ProductHandler:      storefront.NewProductHandler(cat),
	})
	RegisterOpsRoutes(r, OpsDeps{
		HealthHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return r
}

func TestRoutes_Storefront(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"product_id":"bk-001"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/checkout", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRoutes_RejectsFormPosts(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader("product_id=bk-001"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_BodyLimit(t *testing.T) {
	r := newTestRouter(t)

	big := `{"type":"sale_alert","title":"` + strings.Repeat("x", 2*middleware.DefaultMaxBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/notifications", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRoutes_Preflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/cart/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_UnmatchedAnswersWithJSON(t *testing.T) {
	r := newTestRouter(t)

	type envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode := func(rec *httptest.ResponseRecorder) envelope {
		var env envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		return env
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wishlist", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "not_found", decode(rec).Error.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/cart", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodDelete)
	assert.Equal(t, "method_not_allowed", decode(rec).Error.Code)
}

func TestRoutes_OpsAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",path="/cart",status="200"} 1`)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wishlist", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}
