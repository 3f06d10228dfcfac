package middleware

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
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/kinderkit/internal/domain"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"missing header", "", false},
		{"valid header", "abc-123_x.y", true},
		{"too long", strings.Repeat("a", 65), false},
		{"bad characters", "abc\n123", false},
		{"spaces", "abc 123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestWithRequestLogger(t *testing.T) {
	var buf strings.Builder
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestID(WithRequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetLogger(r.Context()).Info("inside")
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/cart/items", entry["path"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "unmatched", entry["route"])
}

func TestWithRequestLogger_MatchedRoute(t *testing.T) {
	var buf strings.Builder
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.Handle("DELETE /cart/items/{id}", WithRequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetLogger(r.Context()).Info("inside")
	})))
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/cart/items/bk-001", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "/cart/items/{id}", entry["route"])
	assert.Equal(t, "/cart/items/bk-001", entry["path"])
	assert.NotContains(t, entry, "request_id")
}

func TestGetLogger_Fallback(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, fallback, GetLogger(context.Background(), fallback))
	assert.Same(t, slog.Default(), GetLogger(context.Background()))

	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ContextWithLogger(context.Background(), scoped)
	assert.Same(t, scoped, GetLogger(ctx, fallback))
}

func TestMaxBodySize(t *testing.T) {
	h := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("small body passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("declared length rejected up front", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domain.ETOOLARGE, body["error"]["code"])
	})

	t.Run("undeclared length capped while reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestRequireJSON(t *testing.T) {
	h := RequireJSON(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"no body", "", "", http.StatusOK},
		{"json", "{}", "application/json", http.StatusOK},
		{"json with charset", "{}", "application/json; charset=utf-8", http.StatusOK},
		{"form", "a=b", "application/x-www-form-urlencoded", http.StatusBadRequest},
		{"body without type", "{}", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	mux := http.NewServeMux()
	mux.Handle("DELETE /api/cart/items/{id}", m.Middleware(http.HandlerFunc(okHandler)))

	for _, id := range []string{"a", "b", "c"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/cart/items/"+id, nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requestsTotal.WithLabelValues("DELETE", "/api/cart/items/{id}", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.requestsInFlight))
}

func TestMetrics_Unmatched(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		domain.EINVALID:  http.StatusBadRequest,
		domain.ENOTFOUND: http.StatusNotFound,
		domain.EMETHOD:   http.StatusMethodNotAllowed,
		domain.ECONFLICT: http.StatusConflict,
		domain.ETOOLARGE: http.StatusRequestEntityTooLarge,
		domain.ENOTIMPL:  http.StatusNotImplemented,
		domain.EUNAVAIL:  http.StatusServiceUnavailable,
		domain.EINTERNAL: http.StatusInternalServerError,
		"unknown":        http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, errorCodeToHTTPStatus(code), code)
	}
}
