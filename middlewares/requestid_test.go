package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h := middlewares.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middlewares.GetRequestID(r.Context())
	}))

	t.Run("generates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, "abc-123", seen)
		require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("replaces malformed upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 200))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.NotEmpty(t, seen)
		require.Len(t, seen, 36)
		require.Equal(t, seen, rec.Header().Get(middlewares.RequestIDHeader))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	_, ok := extract(context.Background())
	require.False(t, ok)

	var ctx context.Context
	h := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "fixed" }))(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { ctx = r.Context() }),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	attr, ok := extract(ctx)
	require.True(t, ok)
	require.Equal(t, "request_id", attr.Key)
	require.Equal(t, "fixed", attr.Value.String())
}
