package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/consent/pkg/logger"
)

type requestIDKey struct{}

// RequestIDHeader is the response header echoing the request ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds IDs accepted from upstream proxies.
const maxRequestIDLen = 128

// DefaultRequestIDHeaders are checked in order for an upstream ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

type requestIDs struct {
	generate func() string
	headers  []string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDs)

// WithRequestIDHeaders replaces the headers searched for an upstream ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(ids *requestIDs) { ids.headers = headers }
}

// WithRequestIDGenerator replaces uuid.NewString.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(ids *requestIDs) {
		if gen != nil {
			ids.generate = gen
		}
	}
}

// RequestID tags each request with an ID, reusing a well-formed upstream one.
// The ID is echoed in RequestIDHeader and available via GetRequestID.
func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	ids := &requestIDs{generate: uuid.NewString, headers: DefaultRequestIDHeaders}
	for _, opt := range opts {
		opt(ids)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ids.upstream(r)
			if id == "" {
				id = ids.generate()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

func (ids *requestIDs) upstream(r *http.Request) string {
	for _, h := range ids.headers {
		if v := r.Header.Get(h); v != "" && validRequestID(v) {
			return v
		}
	}
	return ""
}

// validRequestID accepts short printable ASCII, so IDs are safe to log and echo.
func validRequestID(s string) bool {
	if len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID RequestID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds "request_id" to log records of tagged requests.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := GetRequestID(ctx)
		return slog.String("request_id", id), id != ""
	}
}
