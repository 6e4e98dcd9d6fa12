package middlewares

import (
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
)

// CSRFHeader is the request header carrying the token.
const CSRFHeader = "X-CSRF-Token"

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	TrustedOrigins []string
	Secure         bool // Served over TLS; also marks the token cookie Secure
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFTrustedOrigins allows cross-origin requests from the given hosts.
func WithCSRFTrustedOrigins(origins ...string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.TrustedOrigins = origins
	}
}

// WithCSRFSecure declares whether the site is served over TLS.
// Plain HTTP requests skip the strict Referer check.
func WithCSRFSecure(secure bool) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Secure = secure
	}
}

// CSRF protects unsafe requests with a double-submit token. authKey must be
// 32 bytes. JSON requests are exempt: browsers cannot send them cross-site
// without a CORS preflight.
func CSRF(authKey []byte, opts ...CSRFOption) func(http.Handler) http.Handler {
	cfg := &CSRFConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	protect := csrf.Protect(authKey,
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFHeader),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if !cfg.Secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token for the request, or "" outside the CSRF middleware.
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}
