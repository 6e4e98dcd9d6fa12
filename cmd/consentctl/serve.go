package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/consent"
	"github.com/dmitrymomot/consent/middlewares"
	"github.com/dmitrymomot/consent/pkg/cookie"
	"github.com/dmitrymomot/consent/pkg/health"
	"github.com/dmitrymomot/consent/pkg/i18n"
	"github.com/dmitrymomot/consent/pkg/metrics"
	"github.com/dmitrymomot/consent/pkg/sanitizer"
)

const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// settingsRequest is the body of POST /consent/settings. Omitted
// categories keep their current value.
type settingsRequest struct {
	Functional *bool `json:"functional"`
	Analytics  *bool `json:"analytics"`
	Marketing  *bool `json:"marketing"`
}

func (r settingsRequest) each(fn func(consent.Category, bool) error) error {
	for cat, v := range map[consent.Category]*bool{
		consent.Functional: r.Functional,
		consent.Analytics:  r.Analytics,
		consent.Marketing:  r.Marketing,
	} {
		if v == nil {
			continue
		}
		if err := fn(cat, *v); err != nil {
			return err
		}
	}
	return nil
}

// router builds the HTTP API. Each request gets its own controller backed
// by the visitor's consent cookie. Texts are sanitized since hosts render
// them as HTML.
func (a *app) router() (http.Handler, error) {
	catalog, err := a.catalog(i18n.WithSanitizer(sanitizer.BannerHTML))
	if err != nil {
		return nil, err
	}

	mode, err := consent.ParseSignalMode(a.cfg.SignalMode)
	if err != nil {
		return nil, err
	}

	cookies := cookie.New(
		cookie.WithHTTPOnly(false),
		cookie.WithSecret(a.cfg.CookieSecret),
		cookie.WithDomain(a.cfg.CookieDomain),
		cookie.WithSecure(a.cfg.CookieSecure),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(a.log)),
	)

	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
		"catalog": health.CatalogCheck(catalog, "banner.title"),
	}, health.WithLogger(a.log)))

	r.Route("/consent", func(r chi.Router) {
		if key := a.cfg.CSRFKey; key != "" {
			if len(key) != 32 {
				a.log.Warn("CONSENT_CSRF_KEY must be 32 bytes, CSRF protection disabled")
			} else {
				r.Use(middlewares.CSRF([]byte(key), middlewares.WithCSRFSecure(a.cfg.CookieSecure)))
			}
		}
		r.Use(middlewares.Consent(
			middlewares.WithConsentCookieManager(cookies),
			middlewares.WithConsentTranslator(catalog),
			middlewares.WithConsentLogger(a.log),
			middlewares.WithConsentOptions(
				consent.WithExpirationDays(a.cfg.ExpirationDays),
				consent.WithSignalMode(mode),
				consent.WithWaitForUpdate(a.cfg.WaitForUpdate),
				consent.WithListener(m.Listener()),
			),
		))

		r.Get("/", a.handle(func(*http.Request, *consent.Controller) error { return nil }))
		r.Post("/accept", a.handle(func(r *http.Request, c *consent.Controller) error {
			return c.AcceptAll(r.Context())
		}))
		r.Post("/reject", a.handle(func(r *http.Request, c *consent.Controller) error {
			return c.RejectAll(r.Context())
		}))
		r.Post("/reset", a.handle(func(r *http.Request, c *consent.Controller) error {
			return c.Reset(r.Context())
		}))
		r.Post("/settings", a.handle(func(r *http.Request, c *consent.Controller) error {
			var req settingsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return errBadRequest
			}
			ctx := r.Context()
			if err := c.OpenSettings(ctx); err != nil {
				return err
			}
			if err := req.each(func(cat consent.Category, v bool) error {
				return c.SetCategory(ctx, cat, v)
			}); err != nil {
				return err
			}
			return c.SaveSettings(ctx)
		}))
		r.Get("/datalayer", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, middlewares.GetConsent(r.Context()).Sink())
		})
	})

	return r, nil
}

var errBadRequest = errors.New("consentctl: malformed request body")

// handle runs fn against the request's controller and answers with its view.
func (a *app) handle(fn func(*http.Request, *consent.Controller) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := middlewares.GetConsent(r.Context())
		if c == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err := fn(r, c); err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, consent.ErrInvalidTransition):
				status = http.StatusConflict
			case errors.Is(err, consent.ErrUnknownCategory), errors.Is(err, errBadRequest):
				status = http.StatusBadRequest
			default:
				a.log.ErrorContext(r.Context(), "consent request failed", slog.String("error", err.Error()))
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		if token := middlewares.CSRFToken(r); token != "" {
			w.Header().Set(middlewares.CSRFHeader, token)
		}
		writeJSON(w, http.StatusOK, newView(c))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func (a *app) serve(ctx context.Context) error {
	handler, err := a.router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
