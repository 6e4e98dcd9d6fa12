package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/consent"
	"github.com/dmitrymomot/consent/pkg/cookie"
	"github.com/dmitrymomot/consent/pkg/i18n"
	"github.com/dmitrymomot/consent/pkg/localstore"
	"github.com/dmitrymomot/consent/pkg/logger"
)

// consentKey is the context key for the per-request controller.
type consentKey struct{}

// DefaultGeoHeader carries the visitor's country as set by Cloudflare.
const DefaultGeoHeader = "CF-IPCountry"

// ErrGeoUnavailable is handed to the controller when the geo header names
// no real country.
var ErrGeoUnavailable = errors.New("middlewares: visitor region is unavailable")

// unknownRegions are geo header values meaning the lookup failed.
var unknownRegions = map[string]bool{"XX": true, "T1": true}

// ConsentConfig configures the consent middleware.
type ConsentConfig struct {
	Cookies    *cookie.Manager
	Translator consent.Translator
	Logger     *slog.Logger
	GeoHeader  string
	Options    []consent.Option
}

// ConsentOption configures ConsentConfig.
type ConsentOption func(*ConsentConfig)

// WithConsentCookieManager sets the cookie manager used for the record cookie
// and cookie purging. With a secret, the record cookie is signed.
func WithConsentCookieManager(m *cookie.Manager) ConsentOption {
	return func(cfg *ConsentConfig) {
		if m != nil {
			cfg.Cookies = m
		}
	}
}

// WithConsentGeoHeader sets the request header carrying the region code.
func WithConsentGeoHeader(header string) ConsentOption {
	return func(cfg *ConsentConfig) {
		cfg.GeoHeader = header
	}
}

// WithConsentTranslator sets the text source shared by all requests.
func WithConsentTranslator(t consent.Translator) ConsentOption {
	return func(cfg *ConsentConfig) {
		if t != nil {
			cfg.Translator = t
		}
	}
}

// WithConsentLogger sets the controller logger.
func WithConsentLogger(l *slog.Logger) ConsentOption {
	return func(cfg *ConsentConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithConsentOptions adds controller options applied to every request,
// e.g. consent.WithExpirationDays or consent.WithSignalMode.
func WithConsentOptions(opts ...consent.Option) ConsentOption {
	return func(cfg *ConsentConfig) {
		cfg.Options = append(cfg.Options, opts...)
	}
}

// Consent returns middleware that attaches a consent controller to every request.
// The record lives in a cookie, locale comes from Accept-Language and region
// from the geo header. Handlers get the controller with GetConsent.
func Consent(opts ...ConsentOption) func(http.Handler) http.Handler {
	cfg := &ConsentConfig{
		Cookies:   cookie.New(cookie.WithHTTPOnly(false)),
		Logger:    logger.NewNope(),
		GeoHeader: DefaultGeoHeader,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Translator == nil {
		cat, err := i18n.New(i18n.WithEmbedded())
		if err != nil {
			panic("middlewares: failed to load embedded translations: " + err.Error())
		}
		cfg.Translator = cat
	}
	langs := cfg.Translator.Languages()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			controllerOpts := append([]consent.Option{
				consent.WithLogger(cfg.Logger),
				consent.WithTranslator(cfg.Translator),
				consent.WithLocale(i18n.ParseAcceptLanguage(r.Header.Get("Accept-Language"), langs)),
			}, cfg.Options...)
			controllerOpts = append(controllerOpts,
				consent.WithStorage(localstore.NewCookie(cfg.Cookies, w, r)),
				consent.WithCookieJar(cookie.NewHTTPJar(cfg.Cookies, w, r)),
			)

			if cfg.GeoHeader != "" {
				code := strings.ToUpper(strings.TrimSpace(r.Header.Get(cfg.GeoHeader)))
				if unknownRegions[code] {
					controllerOpts = append(controllerOpts, consent.WithGeoError(ErrGeoUnavailable))
				} else {
					controllerOpts = append(controllerOpts, consent.WithRegion(code))
				}
			}

			c := consent.New(controllerOpts...)
			if err := c.Attach(ctx); err != nil {
				cfg.Logger.ErrorContext(ctx, "failed to attach consent controller", slog.String("error", err.Error()))
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, consentKey{}, c)))
		})
	}
}

// GetConsent returns the controller attached by the Consent middleware, or nil.
func GetConsent(ctx context.Context) *consent.Controller {
	if c, ok := ctx.Value(consentKey{}).(*consent.Controller); ok {
		return c
	}
	return nil
}
