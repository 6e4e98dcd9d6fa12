package internal

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/consent/pkg/cookie"
	"github.com/dmitrymomot/consent/pkg/gtag"
	"github.com/dmitrymomot/consent/pkg/localstore"
	"github.com/dmitrymomot/consent/pkg/record"
	"github.com/dmitrymomot/consent/pkg/region"
)

// Translator resolves text keys such as "banner.accept" for a locale.
type Translator interface {
	Translate(locale, key string) string
	Languages() []string
}

// Option configures the Controller.
type Option func(*Controller)

// WithExpirationDays sets how long a decision stays valid.
// Values outside [30, 730] are clamped silently.
// Defaults to 365.
func WithExpirationDays(days int) Option {
	return func(c *Controller) {
		c.expirationDays = record.ClampDays(days)
	}
}

// WithLocale sets the display locale.
// Unsupported locales fall back to the translator's default language.
// Defaults to the locale detected from LC_ALL, LC_MESSAGES or LANG.
func WithLocale(locale string) Option {
	return func(c *Controller) {
		c.locale = locale
	}
}

// WithRegion sets the visitor's region code (ISO 3166-1 alpha-2).
func WithRegion(code string) Option {
	return func(c *Controller) {
		c.region = code
	}
}

// WithGeoError records that region detection failed. The strictest notice is used.
func WithGeoError(err error) Option {
	return func(c *Controller) {
		c.geoErr = err
	}
}

// WithRegionPolicy overrides the region to notice mapping.
func WithRegionPolicy(p region.Policy) Option {
	return func(c *Controller) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithSignalMode sets when the default consent signal is announced.
// Defaults to gtag.ModeImmediateDefault.
func WithSignalMode(m gtag.Mode) Option {
	return func(c *Controller) {
		c.signalMode = m
	}
}

// WithSignalSink sets the consent signal sink.
// Defaults to an in-memory gtag.DataLayer created on first use.
func WithSignalSink(s gtag.Sink) Option {
	return func(c *Controller) {
		c.sink = s
	}
}

// WithWaitForUpdate sets the wait_for_update value of the default announcement.
// Defaults to 500ms.
func WithWaitForUpdate(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.waitForUpdate = d
		}
	}
}

// WithStorage sets where the consent record is persisted.
// Defaults to in-memory storage.
func WithStorage(s localstore.Storage) Option {
	return func(c *Controller) {
		if s != nil {
			c.storage = s
		}
	}
}

// WithCookieJar sets the cookie jar used to purge cookies of withdrawn categories.
// Defaults to an empty in-memory jar.
func WithCookieJar(j cookie.Jar) Option {
	return func(c *Controller) {
		if j != nil {
			c.jar = j
		}
	}
}

// WithCookiePatterns adds cookie name patterns for a category.
func WithCookiePatterns(cat record.Category, patterns ...string) Option {
	return func(c *Controller) {
		if cat.IsOptional() {
			c.patterns[cat] = append(c.patterns[cat], patterns...)
		}
	}
}

// WithTranslator sets the text source.
// Defaults to the embedded English and German tables.
func WithTranslator(t Translator) Option {
	return func(c *Controller) {
		if t != nil {
			c.translator = t
		}
	}
}

// WithListener registers a notification listener.
func WithListener(fn Listener) Option {
	return func(c *Controller) {
		c.events.subscribe(fn)
	}
}

// WithLogger sets the logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source for record timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}
