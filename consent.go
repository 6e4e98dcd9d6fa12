package consent

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/consent/internal"
	"github.com/dmitrymomot/consent/pkg/cookie"
	"github.com/dmitrymomot/consent/pkg/gtag"
	"github.com/dmitrymomot/consent/pkg/localstore"
	"github.com/dmitrymomot/consent/pkg/record"
	"github.com/dmitrymomot/consent/pkg/region"
)

// Type aliases - public API
type (
	// Controller runs the consent lifecycle for one visitor.
	Controller = internal.Controller

	// Option configures the controller.
	Option = internal.Option

	// State is the in-memory consent state.
	State = internal.State

	// Phase is the decision state: uninitialized, prompting or decided.
	Phase = internal.Phase

	// Action is an input of the state reducer.
	Action = internal.Action

	// ActionKind identifies a transition.
	ActionKind = internal.ActionKind

	// Event is a notification emitted to the host.
	Event = internal.Event

	// Listener receives notifications.
	Listener = internal.Listener

	// ConsentChanged is emitted after accept, reject or save.
	ConsentChanged = internal.ConsentChanged

	// SettingsRequested is emitted when settings are opened.
	SettingsRequested = internal.SettingsRequested

	// CategoryChanged is emitted on every category toggle.
	CategoryChanged = internal.CategoryChanged

	// Translator resolves text keys for a locale.
	Translator = internal.Translator

	// CookiePatterns maps categories to cookie name substrings.
	CookiePatterns = internal.CookiePatterns

	// Category is one of essential, functional, analytics, marketing.
	Category = record.Category

	// Categories holds the per-category flags.
	Categories = record.Categories

	// Record is the persisted decision.
	Record = record.Record

	// SignalMode selects when the default consent signal is announced.
	SignalMode = gtag.Mode

	// SignalStatus is the external consent signal state.
	SignalStatus = gtag.Status

	// Notice is the regional disclosure variant.
	Notice = region.Notice
)

// Categories.
const (
	Essential  = record.Essential
	Functional = record.Functional
	Analytics  = record.Analytics
	Marketing  = record.Marketing
)

// Phases.
const (
	PhaseUninitialized = internal.PhaseUninitialized
	PhasePrompting     = internal.PhasePrompting
	PhaseDecided       = internal.PhaseDecided
)

// Signal modes.
const (
	ModeImmediateDefault = gtag.ModeImmediateDefault
	ModeDeferred         = gtag.ModeDeferred
)

// Notification names.
const (
	EventConsentGiven      = internal.EventConsentGiven
	EventSettingsRequested = internal.EventSettingsRequested
	EventCategoryChanged   = internal.EventCategoryChanged
)

// Errors
var (
	ErrNotAttached       = internal.ErrNotAttached
	ErrAlreadyAttached   = internal.ErrAlreadyAttached
	ErrInvalidTransition = internal.ErrInvalidTransition
	ErrUnknownCategory   = internal.ErrUnknownCategory
)

// Constructors

// New creates a consent controller. Call Attach before any other operation.
//
// Example:
//
//	c := consent.New(
//	    consent.WithStorage(store),
//	    consent.WithRegion("DE"),
//	    consent.WithExpirationDays(180),
//	)
//	if err := c.Attach(ctx); err != nil {
//	    return err
//	}
//	if c.ShouldShowBanner() {
//	    // render the prompt
//	}
func New(opts ...Option) *Controller {
	return internal.New(opts...)
}

// Reduce applies an action to a state without side effects.
func Reduce(s State, a Action) (State, error) {
	return internal.Reduce(s, a)
}

// ParseCategory validates an external category name.
func ParseCategory(s string) (Category, error) {
	return record.ParseCategory(s)
}

// ParseSignalMode validates a signal mode name.
func ParseSignalMode(s string) (SignalMode, error) {
	return gtag.ParseMode(s)
}

// DefaultCookiePatterns returns the built-in tracker cookie patterns.
func DefaultCookiePatterns() CookiePatterns {
	return internal.DefaultCookiePatterns()
}

// Options

// WithExpirationDays sets how long a decision stays valid.
// Values outside [30, 730] are clamped silently. Defaults to 365.
func WithExpirationDays(days int) Option {
	return internal.WithExpirationDays(days)
}

// WithLocale sets the display locale. Defaults to the environment locale, then "en".
func WithLocale(locale string) Option {
	return internal.WithLocale(locale)
}

// WithRegion sets the visitor's region code.
func WithRegion(code string) Option {
	return internal.WithRegion(code)
}

// WithGeoError records a failed region lookup; the strictest notice is used.
func WithGeoError(err error) Option {
	return internal.WithGeoError(err)
}

// WithRegionPolicy overrides the region to notice mapping.
func WithRegionPolicy(p region.Policy) Option {
	return internal.WithRegionPolicy(p)
}

// WithSignalMode sets when the default consent signal is announced.
func WithSignalMode(m SignalMode) Option {
	return internal.WithSignalMode(m)
}

// WithSignalSink sets the consent signal sink.
func WithSignalSink(s gtag.Sink) Option {
	return internal.WithSignalSink(s)
}

// WithWaitForUpdate sets the wait_for_update value of the default announcement.
func WithWaitForUpdate(d time.Duration) Option {
	return internal.WithWaitForUpdate(d)
}

// WithStorage sets where the consent record is persisted.
func WithStorage(s localstore.Storage) Option {
	return internal.WithStorage(s)
}

// WithCookieJar sets the jar used to purge cookies of withdrawn categories.
func WithCookieJar(j cookie.Jar) Option {
	return internal.WithCookieJar(j)
}

// WithCookiePatterns adds cookie name patterns for an optional category.
func WithCookiePatterns(cat Category, patterns ...string) Option {
	return internal.WithCookiePatterns(cat, patterns...)
}

// WithTranslator sets the text source.
func WithTranslator(t Translator) Option {
	return internal.WithTranslator(t)
}

// WithListener registers a notification listener.
func WithListener(fn Listener) Option {
	return internal.WithListener(fn)
}

// WithLogger sets the logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return internal.WithClock(now)
}
