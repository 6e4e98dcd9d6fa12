package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/consent/pkg/cookie"
	"github.com/dmitrymomot/consent/pkg/gtag"
	"github.com/dmitrymomot/consent/pkg/i18n"
	"github.com/dmitrymomot/consent/pkg/localstore"
	"github.com/dmitrymomot/consent/pkg/logger"
	"github.com/dmitrymomot/consent/pkg/record"
	"github.com/dmitrymomot/consent/pkg/region"
)

// Controller runs the consent lifecycle for one visitor: it restores the
// stored decision, applies user actions, persists them and mirrors them into
// the signal sink.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	storage    localstore.Storage
	jar        cookie.Jar
	sink       gtag.Sink
	translator Translator
	policy     region.Policy
	geoErr     error
	logger     *slog.Logger
	now        func() time.Time
	store      *record.Store
	adapter    *gtag.Adapter
	patterns   CookiePatterns
	events     emitter

	// enabled holds every category enabled since the last decision, the
	// baseline for cookie purging.
	enabled record.Categories

	id            string
	locale        string
	region        string
	signalMode    gtag.Mode
	notice        region.Notice
	state         State
	waitForUpdate time.Duration

	expirationDays int
}

// New creates a controller. Call Attach before any other operation.
func New(opts ...Option) *Controller {
	c := &Controller{
		id:             uuid.NewString(),
		storage:        localstore.NewMemory(),
		policy:         region.DefaultPolicy{},
		logger:         logger.NewNope(),
		now:            time.Now,
		patterns:       DefaultCookiePatterns(),
		signalMode:     gtag.ModeImmediateDefault,
		waitForUpdate:  gtag.DefaultWaitForUpdate,
		expirationDays: record.DefaultExpirationDays,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With(slog.String("consent_id", c.id))
	c.events.logger = c.logger

	if c.translator == nil {
		c.translator = defaultTranslator(c.logger)
	}
	if c.jar == nil {
		c.jar = cookie.NewMemoryJar("")
	}

	langs := c.translator.Languages()
	if c.locale == "" {
		c.locale = i18n.DetectEnv(langs)
	} else {
		c.locale = i18n.Match([]string{c.locale}, langs)
	}
	c.notice = c.policy.Notice(c.region, c.geoErr)

	c.store = record.NewStore(c.storage,
		record.WithExpirationDays(c.expirationDays),
		record.WithClock(c.now),
		record.WithLogger(c.logger),
	)

	adapterOpts := []gtag.AdapterOption{
		gtag.WithMode(c.signalMode),
		gtag.WithWaitForUpdate(c.waitForUpdate),
		gtag.WithLogger(c.logger),
		gtag.WithClock(c.now),
	}
	if c.sink != nil {
		adapterOpts = append(adapterOpts, gtag.WithSink(c.sink))
	}
	c.adapter = gtag.NewAdapter(adapterOpts...)

	return c
}

var _ Translator = (*i18n.Catalog)(nil)

func defaultTranslator(l *slog.Logger) Translator {
	cat, err := i18n.New(i18n.WithEmbedded())
	if err != nil {
		l.Error("failed to load embedded translations", slog.String("error", err.Error()))
		cat, _ = i18n.New()
	}
	return cat
}

// Attach initializes the controller from the stored record. In
// immediate-default mode the default signal is announced first.
// A restored decision is re-sent to the signal sink.
func (c *Controller) Attach(ctx context.Context) error {
	if c.state.Phase != PhaseUninitialized {
		return ErrAlreadyAttached
	}

	c.adapter.Init(ctx)

	rec := c.store.Read(ctx)
	next, err := Reduce(c.state, Action{Kind: ActionInitialize, Record: rec})
	if err != nil {
		return err
	}
	c.state = next
	c.enabled = next.Committed

	if next.Phase == PhaseDecided {
		c.adapter.Apply(ctx, next.Categories)
	}

	c.logger.DebugContext(ctx, "consent controller attached",
		slog.String("phase", next.Phase.String()),
		slog.String("locale", c.locale),
		slog.String("notice", string(c.notice)),
	)
	return nil
}

// AcceptAll grants every category.
func (c *Controller) AcceptAll(ctx context.Context) error {
	next, err := Reduce(c.state, Action{Kind: ActionAcceptAll})
	if err != nil {
		return err
	}
	c.commit(ctx, next, false)
	return nil
}

// RejectAll denies every optional category.
func (c *Controller) RejectAll(ctx context.Context) error {
	next, err := Reduce(c.state, Action{Kind: ActionRejectAll})
	if err != nil {
		return err
	}
	c.commit(ctx, next, false)
	return nil
}

// OpenSettings opens the settings dialog.
func (c *Controller) OpenSettings(ctx context.Context) error {
	next, err := Reduce(c.state, Action{Kind: ActionOpenSettings})
	if err != nil {
		return err
	}
	c.state = next
	c.events.emit(ctx, SettingsRequested{})
	return nil
}

// CloseSettings closes the settings dialog and drops unsaved toggles.
func (c *Controller) CloseSettings(ctx context.Context) error {
	next, err := Reduce(c.state, Action{Kind: ActionCloseSettings})
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// ToggleCategory flips an optional category in the open settings dialog.
// Toggling essential is a no-op.
func (c *Controller) ToggleCategory(ctx context.Context, cat record.Category) error {
	next, err := Reduce(c.state, Action{Kind: ActionToggleCategory, Category: cat})
	if err != nil {
		return err
	}
	if cat == record.Essential {
		return nil
	}
	c.state = next
	if next.Categories.Enabled(cat) {
		c.enabled = c.enabled.With(cat, true)
	}
	c.events.emit(ctx, CategoryChanged{Category: cat, Enabled: next.Categories.Enabled(cat)})
	return nil
}

// SetCategory sets an optional category in the open settings dialog to v.
// It toggles only when the value differs.
func (c *Controller) SetCategory(ctx context.Context, cat record.Category, v bool) error {
	if cat.IsValid() && c.state.Categories.Enabled(cat) == v && c.state.SettingsOpen {
		return nil
	}
	return c.ToggleCategory(ctx, cat)
}

// SaveSettings commits the categories chosen in the settings dialog.
// Cookies of categories that lose consent are purged first.
func (c *Controller) SaveSettings(ctx context.Context) error {
	prev := c.state
	next, err := Reduce(prev, Action{Kind: ActionSaveSettings})
	if err != nil {
		return err
	}

	c.purge(ctx, prev)
	c.commit(ctx, next, true)
	return nil
}

// Reset forgets the decision and shows the prompt again. No event is emitted.
func (c *Controller) Reset(ctx context.Context) error {
	next, err := Reduce(c.state, Action{Kind: ActionReset})
	if err != nil {
		return err
	}
	c.store.Clear(ctx)
	c.state = next
	c.enabled = next.Committed
	c.logger.InfoContext(ctx, "consent reset")
	return nil
}

// commit persists a decision, signals it and notifies listeners.
func (c *Controller) commit(ctx context.Context, next State, withCategories bool) {
	cats := next.Committed
	c.store.Write(ctx, record.New(c.now(), next.NonEssentialAllowed, &cats))
	c.state = next
	c.enabled = cats
	c.adapter.Apply(ctx, cats)

	ev := ConsentChanged{Accepted: next.NonEssentialAllowed}
	if withCategories {
		ev.Categories = &cats
	}
	c.events.emit(ctx, ev)

	c.logger.InfoContext(ctx, "consent decision recorded",
		slog.Bool("accepted", next.NonEssentialAllowed),
		slog.Any("categories", cats.Map()),
	)
}

// purge expires cookies of every optional category that was enabled since the
// last decision and is disabled by the save.
func (c *Controller) purge(ctx context.Context, prev State) {
	disabled := prev.Categories.Disabled(c.enabled)
	if len(disabled) == 0 {
		return
	}

	if removed := cookie.Purge(c.jar, c.patterns.For(disabled...)); len(removed) > 0 {
		c.logger.InfoContext(ctx, "removed cookies of withdrawn categories",
			slog.Any("categories", disabled),
			slog.Any("cookies", removed),
		)
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	return c.events.subscribe(fn)
}

// ID returns the controller instance id used in logs.
func (c *Controller) ID() string { return c.id }

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// ShouldShowBanner reports whether the consent prompt should be rendered.
func (c *Controller) ShouldShowBanner() bool { return c.state.ShowBanner }

// SettingsOpen reports whether the settings dialog is open.
func (c *Controller) SettingsOpen() bool { return c.state.SettingsOpen }

// ConsentGiven reports whether a decision exists.
func (c *Controller) ConsentGiven() bool { return c.state.ConsentGiven }

// NonEssentialAllowed reports whether the last decision enabled any optional
// category. False while undecided.
func (c *Controller) NonEssentialAllowed() bool { return c.state.NonEssentialAllowed }

// CategoryEnabled reports whether cat is currently enabled.
func (c *Controller) CategoryEnabled(cat record.Category) bool {
	return c.state.Categories.Enabled(cat)
}

// Categories returns the current category flags.
func (c *Controller) Categories() record.Categories { return c.state.Categories }

// SignalStatus returns the consent signal state last sent to the sink.
func (c *Controller) SignalStatus() gtag.Status { return c.adapter.Status() }

// Sink returns the signal sink, creating the default one if needed.
func (c *Controller) Sink() gtag.Sink { return c.adapter.Sink() }

// ExpirationDays returns the effective (clamped) expiration window.
func (c *Controller) ExpirationDays() int { return c.store.ExpirationDays() }

// Locale returns the resolved display locale.
func (c *Controller) Locale() string { return c.locale }

// Notice returns the regional notice variant.
func (c *Controller) Notice() region.Notice { return c.notice }

// T returns the text for key in the resolved locale.
func (c *Controller) T(key string) string {
	return c.translator.Translate(c.locale, key)
}

// Description returns the notice text for the visitor's region.
func (c *Controller) Description() string {
	return c.T(c.notice.DescriptionKey())
}
