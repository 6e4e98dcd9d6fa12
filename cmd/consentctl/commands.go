package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/dmitrymomot/consent"
	"github.com/dmitrymomot/consent/pkg/health"
	"github.com/dmitrymomot/consent/pkg/i18n"
	"github.com/dmitrymomot/consent/pkg/localstore"
)

// ErrUnknownCommand is returned for an unrecognized subcommand.
var ErrUnknownCommand = errors.New("consentctl: unknown command")

const usage = `Usage: consentctl [flags] <command>

Commands:
  status   print the stored decision and the banner state
  accept   accept all optional categories
  reject   reject all optional categories
  save     save --functional, --analytics and --marketing as the decision
  reset    withdraw the stored decision
  signal   print the consent signal data layer
  check    probe the profile storage and the translation catalog
  serve    run the consent HTTP API

Flags:
`

// app holds what every command needs.
type app struct {
	cfg   *Config
	log   *slog.Logger
	flags *pflag.FlagSet
	out   io.Writer
}

// view is the JSON rendering of a controller.
type view struct {
	ID                  string               `json:"id"`
	Phase               string               `json:"phase"`
	Locale              string               `json:"locale"`
	Notice              consent.Notice       `json:"notice"`
	Banner              *banner              `json:"banner,omitempty"`
	Categories          consent.Categories   `json:"categories"`
	Signal              consent.SignalStatus `json:"signal"`
	ExpirationDays      int                  `json:"expiration_days"`
	ShowBanner          bool                 `json:"show_banner"`
	SettingsOpen        bool                 `json:"settings_open"`
	ConsentGiven        bool                 `json:"consent_given"`
	NonEssentialAllowed bool                 `json:"non_essential_allowed"`
}

type banner struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Accept      string `json:"accept"`
	Reject      string `json:"reject"`
	Settings    string `json:"settings"`
}

func newView(c *consent.Controller) view {
	v := view{
		ID:                  c.ID(),
		Phase:               c.State().Phase.String(),
		Locale:              c.Locale(),
		Notice:              c.Notice(),
		Categories:          c.Categories(),
		Signal:              c.SignalStatus(),
		ExpirationDays:      c.ExpirationDays(),
		ShowBanner:          c.ShouldShowBanner(),
		SettingsOpen:        c.SettingsOpen(),
		ConsentGiven:        c.ConsentGiven(),
		NonEssentialAllowed: c.NonEssentialAllowed(),
	}
	if v.ShowBanner {
		v.Banner = &banner{
			Title:       c.T("banner.title"),
			Description: c.Description(),
			Accept:      c.T("banner.accept"),
			Reject:      c.T("banner.reject"),
			Settings:    c.T("banner.settings"),
		}
	}
	return v
}

// run dispatches args[0].
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return nil
	}

	switch cmd := args[0]; cmd {
	case "serve":
		return a.serve(ctx)
	case "check":
		return a.check(ctx)
	case "status", "accept", "reject", "save", "reset", "signal":
		c, err := a.controller(ctx)
		if err != nil {
			return err
		}
		return a.apply(ctx, c, cmd)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *app) printUsage() {
	fmt.Fprint(a.out, usage)
	a.flags.SetOutput(a.out)
	a.flags.PrintDefaults()
}

// catalog loads the bundled texts and the optional translations directory.
// Extra options apply after loading.
func (a *app) catalog(opts ...i18n.Option) (*i18n.Catalog, error) {
	all := []i18n.Option{i18n.WithEmbedded()}
	if a.cfg.Translations != "" {
		all = append(all, i18n.WithYAMLDir(os.DirFS(a.cfg.Translations)))
	}
	return i18n.New(append(all, opts...)...)
}

// controller builds and attaches a controller over the profile directory.
func (a *app) controller(ctx context.Context) (*consent.Controller, error) {
	store, err := localstore.NewFile(a.cfg.ProfileDir)
	if err != nil {
		return nil, err
	}

	mode, err := consent.ParseSignalMode(a.cfg.SignalMode)
	if err != nil {
		return nil, err
	}

	catalog, err := a.catalog()
	if err != nil {
		return nil, err
	}

	c := consent.New(
		consent.WithStorage(store),
		consent.WithTranslator(catalog),
		consent.WithExpirationDays(a.cfg.ExpirationDays),
		consent.WithSignalMode(mode),
		consent.WithWaitForUpdate(a.cfg.WaitForUpdate),
		consent.WithLocale(a.cfg.Locale),
		consent.WithRegion(a.cfg.Region),
		consent.WithLogger(a.log),
	)
	if err := c.Attach(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *app) apply(ctx context.Context, c *consent.Controller, cmd string) error {
	var err error
	switch cmd {
	case "accept":
		err = c.AcceptAll(ctx)
	case "reject":
		err = c.RejectAll(ctx)
	case "reset":
		err = c.Reset(ctx)
	case "save":
		err = a.save(ctx, c)
	case "signal":
		return a.writeJSON(c.Sink())
	}
	if errors.Is(err, consent.ErrInvalidTransition) {
		return fmt.Errorf("%w: a decision is already stored, run reset first", err)
	}
	if err != nil {
		return err
	}
	return a.writeJSON(newView(c))
}

// save opens the settings, applies the category flags given on the
// command line and saves them. Flags left unset keep their current value.
func (a *app) save(ctx context.Context, c *consent.Controller) error {
	if err := c.OpenSettings(ctx); err != nil {
		return err
	}
	for _, cat := range []consent.Category{consent.Functional, consent.Analytics, consent.Marketing} {
		f := a.flags.Lookup(cat.String())
		if f == nil || !f.Changed {
			continue
		}
		enabled, err := a.flags.GetBool(cat.String())
		if err != nil {
			return err
		}
		if err := c.SetCategory(ctx, cat, enabled); err != nil {
			return err
		}
	}
	return c.SaveSettings(ctx)
}

func (a *app) check(ctx context.Context) error {
	store, err := localstore.NewFile(a.cfg.ProfileDir)
	if err != nil {
		return err
	}
	catalog, err := a.catalog()
	if err != nil {
		return err
	}

	resp := health.Run(ctx, health.Checks{
		"storage": health.StorageCheck(store),
		"catalog": health.CatalogCheck(catalog, "banner.title"),
	}, health.WithLogger(a.log))
	if err := a.writeJSON(resp); err != nil {
		return err
	}
	if !resp.Healthy() {
		return health.ErrCheckFailed
	}
	return nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
