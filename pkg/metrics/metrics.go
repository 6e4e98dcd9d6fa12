// Package metrics exports Prometheus counters for consent decisions.
// Counters carry no visitor data, only outcomes and category names.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/consent"
	"github.com/dmitrymomot/consent/pkg/record"
)

// Decision sources.
const (
	SourceBanner   = "banner"
	SourceSettings = "settings"
)

// Metrics holds the consent counters.
type Metrics struct {
	// Decisions by source (banner, settings) and accepted flag.
	Decisions *prometheus.CounterVec

	// Optional categories granted by a decision.
	CategoryGrants *prometheus.CounterVec

	// Category toggles in the settings dialog.
	CategoryToggles *prometheus.CounterVec

	SettingsOpened prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_decisions_total",
			Help: "Consent decisions by source and outcome",
		}, []string{"source", "accepted"}),

		CategoryGrants: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_category_grants_total",
			Help: "Optional categories granted by a decision",
		}, []string{"category"}),

		CategoryToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_category_toggles_total",
			Help: "Category toggles in the settings dialog",
		}, []string{"category", "enabled"}),

		SettingsOpened: f.NewCounter(prometheus.CounterOpts{
			Name: "consent_settings_opened_total",
			Help: "Times the settings dialog was opened",
		}),
	}
}

// Listener returns a consent listener that feeds the counters.
func (m *Metrics) Listener() consent.Listener {
	return func(_ context.Context, ev consent.Event) {
		if m == nil {
			return
		}
		switch e := ev.(type) {
		case consent.ConsentChanged:
			m.observeDecision(e)
		case consent.SettingsRequested:
			m.SettingsOpened.Inc()
		case consent.CategoryChanged:
			m.CategoryToggles.WithLabelValues(e.Category.String(), strconv.FormatBool(e.Enabled)).Inc()
		}
	}
}

func (m *Metrics) observeDecision(e consent.ConsentChanged) {
	source := SourceBanner
	cats := record.Uniform(e.Accepted)
	if e.Categories != nil {
		source = SourceSettings
		cats = *e.Categories
	}

	m.Decisions.WithLabelValues(source, strconv.FormatBool(e.Accepted)).Inc()
	for _, cat := range record.Optional() {
		if cats.Enabled(cat) {
			m.CategoryGrants.WithLabelValues(cat.String()).Inc()
		}
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
