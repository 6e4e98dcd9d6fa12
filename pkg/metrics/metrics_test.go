package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent"
	"github.com/dmitrymomot/consent/pkg/metrics"
)

func attached(t *testing.T, m *metrics.Metrics) *consent.Controller {
	t.Helper()
	c := consent.New(consent.WithListener(m.Listener()))
	require.NoError(t, c.Attach(context.Background()))
	return c
}

func TestListener_BannerDecisions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	require.NoError(t, attached(t, m).AcceptAll(ctx))
	require.NoError(t, attached(t, m).RejectAll(ctx))
	require.NoError(t, attached(t, m).AcceptAll(ctx))

	require.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues(metrics.SourceBanner, "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues(metrics.SourceBanner, "false")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.CategoryGrants.WithLabelValues("analytics")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.CategoryGrants.WithLabelValues("marketing")))
}

func TestListener_SettingsDecision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	c := attached(t, m)
	require.NoError(t, c.OpenSettings(ctx))
	require.NoError(t, c.ToggleCategory(ctx, consent.Functional))
	require.NoError(t, c.ToggleCategory(ctx, consent.Analytics))
	require.NoError(t, c.ToggleCategory(ctx, consent.Analytics))
	require.NoError(t, c.SaveSettings(ctx))

	require.Equal(t, 1.0, testutil.ToFloat64(m.SettingsOpened))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CategoryToggles.WithLabelValues("analytics", "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CategoryToggles.WithLabelValues("analytics", "false")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues(metrics.SourceSettings, "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CategoryGrants.WithLabelValues("functional")))
	require.Zero(t, testutil.ToFloat64(m.CategoryGrants.WithLabelValues("analytics")))
}

func TestListener_NilMetrics(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.Listener()(context.Background(), consent.SettingsRequested{})
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	require.NoError(t, attached(t, m).RejectAll(context.Background()))

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `consent_decisions_total{accepted="false",source="banner"} 1`)
}
