package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/pkg/health"
	"github.com/dmitrymomot/consent/pkg/i18n"
	"github.com/dmitrymomot/consent/pkg/localstore"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("json via query", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live?format=json", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.ReadinessHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing check reports 503 with details", func(t *testing.T) {
		t.Parallel()
		checks := health.Checks{
			"ok":     func(context.Context) error { return nil },
			"broken": func(context.Context) error { return errors.New("boom") },
		}
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		health.ReadinessHandler(checks)(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, health.StatusHealthy, resp.Checks["ok"].Status)
		require.Equal(t, "boom", resp.Checks["broken"].Error)
	})

	t.Run("timeout reaches the check", func(t *testing.T) {
		t.Parallel()
		checks := health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}
		rec := httptest.NewRecorder()
		health.ReadinessHandler(checks, health.WithTimeout(10*time.Millisecond))(rec,
			httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "Service Unavailable", rec.Body.String())
	})
}

func TestStorageCheck(t *testing.T) {
	t.Parallel()

	t.Run("memory round trip", func(t *testing.T) {
		t.Parallel()
		store := localstore.NewMemory()
		require.NoError(t, health.StorageCheck(store)(context.Background()))
		require.Zero(t, store.Len())
	})

	t.Run("unavailable storage", func(t *testing.T) {
		t.Parallel()
		err := health.StorageCheck(localstore.Unavailable{})(context.Background())
		require.ErrorIs(t, err, localstore.ErrUnavailable)
	})

	t.Run("file storage", func(t *testing.T) {
		t.Parallel()
		store, err := localstore.NewFile(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, health.StorageCheck(store)(context.Background()))
	})
}

func TestCatalogCheck(t *testing.T) {
	t.Parallel()

	catalog, err := i18n.New(i18n.WithEmbedded())
	require.NoError(t, err)

	require.NoError(t, health.CatalogCheck(catalog, "banner.title")(context.Background()))

	err = health.CatalogCheck(catalog, "banner.missing")(context.Background())
	require.ErrorIs(t, err, health.ErrMissingTranslation)
}

func TestRun(t *testing.T) {
	t.Parallel()

	resp := health.Run(context.Background(), health.Checks{
		"storage": health.StorageCheck(localstore.NewMemory()),
	})
	require.Equal(t, health.StatusHealthy, resp.Status)
	require.Equal(t, health.StatusHealthy, resp.Checks["storage"].Status)
}
