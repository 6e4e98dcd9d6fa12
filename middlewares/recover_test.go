package middlewares_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("recovers and answers 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := middlewares.Recover(middlewares.WithRecoverLogger(slog.New(slog.NewJSONHandler(&buf, nil))))(
			http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("test panic") }),
		)

		rec := httptest.NewRecorder()
		require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, buf.String(), "panic recovered")
		require.Contains(t, buf.String(), "stack")
	})

	t.Run("custom handler and no stack", func(t *testing.T) {
		t.Parallel()

		var got *middlewares.PanicError
		h := middlewares.Recover(
			middlewares.WithRecoverDisablePrintStack(),
			middlewares.WithRecoverHandler(func(w http.ResponseWriter, _ *http.Request, pe *middlewares.PanicError) {
				got = pe
				w.WriteHeader(http.StatusServiceUnavailable)
			}),
		)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.NotNil(t, got)
		require.Equal(t, "boom", got.Value)
		require.Nil(t, got.Stack)

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Equal(t, "panic: boom", pe.Error())
	})

	t.Run("passes through", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Recover()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusAccepted, rec.Code)
	})
}
