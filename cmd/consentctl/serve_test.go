package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/pkg/logger"
)

func newTestServer(t *testing.T, mutate ...func(*Config)) (*httptest.Server, *http.Client) {
	t.Helper()
	a := &app{cfg: testConfig(t), log: logger.NewNope()}
	a.cfg.CookieSecret = strings.Repeat("s", 32)
	for _, fn := range mutate {
		fn(a.cfg)
	}

	h, err := a.router()
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func call(t *testing.T, client *http.Client, method, url, body string, header http.Header) (int, view) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var v view
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	}
	return resp.StatusCode, v
}

func TestServe_Lifecycle(t *testing.T) {
	t.Parallel()
	srv, client := newTestServer(t)

	code, v := call(t, client, http.MethodGet, srv.URL+"/consent", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, v.ShowBanner)

	code, v = call(t, client, http.MethodPost, srv.URL+"/consent/settings", `{"analytics":true}`, nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, v.Categories.Analytics)
	require.False(t, v.Categories.Functional)

	// The cookie carries the decision to the next request.
	code, v = call(t, client, http.MethodGet, srv.URL+"/consent", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "decided", v.Phase)
	require.True(t, v.Categories.Analytics)

	code, _ = call(t, client, http.MethodPost, srv.URL+"/consent/accept", "", nil)
	require.Equal(t, http.StatusConflict, code)

	code, v = call(t, client, http.MethodPost, srv.URL+"/consent/reset", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, v.ShowBanner)

	code, v = call(t, client, http.MethodPost, srv.URL+"/consent/reject", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.False(t, v.NonEssentialAllowed)
}

func TestServe_RegionAndLocale(t *testing.T) {
	t.Parallel()
	srv, client := newTestServer(t)

	code, v := call(t, client, http.MethodGet, srv.URL+"/consent", "", http.Header{
		"Cf-Ipcountry":    {"US"},
		"Accept-Language": {"de-DE,de;q=0.9"},
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ccpa", string(v.Notice))
	require.Equal(t, "de", v.Locale)
}

func TestServe_BadRequest(t *testing.T) {
	t.Parallel()
	srv, client := newTestServer(t)

	code, _ := call(t, client, http.MethodPost, srv.URL+"/consent/settings", "{", nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestServe_DataLayerAndHealth(t *testing.T) {
	t.Parallel()
	srv, client := newTestServer(t)

	resp, err := client.Get(srv.URL + "/consent/datalayer")
	require.NoError(t, err)
	defer resp.Body.Close()
	var entries []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestServe_Shutdown(t *testing.T) {
	t.Parallel()
	a := &app{cfg: testConfig(t), log: logger.NewNope()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_SanitizesCustomTranslations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "en"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en", "banner.yaml"),
		[]byte("title: \"<strong>Cookies</strong><script>steal()</script>\"\n"), 0o600))

	srv, client := newTestServer(t, func(cfg *Config) { cfg.Translations = dir })

	code, v := call(t, client, http.MethodGet, srv.URL+"/consent", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, v.Banner)
	require.Equal(t, "<strong>Cookies</strong>", v.Banner.Title)
}

func TestServe_CSRF(t *testing.T) {
	t.Parallel()
	srv, client := newTestServer(t, func(cfg *Config) { cfg.CSRFKey = strings.Repeat("k", 32) })

	code, _ := call(t, client, http.MethodPost, srv.URL+"/consent/accept", "", nil)
	require.Equal(t, http.StatusForbidden, code)

	resp, err := client.Get(srv.URL + "/consent")
	require.NoError(t, err)
	resp.Body.Close()
	token := resp.Header.Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	code, v := call(t, client, http.MethodPost, srv.URL+"/consent/accept", "", http.Header{"X-Csrf-Token": {token}})
	require.Equal(t, http.StatusOK, code)
	require.True(t, v.ConsentGiven)

	code, _ = call(t, client, http.MethodPost, srv.URL+"/consent/settings", `{"marketing":false}`,
		http.Header{"Content-Type": {"application/json"}})
	require.Equal(t, http.StatusOK, code, "json requests are exempt")
}

func TestServe_Metrics(t *testing.T) {
	t.Parallel()
	srv, client := newTestServer(t)

	code, _ := call(t, client, http.MethodPost, srv.URL+"/consent/reject", "", nil)
	require.Equal(t, http.StatusOK, code)

	resp, err := client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `consent_decisions_total{accepted="false",source="banner"} 1`)
	require.Contains(t, string(body), "go_goroutines")
}
