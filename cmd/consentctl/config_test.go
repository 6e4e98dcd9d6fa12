package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs)
	fs.Bool("functional", false, "")
	fs.Bool("analytics", false, "")
	fs.Bool("marketing", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONSENT_PROFILE_DIR", t.TempDir())

	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)

	require.Equal(t, 365, cfg.ExpirationDays)
	require.Equal(t, "immediate-default", cfg.SignalMode)
	require.Equal(t, 500*time.Millisecond, cfg.WaitForUpdate)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, ":8080", cfg.Addr)
	require.Empty(t, cfg.Sentry.DSN)
	require.Equal(t, "production", cfg.Sentry.Environment)
}

func TestLoad_EnvVars(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONSENT_PROFILE_DIR", dir)
	t.Setenv("CONSENT_EXPIRATION_DAYS", "90")
	t.Setenv("CONSENT_SIGNAL_MODE", "deferred")
	t.Setenv("CONSENT_WAIT_FOR_UPDATE", "2s")
	t.Setenv("CONSENT_REGION", "US")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example.com/1")
	t.Setenv("SENTRY_ENVIRONMENT", "staging")

	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)

	require.Equal(t, dir, cfg.ProfileDir)
	require.Equal(t, 90, cfg.ExpirationDays)
	require.Equal(t, "deferred", cfg.SignalMode)
	require.Equal(t, 2*time.Second, cfg.WaitForUpdate)
	require.Equal(t, "US", cfg.Region)
	require.Equal(t, "https://key@sentry.example.com/1", cfg.Sentry.DSN)
	require.Equal(t, "staging", cfg.Sentry.Environment)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("CONSENT_PROFILE_DIR", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CONSENT_LOCALE=de\nCONSENT_EXPIRATION_DAYS=45\n"), 0o600))

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	require.Equal(t, "de", cfg.Locale)
	require.Equal(t, 45, cfg.ExpirationDays)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CONSENT_PROFILE_DIR", t.TempDir())
	t.Setenv("CONSENT_EXPIRATION_DAYS", "90")
	t.Setenv("CONSENT_SIGNAL_MODE", "deferred")

	profile := t.TempDir()
	fs := newFlags(t, "--expiration-days=120", "--profile", profile)

	cfg, err := Load(t.TempDir(), fs)
	require.NoError(t, err)
	require.Equal(t, 120, cfg.ExpirationDays)
	require.Equal(t, profile, cfg.ProfileDir)
	require.Equal(t, "deferred", cfg.SignalMode, "unset flags keep env values")
}

func TestLoad_DefaultProfileDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CONSENT_PROFILE_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	require.Equal(t, "consent", filepath.Base(cfg.ProfileDir))
}
