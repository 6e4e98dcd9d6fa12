package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration settings.
type SentryConfig struct {
	DSN         string `mapstructure:"SENTRY_DSN"`
	Environment string `mapstructure:"SENTRY_ENVIRONMENT" default:"production"`
	// MinLevel is the lowest level shipped as a Sentry log. Errors always
	// become events.
	MinLevel slog.Level
}

// NewWithSentry writes JSON lines like New and also reports to Sentry.
// An empty DSN, or a DSN Sentry rejects, leaves only the JSON output.
func NewWithSentry(cfg SentryConfig, opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	local := o.jsonHandler()
	if cfg.DSN == "" {
		return build(o, local)
	}

	env := cfg.Environment
	if env == "" {
		env = "production"
	}
	err := sentry.Init(sentry.ClientOptions{Dsn: cfg.DSN, Environment: env, EnableLogs: true})
	if err != nil {
		slog.New(local).Error("sentry disabled", slog.String("error", err.Error()))
		return build(o, local)
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   sentryLogLevels(cfg.MinLevel),
	}.NewSentryHandler(context.Background())

	return build(o, fanout{local, remote})
}

// sentryLogLevels lists the levels at or above min, never below warn.
func sentryLogLevels(min slog.Level) []slog.Level {
	if min >= slog.LevelError {
		return []slog.Level{slog.LevelError}
	}
	return []slog.Level{slog.LevelWarn, slog.LevelError}
}
