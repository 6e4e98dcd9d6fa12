package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Option configures a logger built by New or NewWithSentry.
type Option func(*options)

type options struct {
	output     io.Writer
	component  string
	extractors []ContextExtractor
	level      slog.Level
}

func defaultOptions() *options {
	return &options{
		output: os.Stdout,
		level:  slog.LevelInfo,
	}
}

// WithOutput sets the destination of log lines.
// Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithLevel sets the minimum level.
// Default: slog.LevelInfo.
func WithLevel(l slog.Level) Option {
	return func(o *options) {
		o.level = l
	}
}

// WithComponent adds a static "component" attribute to every record.
func WithComponent(name string) Option {
	return func(o *options) {
		o.component = name
	}
}

// WithExtractors adds context extractors applied on every log call.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// ParseLevel converts "debug", "info", "warn" or "error" into a slog.Level.
// Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a JSON-formatted logger.
func New(opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return build(o, o.jsonHandler())
}

func (o *options) jsonHandler() slog.Handler {
	return slog.NewJSONHandler(o.output, &slog.HandlerOptions{Level: o.level})
}

func build(o *options, h slog.Handler) *slog.Logger {
	l := slog.New(withExtractors(h, o.extractors))
	if o.component != "" {
		l = l.With(slog.String("component", o.component))
	}
	return l
}
