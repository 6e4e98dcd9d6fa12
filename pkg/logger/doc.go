// Package logger builds structured slog loggers with context extraction and
// optional Sentry reporting.
//
// Library types in this module default to [NewNope] so that nothing is written
// unless the host passes a logger in.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithComponent("consent"),
//	)
//
// With a Sentry DSN, warnings and errors are also forwarded to Sentry. An empty
// DSN falls back to JSON output only:
//
//	log := logger.NewWithSentry(logger.SentryConfig{DSN: dsn}, logger.WithComponent("consentctl"))
//
// A [ContextExtractor] adds request-scoped attributes on every call:
//
//	func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(instanceKey{}).(string); ok {
//			return slog.String("instance_id", id), true
//		}
//		return slog.Attr{}, false
//	}
package logger
