package record

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/consent/pkg/localstore"
	"github.com/dmitrymomot/consent/pkg/logger"
)

// Expiration window bounds in days.
const (
	MinExpirationDays     = 30
	MaxExpirationDays     = 730
	DefaultExpirationDays = 365
)

// DefaultKey is the fixed storage key of the consent record.
const DefaultKey = "gdpr-consent"

// ClampDays corrects a requested expiration window into [30, 730] days.
func ClampDays(days int) int {
	return min(max(days, MinExpirationDays), MaxExpirationDays)
}

// Store persists exactly one consent record under a fixed key.
// Failures never reach the caller: a broken or disabled storage behaves as if
// no consent was ever recorded.
type Store struct {
	storage localstore.Storage
	logger  *slog.Logger
	now     func() time.Time
	key     string
	days    int
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithExpirationDays sets the requested expiration window.
// The value is clamped to [30, 730] silently.
// Default: 365.
func WithExpirationDays(days int) StoreOption {
	return func(s *Store) {
		s.days = ClampDays(days)
	}
}

// WithKey overrides the storage key.
// Default: "gdpr-consent".
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for timestamps and expiration.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for swallowed storage failures.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a consent record store over storage.
// A nil storage is replaced by an in-memory one.
func NewStore(storage localstore.Storage, opts ...StoreOption) *Store {
	if storage == nil {
		storage = localstore.NewMemory()
	}

	s := &Store{
		storage: storage,
		logger:  logger.NewNope(),
		now:     time.Now,
		key:     DefaultKey,
		days:    DefaultExpirationDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExpirationDays returns the effective (clamped) expiration window.
func (s *Store) ExpirationDays() int {
	return s.days
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Read returns the stored record, or nil if it is absent, malformed or expired.
// An expired record is removed from storage.
func (s *Store) Read(ctx context.Context) *Record {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read stored consent", slog.String("error", err.Error()))
		}
		return nil
	}

	rec, err := Decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to parse stored consent", slog.String("error", err.Error()))
		return nil
	}

	if rec.Expired(s.now(), s.days) {
		s.logger.InfoContext(ctx, "cookie consent has expired and will be removed",
			slog.Int("expiration_days", s.days),
			slog.Time("recorded_at", rec.Time()),
		)
		if err := s.storage.Remove(ctx, s.key); err != nil {
			s.logger.ErrorContext(ctx, "failed to remove expired consent", slog.String("error", err.Error()))
		}
		return nil
	}

	return &rec
}

// Write stores the record. Failures are logged and dropped; the decision then
// only lives until the page is reloaded.
func (s *Store) Write(ctx context.Context, rec Record) {
	raw, err := Encode(rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode consent", slog.String("error", err.Error()))
		return
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		s.logger.ErrorContext(ctx, "failed to store consent", slog.String("error", err.Error()))
	}
}

// Clear removes the stored record. Failures are logged and dropped.
func (s *Store) Clear(ctx context.Context) {
	if err := s.storage.Remove(ctx, s.key); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset consent", slog.String("error", err.Error()))
	}
}
