package gtag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/consent/pkg/logger"
	"github.com/dmitrymomot/consent/pkg/record"
)

// Mode selects when the default consent state is announced.
type Mode string

const (
	// ModeImmediateDefault announces all-denied defaults on Init.
	ModeImmediateDefault Mode = "immediate-default"
	// ModeDeferred sends nothing until the first decision.
	ModeDeferred Mode = "deferred"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeImmediateDefault, ModeDeferred:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// DefaultWaitForUpdate is the wait_for_update value of the default announcement.
const DefaultWaitForUpdate = 500 * time.Millisecond

// Adapter forwards consent decisions to a Sink.
// Sink failures are logged and never propagated.
type Adapter struct {
	sink    Sink
	factory func() Sink
	logger  *slog.Logger
	now     func() time.Time
	mode    Mode
	wait    time.Duration
	status  Status
	started bool
}

// AdapterOption configures the Adapter.
type AdapterOption func(*Adapter)

// WithMode sets the signaling mode.
// Default: ModeImmediateDefault.
func WithMode(m Mode) AdapterOption {
	return func(a *Adapter) {
		if m == ModeImmediateDefault || m == ModeDeferred {
			a.mode = m
		}
	}
}

// WithSink sets the sink.
func WithSink(s Sink) AdapterOption {
	return func(a *Adapter) {
		a.sink = s
	}
}

// WithSinkFactory sets how the sink is created when none is present.
// Default: NewDataLayer.
func WithSinkFactory(fn func() Sink) AdapterOption {
	return func(a *Adapter) {
		if fn != nil {
			a.factory = fn
		}
	}
}

// WithWaitForUpdate sets the wait_for_update value. Non-positive values are ignored.
// Default: 500ms.
func WithWaitForUpdate(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		if d > 0 {
			a.wait = d
		}
	}
}

// WithLogger sets the logger for sink failures.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock sets the time source for event timestamps.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAdapter creates a signal adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{
		factory: func() Sink { return NewDataLayer() },
		logger:  logger.NewNope(),
		now:     time.Now,
		mode:    ModeImmediateDefault,
		wait:    DefaultWaitForUpdate,
		status:  DeniedStatus(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Mode returns the signaling mode.
func (a *Adapter) Mode() Mode {
	return a.mode
}

// Status returns the last status sent, or all-denied before any decision.
func (a *Adapter) Status() Status {
	return a.status
}

// Sink returns the sink, creating it if needed.
func (a *Adapter) Sink() Sink {
	if a.sink == nil {
		a.sink = a.factory()
	}
	return a.sink
}

// Init announces the default state in immediate-default mode. It runs once;
// later calls are no-ops.
func (a *Adapter) Init(ctx context.Context) {
	if a.started {
		return
	}
	a.started = true

	if a.mode != ModeImmediateDefault {
		return
	}
	a.call(ctx, "default", func(s Sink) error {
		return s.AnnounceDefault(DeniedStatus(), a.wait)
	})
}

// Apply sends a consent update for categories followed by an update event.
func (a *Adapter) Apply(ctx context.Context, c record.Categories) {
	a.started = true
	a.status = StatusFor(c)

	status := a.status
	a.call(ctx, "update", func(s Sink) error {
		return s.Update(status)
	})
	a.call(ctx, "event", func(s Sink) error {
		return s.RecordEvent(NewEvent(a.now(), c.Map(), status))
	})
}

// call runs fn against the sink, converting errors and panics into log records.
func (a *Adapter) call(ctx context.Context, op string, fn func(Sink) error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "consent signal sink panicked",
				slog.String("op", op),
				slog.Any("panic", r),
			)
		}
	}()

	sink := a.Sink()
	if sink == nil {
		a.logger.WarnContext(ctx, "consent signal sink unavailable", slog.String("op", op))
		return
	}
	if err := fn(sink); err != nil {
		a.logger.ErrorContext(ctx, "consent signal failed",
			slog.String("op", op),
			slog.String("error", fmt.Errorf("%w: %w", ErrSinkFailed, err).Error()),
		)
	}
}
