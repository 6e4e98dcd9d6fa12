package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/consent/pkg/logger"
)

// Status values reported per check and overall.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// DefaultTimeout bounds a whole run unless WithTimeout overrides it.
const DefaultTimeout = 5 * time.Second

// CheckFunc probes one dependency. A non-nil error marks it unhealthy.
type CheckFunc func(ctx context.Context) error

// Checks names the probes of one run.
type Checks map[string]CheckFunc

// Response is the aggregated outcome of a run.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of a single probe.
type Check struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Healthy reports whether every check passed.
func (r *Response) Healthy() bool {
	return r.Status == StatusHealthy
}

type runner struct {
	log     *slog.Logger
	timeout time.Duration
}

// Option configures a run.
type Option func(*runner)

// WithTimeout sets the deadline shared by all checks of a run.
func WithTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets where failed checks are reported.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

func newRunner(opts ...Option) *runner {
	r := &runner{log: logger.NewNope(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes checks concurrently under one deadline and aggregates them.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return newRunner(opts...).run(ctx, checks)
}

type outcome struct {
	name  string
	check Check
}

func (r *runner) run(ctx context.Context, checks Checks) *Response {
	resp := &Response{Status: StatusHealthy}
	if len(checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out := make(chan outcome, len(checks))
	var wg sync.WaitGroup
	for name, fn := range checks {
		wg.Go(func() { out <- outcome{name: name, check: r.probe(ctx, name, fn)} })
	}
	wg.Wait()
	close(out)

	resp.Checks = make(map[string]Check, len(checks))
	for o := range out {
		resp.Checks[o.name] = o.check
		if o.check.Status != StatusHealthy {
			resp.Status = StatusUnhealthy
		}
	}
	return resp
}

func (r *runner) probe(ctx context.Context, name string, fn CheckFunc) Check {
	start := time.Now()
	err := fn(ctx)
	c := Check{Status: StatusHealthy, Duration: time.Since(start).Round(time.Microsecond).String()}
	if err != nil {
		c.Status, c.Error = StatusUnhealthy, err.Error()
		r.log.WarnContext(ctx, "health check failed",
			slog.String("check", name),
			slog.String("error", err.Error()),
		)
	}
	return c
}
