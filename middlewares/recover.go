package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/consent/pkg/logger"
)

// DefaultStackSize caps the stack trace captured for a panic, in bytes.
const DefaultStackSize = 4096

// PanicError carries a value recovered from a handler panic.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is off
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError unwraps err to a *PanicError.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}

// PanicHandler writes the response after a recovered panic.
type PanicHandler func(w http.ResponseWriter, r *http.Request, pe *PanicError)

type recoverer struct {
	log       *slog.Logger
	onPanic   PanicHandler
	stackSize int
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverer)

// WithRecoverStackSize sets how many bytes of stack are captured.
func WithRecoverStackSize(size int) RecoverOption {
	return func(rc *recoverer) { rc.stackSize = size }
}

// WithRecoverDisablePrintStack turns stack capture off.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(rc *recoverer) { rc.stackSize = 0 }
}

func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(rc *recoverer) {
		if l != nil {
			rc.log = l
		}
	}
}

// WithRecoverHandler replaces the default plain 500 response.
func WithRecoverHandler(fn PanicHandler) RecoverOption {
	return func(rc *recoverer) {
		if fn != nil {
			rc.onPanic = fn
		}
	}
}

func internalError(w http.ResponseWriter, _ *http.Request, _ *PanicError) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Recover turns handler panics into a logged error and a 500 response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(opts ...RecoverOption) func(http.Handler) http.Handler {
	rc := &recoverer{log: logger.NewNope(), onPanic: internalError, stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(rc)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					rc.handle(w, r, v)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func (rc *recoverer) handle(w http.ResponseWriter, r *http.Request, v any) {
	if v == http.ErrAbortHandler {
		panic(v)
	}

	pe := &PanicError{Value: v}
	attrs := []any{slog.Any("panic", v)}
	if rc.stackSize > 0 {
		buf := make([]byte, rc.stackSize)
		pe.Stack = buf[:runtime.Stack(buf, false)]
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	rc.log.ErrorContext(r.Context(), "panic recovered", attrs...)
	rc.onPanic(w, r, pe)
}
