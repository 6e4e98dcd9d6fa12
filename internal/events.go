package internal

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/consent/pkg/record"
)

// Notification names as seen by the embedding page.
const (
	EventConsentGiven      = "gdpr-consent-given"
	EventSettingsRequested = "gdpr-settings-requested"
	EventCategoryChanged   = "gdpr-category-changed"
)

// Event is a notification emitted to the host.
type Event interface {
	Name() string
}

// ConsentChanged is emitted after a decision. Categories is set only for
// decisions saved from the settings dialog.
type ConsentChanged struct {
	Categories *record.Categories `json:"categories,omitempty"`
	Accepted   bool               `json:"accepted"`
}

func (ConsentChanged) Name() string { return EventConsentGiven }

// SettingsRequested is emitted when the settings dialog is opened.
type SettingsRequested struct{}

func (SettingsRequested) Name() string { return EventSettingsRequested }

// CategoryChanged is emitted on every category toggle, before saving.
type CategoryChanged struct {
	Category record.Category `json:"category"`
	Enabled  bool            `json:"enabled"`
}

func (CategoryChanged) Name() string { return EventCategoryChanged }

// Listener receives notifications. It runs synchronously; a panic is recovered
// and logged.
type Listener func(ctx context.Context, ev Event)

type subscription struct {
	fn Listener
	id int
}

// emitter is a synchronous fan-out of events to listeners in registration order.
type emitter struct {
	logger *slog.Logger
	subs   []subscription
	nextID int
}

func (e *emitter) subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, fn: fn})

	return func() {
		e.subs = slices.DeleteFunc(e.subs, func(s subscription) bool { return s.id == id })
	}
}

func (e *emitter) emit(ctx context.Context, ev Event) {
	for _, s := range slices.Clone(e.subs) {
		e.deliver(ctx, s.fn, ev)
	}
}

func (e *emitter) deliver(ctx context.Context, fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "consent listener panicked",
				slog.String("event", ev.Name()),
				slog.Any("panic", r),
			)
		}
	}()
	fn(ctx, ev)
}
