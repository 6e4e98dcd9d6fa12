package gtag

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventName is the dataLayer event pushed after each consent update.
const EventName = "cookie_consent_update"

// Event is a dataLayer event object describing a consent update.
type Event struct {
	Name       string          `json:"event"`
	ID         string          `json:"event_id"`
	Timestamp  int64           `json:"timestamp"`
	Categories map[string]bool `json:"consent_categories"`
	Status     Status          `json:"consent_status"`
}

// NewEvent creates an update event with a fresh id.
func NewEvent(now time.Time, categories map[string]bool, status Status) Event {
	return Event{
		Name:       EventName,
		ID:         uuid.NewString(),
		Timestamp:  now.UnixMilli(),
		Categories: categories,
		Status:     status,
	}
}

// Sink receives consent signals.
type Sink interface {
	// AnnounceDefault sends the default consent state before any tag runs.
	AnnounceDefault(status Status, waitForUpdate time.Duration) error
	// Update sends a consent update.
	Update(status Status) error
	// RecordEvent pushes an event object.
	RecordEvent(ev Event) error
}

// GtagFunc is a host-provided gtag implementation. It receives the same
// arguments as the browser function, e.g. ("consent", "update", {...}).
type GtagFunc func(args ...any) error

// DataLayer is an in-memory Sink recording the entries pushed to window.dataLayer.
// Safe for concurrent use.
type DataLayer struct {
	gtag    GtagFunc
	entries []any
	mu      sync.Mutex
}

// DataLayerOption configures the DataLayer.
type DataLayerOption func(*DataLayer)

// WithGtag routes consent commands through fn instead of appending them to the layer.
// Events are still pushed to the layer.
func WithGtag(fn GtagFunc) DataLayerOption {
	return func(d *DataLayer) {
		d.gtag = fn
	}
}

// NewDataLayer creates an empty data layer.
func NewDataLayer(opts ...DataLayerOption) *DataLayer {
	d := &DataLayer{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DataLayer) command(args ...any) error {
	if d.gtag != nil {
		return d.gtag(args...)
	}
	d.push(args)
	return nil
}

func (d *DataLayer) push(entry any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entry)
}

// AnnounceDefault pushes ["consent", "default", {..., "wait_for_update": ms}].
func (d *DataLayer) AnnounceDefault(status Status, waitForUpdate time.Duration) error {
	args := status.Map()
	args["wait_for_update"] = waitForUpdate.Milliseconds()
	return d.command("consent", "default", args)
}

// Update pushes ["consent", "update", {...}].
func (d *DataLayer) Update(status Status) error {
	return d.command("consent", "update", status.Map())
}

// RecordEvent pushes the event object.
func (d *DataLayer) RecordEvent(ev Event) error {
	d.push(ev)
	return nil
}

// Entries returns a copy of the pushed entries in order.
func (d *DataLayer) Entries() []any {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]any, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of pushed entries.
func (d *DataLayer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// MarshalJSON encodes the layer as a JSON array.
func (d *DataLayer) MarshalJSON() ([]byte, error) {
	entries := d.Entries()
	if entries == nil {
		entries = []any{}
	}
	return json.Marshal(entries)
}

var _ Sink = (*DataLayer)(nil)
