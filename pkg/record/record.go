package record

import (
	"encoding/json"
	"errors"
	"time"
)

// msPerDay is the length of one day in epoch milliseconds.
const msPerDay = 86_400_000

// Record is the persisted consent decision.
// Categories is nil for legacy records that only carry the accepted flag.
type Record struct {
	Categories *Categories `json:"categories,omitempty"`
	Timestamp  int64       `json:"timestamp"`
	Accepted   bool        `json:"accepted"`
}

// New creates a record stamped with now. A nil categories value produces a
// record with the binary flag only.
func New(now time.Time, accepted bool, categories *Categories) Record {
	r := Record{Timestamp: now.UnixMilli(), Accepted: accepted}
	if categories != nil {
		c := *categories
		c.Essential = true
		r.Categories = &c
	}
	return r
}

// Time returns the record creation time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// EffectiveCategories returns the stored categories, or categories back-filled
// from the accepted flag for legacy records.
func (r Record) EffectiveCategories() Categories {
	if r.Categories != nil {
		c := *r.Categories
		c.Essential = true
		return c
	}
	return Uniform(r.Accepted)
}

// AgeDays returns the record age in fractional days at now.
func (r Record) AgeDays(now time.Time) float64 {
	return float64(now.UnixMilli()-r.Timestamp) / msPerDay
}

// Expired reports whether the record is older than the clamped window.
// A record exactly at the boundary is still valid.
func (r Record) Expired(now time.Time, days int) bool {
	return r.AgeDays(now) > float64(ClampDays(days))
}

// Encode serializes the record to its JSON storage form.
func Encode(r Record) (string, error) {
	if r.Categories != nil {
		r.Categories.Essential = true
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// wire mirrors Record with pointer fields so missing and mistyped values can
// be told apart from zero values.
type wire struct {
	Timestamp  *float64        `json:"timestamp"`
	Accepted   *bool           `json:"accepted"`
	Categories json.RawMessage `json:"categories"`
}

// Decode parses a stored value.
// Returns ErrMalformed unless timestamp is a number and accepted is a boolean.
// A categories value of the wrong shape is dropped and the record is treated as legacy.
func Decode(raw string) (Record, error) {
	var w wire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Record{}, errors.Join(ErrMalformed, err)
	}
	if w.Timestamp == nil || w.Accepted == nil {
		return Record{}, ErrMalformed
	}

	r := Record{Timestamp: int64(*w.Timestamp), Accepted: *w.Accepted}

	if len(w.Categories) > 0 && string(w.Categories) != "null" {
		var c Categories
		if err := json.Unmarshal(w.Categories, &c); err == nil {
			c.Essential = true
			r.Categories = &c
		}
	}

	return r, nil
}
