package internal

import (
	"maps"
	"slices"

	"github.com/dmitrymomot/consent/pkg/record"
)

// CookiePatterns maps a category to the name substrings of cookies it covers.
type CookiePatterns map[record.Category][]string

// DefaultCookiePatterns returns the built-in patterns of well-known trackers.
func DefaultCookiePatterns() CookiePatterns {
	return CookiePatterns{
		record.Functional: {"lang_pref", "_func", "wp-settings"},
		record.Analytics:  {"_ga", "_gid", "_gat", "__utm", "_hj", "_clck", "_clsk"},
		record.Marketing:  {"_fbp", "_fbc", "_gcl_", "_uet", "_ttp", "__gads", "__gpi", "MUID"},
	}
}

// Clone returns a deep copy.
func (p CookiePatterns) Clone() CookiePatterns {
	out := make(CookiePatterns, len(p))
	for k, v := range p {
		out[k] = slices.Clone(v)
	}
	return out
}

// For returns the patterns of the given categories.
func (p CookiePatterns) For(cats ...record.Category) []string {
	var out []string
	for _, c := range cats {
		out = append(out, p[c]...)
	}
	return out
}

// Categories returns the categories that have patterns, sorted.
func (p CookiePatterns) Categories() []record.Category {
	return slices.Sorted(maps.Keys(p))
}
