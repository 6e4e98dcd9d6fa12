package i18n

import (
	"fmt"
	"strings"
)

// ReplacePlaceholders substitutes {{name}} markers with values from
// placeholders in a single pass. Substituted values are not scanned again.
// Markers without a value are kept as is.
//
//	ReplacePlaceholders("Consent expires in {{days}} days", M{"days": 365})
//	// "Consent expires in 365 days"
func ReplacePlaceholders(template string, placeholders M) string {
	return expand(template, placeholders)
}

// expand is ReplacePlaceholders over several maps. Later maps win.
func expand(template string, placeholders ...M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		before, after, found := strings.Cut(rest, "{{")
		b.WriteString(before)
		if !found {
			break
		}
		name, tail, closed := strings.Cut(after, "}}")
		if !closed {
			b.WriteString("{{")
			b.WriteString(after)
			break
		}
		if v, ok := lookup(strings.TrimSpace(name), placeholders); ok {
			fmt.Fprint(&b, v)
		} else {
			b.WriteString("{{" + name + "}}")
		}
		rest = tail
	}
	return b.String()
}

func lookup(name string, placeholders []M) (any, bool) {
	for i := len(placeholders) - 1; i >= 0; i-- {
		if v, ok := placeholders[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
