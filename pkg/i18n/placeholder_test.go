package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/pkg/i18n"
)

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		template     string
		placeholders i18n.M
		expected     string
	}{
		{name: "no placeholders", template: "Cookie Settings", expected: "Cookie Settings"},
		{
			name:         "single placeholder",
			template:     "Consent expires in {{days}} days",
			placeholders: i18n.M{"days": 365},
			expected:     "Consent expires in 365 days",
		},
		{
			name:         "repeated placeholder",
			template:     "{{site}} uses cookies. Manage {{site}} settings.",
			placeholders: i18n.M{"site": "example.com"},
			expected:     "example.com uses cookies. Manage example.com settings.",
		},
		{
			name:         "values are not expanded again",
			template:     "{{a}} and {{b}}",
			placeholders: i18n.M{"a": "{{b}}", "b": "B"},
			expected:     "{{b}} and B",
		},
		{
			name:         "spaces inside markers",
			template:     "Valid for {{ days }} days",
			placeholders: i18n.M{"days": 30},
			expected:     "Valid for 30 days",
		},
		{
			name:         "unclosed marker",
			template:     "Broken {{days",
			placeholders: i18n.M{"days": 30},
			expected:     "Broken {{days",
		},
		{
			name:         "missing value stays",
			template:     "Hello, {{name}}",
			placeholders: i18n.M{"other": "x"},
			expected:     "Hello, {{name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, i18n.ReplacePlaceholders(tt.template, tt.placeholders))
		})
	}
}

func TestCatalog_PlaceholderOverride(t *testing.T) {
	t.Parallel()

	c, err := i18n.New(i18n.WithTranslations("en", "banner", i18n.M{"expiry": "Kept for {{days}} days on {{site}}"}))
	require.NoError(t, err)

	got := c.T("en", "banner", "expiry", i18n.M{"days": 365, "site": "a.test"}, i18n.M{"days": 30})
	require.Equal(t, "Kept for 30 days on a.test", got)
}
