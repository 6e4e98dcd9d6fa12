package i18n

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// DefaultLang is the language every lookup falls back to.
	DefaultLang = "en"
	// DefaultNamespace holds the banner and settings texts.
	DefaultNamespace = "banner"
)

// M holds placeholder values.
type M = map[string]any

type entry struct {
	lang, namespace, key string
}

// Catalog maps (language, namespace, dotted key) to a text.
// It is read-only after New and safe for concurrent use.
type Catalog struct {
	texts     map[entry]string
	fallback  string
	languages []string

	onMissing func(lang, namespace, key string)
	sanitize  func(string) string
}

// Option configures a Catalog while it is built.
type Option func(*Catalog) error

// New builds a catalog from opts, applied in order; later sources override
// earlier ones key by key. Without options the catalog is empty.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{texts: make(map[entry]string), fallback: DefaultLang}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("i18n: build catalog: %w", err)
		}
	}

	if c.sanitize != nil {
		for e, text := range c.texts {
			c.texts[e] = c.sanitize(text)
		}
	}
	c.languages = c.collectLanguages()
	return c, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		c.fallback = lang
		return nil
	}
}

// WithTranslations adds a nested map of texts for lang and namespace.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		c.add(lang, namespace, translations)
		return nil
	}
}

// WithSanitizer filters every text once all sources are loaded.
func WithSanitizer(fn func(string) string) Option {
	return func(c *Catalog) error {
		c.sanitize = fn
		return nil
	}
}

// WithMissingKeyHandler is called when no language in the fallback chain
// has the key.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(c *Catalog) error {
		c.onMissing = handler
		return nil
	}
}

// T returns the text for key, trying lang, its base language and the
// default language in that order. A key found nowhere is returned as is.
func (c *Catalog) T(lang, namespace, key string, placeholders ...M) string {
	for _, l := range c.chain(lang) {
		if text, ok := c.texts[entry{l, namespace, key}]; ok {
			return expand(text, placeholders...)
		}
	}
	if c.onMissing != nil {
		c.onMissing(lang, namespace, key)
	}
	return key
}

// Has reports whether lang or its base language has any text.
func (c *Catalog) Has(lang string) bool {
	return slices.Contains(c.languages, lang) || slices.Contains(c.languages, baseLanguage(lang))
}

// Languages lists the loaded languages, the default one first.
func (c *Catalog) Languages() []string {
	return c.languages
}

func (c *Catalog) DefaultLanguage() string {
	return c.fallback
}

func (c *Catalog) chain(lang string) []string {
	base := baseLanguage(lang)
	out := []string{lang}
	if base != lang {
		out = append(out, base)
	}
	if lang != c.fallback && base != c.fallback {
		out = append(out, c.fallback)
	}
	return out
}

// add flattens nested maps into dotted keys: {"a": {"b": "x"}} becomes "a.b".
func (c *Catalog) add(lang, namespace string, tree map[string]any) {
	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, v := range node {
			if prefix != "" {
				k = prefix + "." + k
			}
			switch v := v.(type) {
			case map[string]any:
				walk(k, v)
			case map[string]string:
				for sub, text := range v {
					c.texts[entry{lang, namespace, k + "." + sub}] = text
				}
			case string:
				c.texts[entry{lang, namespace, k}] = v
			default:
				c.texts[entry{lang, namespace, k}] = fmt.Sprint(v)
			}
		}
	}
	walk("", tree)
}

func (c *Catalog) collectLanguages() []string {
	var others []string
	for e := range c.texts {
		if e.lang != c.fallback {
			others = append(others, e.lang)
		}
	}
	slices.Sort(others)
	return append([]string{c.fallback}, slices.Compact(others)...)
}

// baseLanguage strips the region subtag: "en-US" becomes "en".
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}
