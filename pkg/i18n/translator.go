package i18n

import "strings"

// Translator binds a catalog to one language and namespace.
type Translator struct {
	catalog   *Catalog
	language  string
	namespace string
}

// NewTranslator creates a translator. An empty language selects the catalog's
// default, an empty namespace selects DefaultNamespace.
func NewTranslator(c *Catalog, language, namespace string) *Translator {
	if c == nil {
		panic("i18n: catalog is not provided")
	}
	if language == "" {
		language = c.DefaultLanguage()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Translator{catalog: c, language: language, namespace: namespace}
}

// T translates key.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.catalog.T(t.language, t.namespace, key, placeholders...)
}

// Language returns the translator's language.
func (t *Translator) Language() string {
	return t.language
}

// Namespace returns the translator's namespace.
func (t *Translator) Namespace() string {
	return t.namespace
}

// Translate resolves a dotted key whose first segment is the namespace,
// e.g. "banner.accept".
func (c *Catalog) Translate(lang, key string) string {
	namespace, rest, ok := strings.Cut(key, ".")
	if !ok {
		return c.T(lang, DefaultNamespace, key)
	}
	return c.T(lang, namespace, rest)
}
