// Package i18n provides the translation tables of the consent prompt and
// locale resolution.
//
// A [Catalog] is immutable after construction and safe for concurrent use.
// The bundled tables cover English and German:
//
//	cat, err := i18n.New(i18n.WithEmbedded())
//	cat.T("de", "banner", "accept") // "Alle akzeptieren"
//
// Additional tables are loaded from any fs.FS laid out as {lang}/{namespace}.yaml
// or .json with [WithYAMLDir] and [WithJSONDir].
//
// Lookups fall back from the full tag to the base language ("de-AT" to "de"),
// then to the default language, and finally return the key itself.
//
// # Locale resolution
//
// [Match] selects among available languages with golang.org/x/text/language.
// [ParseAcceptLanguage] applies it to an HTTP header and [DetectEnv] to the
// LC_ALL, LC_MESSAGES and LANG environment variables. Anything unsupported
// resolves to the first available language.
package i18n
