package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength bounds the parsed part of an Accept-Language header.
const maxAcceptLanguageLength = 4096

// Match returns the available language that best serves the requested tags.
// Unparsable tags are skipped. Returns available[0] when nothing matches.
func Match(requested []string, available []string) string {
	if len(available) == 0 {
		return ""
	}

	supported := make([]language.Tag, 0, len(available))
	for _, a := range available {
		supported = append(supported, language.Make(a))
	}

	wanted := make([]language.Tag, 0, len(requested))
	for _, r := range requested {
		tag, err := language.Parse(normalizePOSIX(r))
		if err != nil || tag == language.Und {
			continue
		}
		wanted = append(wanted, tag)
	}
	if len(wanted) == 0 {
		return available[0]
	}

	_, idx, conf := language.NewMatcher(supported).Match(wanted...)
	if conf == language.No {
		return available[0]
	}
	return available[idx]
}

// ParseAcceptLanguage picks the best available language for an Accept-Language header.
func ParseAcceptLanguage(header string, available []string) string {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return Match(nil, available)
	}

	requested := make([]string, 0, len(tags))
	for _, t := range tags {
		requested = append(requested, t.String())
	}
	return Match(requested, available)
}

// DetectEnv returns the language from LC_ALL, LC_MESSAGES or LANG, in that order,
// matched against available. Empty, "C" and "POSIX" locales are skipped.
func DetectEnv(available []string) string {
	return detect(os.Getenv, available)
}

// DetectEnvFunc is DetectEnv with a custom environment lookup.
func DetectEnvFunc(getenv func(string) string, available []string) string {
	return detect(getenv, available)
}

func detect(getenv func(string) string, available []string) string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(name)
		if v == "" || v == "C" || v == "POSIX" || strings.HasPrefix(v, "C.") {
			continue
		}
		return Match([]string{v}, available)
	}
	return Match(nil, available)
}

// normalizePOSIX turns "de_DE.UTF-8@euro" into "de-DE".
func normalizePOSIX(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	return strings.ReplaceAll(strings.TrimSpace(v), "_", "-")
}
