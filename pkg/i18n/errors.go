package i18n

import "errors"

// Sentinel errors returned while building a Catalog.
var (
	ErrEmptyLanguage  = errors.New("i18n: empty language tag")
	ErrEmptyNamespace = errors.New("i18n: empty namespace")
	ErrInvalidFile    = errors.New("i18n: malformed translation file")
)
