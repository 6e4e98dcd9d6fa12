package health

import "errors"

// Sentinel errors for the health package.
var (
	// ErrCheckFailed is returned when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrStorageMismatch is returned when a storage probe reads back a different value.
	ErrStorageMismatch = errors.New("health: storage returned a different value")

	// ErrMissingTranslation is returned when the catalog cannot resolve a probe key.
	ErrMissingTranslation = errors.New("health: translation missing")
)
