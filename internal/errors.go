package internal

import (
	"errors"

	"github.com/dmitrymomot/consent/pkg/record"
)

var (
	ErrNotAttached       = errors.New("consent: controller is not attached")
	ErrAlreadyAttached   = errors.New("consent: controller is already attached")
	ErrInvalidTransition = errors.New("consent: action is not valid in the current state")

	// ErrUnknownCategory is returned for category names outside the fixed four.
	ErrUnknownCategory = record.ErrUnknownCategory
)
