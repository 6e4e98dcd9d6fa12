package gtag

import "errors"

var (
	ErrSinkFailed  = errors.New("gtag: sink call failed")
	ErrUnknownMode = errors.New("gtag: unknown signal mode")
)
