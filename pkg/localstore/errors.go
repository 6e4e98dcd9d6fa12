package localstore

import "errors"

var (
	ErrNotFound      = errors.New("localstore: key not found")
	ErrQuotaExceeded = errors.New("localstore: quota exceeded")
	ErrUnavailable   = errors.New("localstore: storage unavailable")
	ErrInvalidKey    = errors.New("localstore: invalid key")
)
