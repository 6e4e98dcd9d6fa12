package record

import "errors"

var (
	// ErrUnknownCategory is returned when a category name is not one of the four fixed keys.
	ErrUnknownCategory = errors.New("record: unknown category")

	// ErrMalformed is returned by Decode when the stored value is not a valid consent record.
	ErrMalformed = errors.New("record: malformed consent record")
)
