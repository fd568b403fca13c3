package querycache

import "errors"

var (
	// ErrEmptySignature is returned when an operation receives an empty key.
	ErrEmptySignature = errors.New("empty cache signature")
)
