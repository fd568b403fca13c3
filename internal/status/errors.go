package status

import "errors"

var (
	// ErrTerminated is returned when an event is emitted after the terminal one.
	ErrTerminated = errors.New("status stream already terminated")
)
