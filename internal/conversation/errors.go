package conversation

import "errors"

var (
	// ErrContextFormat is returned when an update payload is not a valid context document.
	ErrContextFormat = errors.New("invalid context format")

	// ErrSessionIDRequired is returned when a session lookup has no id.
	ErrSessionIDRequired = errors.New("session id is required")

	// ErrSessionNotFound is returned when a session does not exist or has expired.
	ErrSessionNotFound = errors.New("session not found")
)
