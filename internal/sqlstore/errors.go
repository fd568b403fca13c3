package sqlstore

import "errors"

var (
	// ErrQueryFailed wraps database errors of a user query. The wrapped text
	// is meant to be shown to the backend so it can correct the query.
	ErrQueryFailed  = errors.New("query failed")
	// ErrUnavailable means the database could not be reached at all.
	ErrUnavailable  = errors.New("database unavailable")
	ErrUnknownTable = errors.New("unknown table")
	ErrFailedToList = errors.New("failed to list tables")
)
