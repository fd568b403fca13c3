package repository

import "errors"

var (
	ErrFailedToGet    = errors.New("failed to get record")
	ErrFailedToUpsert = errors.New("failed to upsert record")
	ErrFailedToOpen   = errors.New("failed to open store")
)
