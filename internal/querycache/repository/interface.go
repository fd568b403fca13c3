package repository

import (
	"context"
	"io"

	"query-gateway/internal/model"
)

// Repository is the persistence contract behind the query cache.
type Repository interface {
	EntryRepository
	FeedbackRepository
	io.Closer
}

// EntryRepository stores executed query results.
type EntryRepository interface {
	// GetEntry returns a zero-value entry (Signature == "") when not found.
	GetEntry(ctx context.Context, signature string) (model.CacheEntry, error)
	UpsertEntry(ctx context.Context, opt UpsertEntryOptions) error
}

// FeedbackRepository stores success and failure counters.
type FeedbackRepository interface {
	IncrementFeedback(ctx context.Context, opt IncrementFeedbackOptions) error
	// GetFeedback returns a zero-value record (Signature == "") when not found.
	GetFeedback(ctx context.Context, signature string) (model.FeedbackRecord, error)
}
