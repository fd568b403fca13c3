package querycache

import (
	"context"

	"query-gateway/internal/model"
)

// Store is the cache of executed queries plus the per-signature reliability ledger.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the cached entry for signature. found is false on a miss.
	Get(ctx context.Context, signature string) (entry model.CacheEntry, found bool, err error)

	// Put stores result for signature, overwriting any previous entry.
	Put(ctx context.Context, signature, rawQuery, result string) error

	// RecordSuccess increments the success counter, creating the record when absent.
	RecordSuccess(ctx context.Context, signature, rawQuery string) error

	// RecordFailure increments the failure counter, creating the record when absent.
	RecordFailure(ctx context.Context, signature, rawQuery string) error

	// Feedback returns the ledger row for signature. found is false when none exists.
	Feedback(ctx context.Context, signature string) (record model.FeedbackRecord, found bool, err error)
}
