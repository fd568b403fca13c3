package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"query-gateway/internal/model"
	repo "query-gateway/internal/querycache/repository"
)

// IncrementFeedback bumps one counter in a single statement so concurrent
// updates for the same signature never lose an increment.
func (r *implRepository) IncrementFeedback(ctx context.Context, opt repo.IncrementFeedbackOptions) error {
	var query string
	switch opt.Outcome {
	case repo.OutcomeSuccess:
		query = `
			INSERT INTO query_feedback (query_hash, query, success_count, failure_count, last_used)
			VALUES (?, ?, 1, 0, ?)
			ON CONFLICT(query_hash) DO UPDATE SET
				success_count = success_count + 1,
				last_used = excluded.last_used`
	default:
		query = `
			INSERT INTO query_feedback (query_hash, query, success_count, failure_count, last_used)
			VALUES (?, ?, 0, 1, ?)
			ON CONFLICT(query_hash) DO UPDATE SET
				failure_count = failure_count + 1,
				last_used = excluded.last_used`
	}

	if _, err := r.db.ExecContext(ctx, query, opt.Signature, opt.RawQuery, opt.UsedAt.UnixNano()); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("IncrementFeedback"), err)
		return repo.ErrFailedToUpsert
	}
	return nil
}

// GetFeedback returns the ledger row for signature, or a zero value when absent.
func (r *implRepository) GetFeedback(ctx context.Context, signature string) (model.FeedbackRecord, error) {
	const query = `
		SELECT query_hash, query, success_count, failure_count, last_used
		FROM query_feedback WHERE query_hash = ?`

	var (
		rec      model.FeedbackRecord
		lastUsed int64
	)
	err := r.db.QueryRowContext(ctx, query, signature).Scan(
		&rec.Signature, &rec.Query, &rec.SuccessCount, &rec.FailureCount, &lastUsed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FeedbackRecord{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetFeedback"), err)
		return model.FeedbackRecord{}, repo.ErrFailedToGet
	}
	rec.LastUsed = time.Unix(0, lastUsed).UTC()
	return rec, nil
}
