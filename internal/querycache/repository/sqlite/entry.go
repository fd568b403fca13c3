package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"query-gateway/internal/model"
	repo "query-gateway/internal/querycache/repository"
)

// GetEntry returns the cached result for signature, or a zero value when absent.
func (r *implRepository) GetEntry(ctx context.Context, signature string) (model.CacheEntry, error) {
	const query = `SELECT query_hash, query, result, stored_at FROM query_cache WHERE query_hash = ?`

	var (
		entry    model.CacheEntry
		storedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, signature).Scan(&entry.Signature, &entry.RawQuery, &entry.Result, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CacheEntry{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetEntry"), err)
		return model.CacheEntry{}, repo.ErrFailedToGet
	}
	entry.StoredAt = time.Unix(0, storedAt).UTC()
	return entry, nil
}

// UpsertEntry inserts or overwrites the result stored under a signature.
func (r *implRepository) UpsertEntry(ctx context.Context, opt repo.UpsertEntryOptions) error {
	const query = `
		INSERT INTO query_cache (query_hash, query, result, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(query_hash) DO UPDATE SET
			query = excluded.query,
			result = excluded.result,
			stored_at = excluded.stored_at`

	if _, err := r.db.ExecContext(ctx, query, opt.Signature, opt.RawQuery, opt.Result, opt.StoredAt.UnixNano()); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertEntry"), err)
		return repo.ErrFailedToUpsert
	}
	return nil
}
