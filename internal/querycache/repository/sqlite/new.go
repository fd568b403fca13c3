package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"query-gateway/internal/querycache/repository"
	"query-gateway/pkg/log"

	_ "modernc.org/sqlite"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS query_cache (
	query_hash TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	result     TEXT NOT NULL,
	stored_at  INTEGER NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS query_feedback (
	query_hash    TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	success_count INTEGER NOT NULL DEFAULT 0 CHECK (success_count >= 0),
	failure_count INTEGER NOT NULL DEFAULT 0 CHECK (failure_count >= 0),
	last_used     INTEGER NOT NULL
)`,
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA temp_store=MEMORY",
}

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New opens (or creates) the SQLite file at path and applies the schema.
// A single connection serializes writers so counter upserts never interleave.
func New(ctx context.Context, path string, l log.Logger) (repository.Repository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrFailedToOpen, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToOpen, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %v", repository.ErrFailedToOpen, p, err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: schema: %v", repository.ErrFailedToOpen, err)
		}
	}

	return &implRepository{db: db, l: l}, nil
}

// Close releases the database handle.
func (r *implRepository) Close() error {
	return r.db.Close()
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("querycache/repository/sqlite.%s", method)
}
