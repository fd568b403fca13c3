package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"query-gateway/config"
	"query-gateway/internal/sqlstore"
	"query-gateway/pkg/log"
)

// DefaultMaxRows caps rows read from one query when none is configured.
const DefaultMaxRows = 50

// Options tunes query execution.
type Options struct {
	StatementTimeout time.Duration
	MaxRows          int
}

type implStore struct {
	db  *sql.DB
	opt Options
	l   log.Logger
}

var _ sqlstore.Store = (*implStore)(nil)

// Open connects to PostgreSQL through the pgx database/sql driver and pings it.
func Open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// New creates a PostgreSQL-backed Store.
func New(db *sql.DB, opt Options, l log.Logger) *implStore {
	if db == nil {
		panic("sqlstore/postgres: db is required")
	}
	if opt.MaxRows <= 0 {
		opt.MaxRows = DefaultMaxRows
	}
	return &implStore{db: db, opt: opt, l: l}
}

// dsn is a helper to return a method-scoped context string for logging.
func (s *implStore) dsn(method string) string {
	return fmt.Sprintf("internal.sqlstore.postgres.%s", method)
}
