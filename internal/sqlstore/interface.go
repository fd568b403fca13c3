package sqlstore

import (
	"context"

	"query-gateway/internal/model"
)

// Store is the relational database questions are answered from.
// Every method runs read-only. Implementations are safe for concurrent use.
type Store interface {
	// Execute runs one read query and returns at most the configured row cap.
	Execute(ctx context.Context, query string) (model.QueryResult, error)
	// ListTables returns the usable table names, sorted.
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTables returns a CREATE TABLE sketch plus sample rows per table.
	DescribeTables(ctx context.Context, tables []string) (string, error)
	// DistinctValues runs query and returns its first column as strings.
	DistinctValues(ctx context.Context, query string) ([]string, error)
}
