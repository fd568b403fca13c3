package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/config"
	"query-gateway/internal/sqlstore"
	"query-gateway/internal/sqlstore/postgres"
	"query-gateway/pkg/log"
)

// Runs against a live database when GATEWAY_TEST_PG_HOST is set.
func liveStore(t *testing.T) sqlstore.Store {
	t.Helper()
	host := os.Getenv("GATEWAY_TEST_PG_HOST")
	if host == "" {
		t.Skip("GATEWAY_TEST_PG_HOST not set")
	}
	ctx := context.Background()
	db, err := postgres.Open(ctx, config.PostgresConfig{
		Host: host, Port: 5432, User: os.Getenv("GATEWAY_TEST_PG_USER"),
		Password: os.Getenv("GATEWAY_TEST_PG_PASSWORD"), DBName: "postgres",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.New(db, postgres.Options{StatementTimeout: 2 * time.Second, MaxRows: 5}, log.NewNop())
}

func TestExecute_RowCapAndReadOnly(t *testing.T) {
	store := liveStore(t)
	ctx := context.Background()

	res, err := store.Execute(ctx, "SELECT g FROM generate_series(1, 20) AS g")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 5)
	assert.True(t, res.Truncated)

	_, err = store.Execute(ctx, "CREATE TABLE gateway_should_not_exist (id int)")
	assert.True(t, errors.Is(err, sqlstore.ErrQueryFailed))
}

func TestExecute_StatementTimeout(t *testing.T) {
	store := liveStore(t)
	_, err := store.Execute(context.Background(), "SELECT pg_sleep(5)")
	assert.ErrorIs(t, err, sqlstore.ErrQueryFailed)
}

func TestDescribeTables_UnknownTable(t *testing.T) {
	store := liveStore(t)
	_, err := store.DescribeTables(context.Background(), []string{"definitely_not_a_table"})
	assert.ErrorIs(t, err, sqlstore.ErrUnknownTable)
}
