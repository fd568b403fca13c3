package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"query-gateway/internal/sqlstore"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE people (first_name TEXT, person_country TEXT, revenue INTEGER, note BLOB)`,
		`INSERT INTO people VALUES ('Ada', 'Singapore', 10, x'6869')`,
		`INSERT INTO people VALUES ('Lin', 'Singapore', 20, NULL)`,
		`INSERT INTO people VALUES ('Sam', 'Japan', 30, NULL)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestScanRows_CapsAndNormalizes(t *testing.T) {
	db := seededDB(t)
	rows, err := db.QueryContext(context.Background(), `SELECT first_name, revenue, note FROM people ORDER BY revenue`)
	require.NoError(t, err)
	defer rows.Close()

	res, err := sqlstore.ScanRows(rows, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"first_name", "revenue", "note"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.True(t, res.Truncated)
	assert.Equal(t, "Ada", res.Rows[0][0])
	assert.Equal(t, "hi", res.Rows[0][2])
	assert.Nil(t, res.Rows[1][2])
	assert.JSONEq(t, `{"columns":["first_name","revenue","note"],"rows":[["Ada",10,"hi"],["Lin",20,null]],"truncated":true}`, res.String())
}

func TestScanRows_EmptyResult(t *testing.T) {
	db := seededDB(t)
	rows, err := db.Query(`SELECT first_name FROM people WHERE person_country = 'Mars'`)
	require.NoError(t, err)
	defer rows.Close()

	res, err := sqlstore.ScanRows(rows, 0)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.False(t, res.Truncated)
	assert.JSONEq(t, `{"columns":["first_name"],"rows":[]}`, res.String())
}
