package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"query-gateway/internal/model"
	"query-gateway/internal/sqlstore"
)

const sampleRows = 3

// Execute runs query in a read-only transaction that is always rolled back.
func (s *implStore) Execute(ctx context.Context, query string) (model.QueryResult, error) {
	var res model.QueryResult
	err := s.readOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		res, err = sqlstore.ScanRows(rows, s.opt.MaxRows)
		return err
	})
	if err != nil {
		s.l.Warnf(ctx, "%s: %v", s.dsn("Execute"), err)
		if errors.Is(err, sqlstore.ErrUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return model.QueryResult{}, err
		}
		return model.QueryResult{}, fmt.Errorf("%w: %v", sqlstore.ErrQueryFailed, err)
	}
	return res, nil
}

// ListTables returns the tables of the public schema.
func (s *implStore) ListTables(ctx context.Context) ([]string, error) {
	const query = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name`

	var names []string
	err := s.readOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("ListTables"), err)
		return nil, sqlstore.ErrFailedToList
	}
	return names, nil
}

// DescribeTables renders each table as a CREATE TABLE sketch followed by a
// few sample rows.
func (s *implStore) DescribeTables(ctx context.Context, tables []string) (string, error) {
	known, err := s.ListTables(ctx)
	if err != nil {
		return "", err
	}
	sort.Strings(known)

	var b strings.Builder
	err = s.readOnly(ctx, func(tx *sql.Tx) error {
		for _, table := range tables {
			table = strings.TrimSpace(table)
			if table == "" {
				continue
			}
			if i := sort.SearchStrings(known, table); i == len(known) || known[i] != table {
				return fmt.Errorf("%w: %s", sqlstore.ErrUnknownTable, table)
			}
			if err := describe(ctx, tx, table, &b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.l.Warnf(ctx, "%s: %v", s.dsn("DescribeTables"), err)
		return "", err
	}
	return b.String(), nil
}

// DistinctValues returns the first column of query as strings, skipping NULLs.
func (s *implStore) DistinctValues(ctx context.Context, query string) ([]string, error) {
	var values []string
	err := s.readOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v sql.NullString
			if err := rows.Scan(&v); err != nil {
				return err
			}
			if v.Valid && v.String != "" {
				values = append(values, v.String)
			}
		}
		return rows.Err()
	})
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("DistinctValues"), err)
		return nil, fmt.Errorf("%w: %v", sqlstore.ErrQueryFailed, err)
	}
	return values, nil
}

func (s *implStore) readOnly(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", sqlstore.ErrUnavailable, err)
	}
	defer tx.Rollback()

	if s.opt.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", s.opt.StatementTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return fn(tx)
}

func describe(ctx context.Context, tx *sql.Tx, table string, b *strings.Builder) error {
	const columnsQuery = `
		SELECT column_name, data_type FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`

	rows, err := tx.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return err
	}
	var cols []string
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			rows.Close()
			return err
		}
		cols = append(cols, fmt.Sprintf("\t%s %s", name, strings.ToUpper(typ)))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	ident := pgx.Identifier{table}.Sanitize()
	fmt.Fprintf(b, "\nCREATE TABLE %s (\n%s\n)\n", ident, strings.Join(cols, ",\n"))

	sample, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", ident, sampleRows))
	if err != nil {
		return err
	}
	defer sample.Close()
	res, err := sqlstore.ScanRows(sample, sampleRows)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "\n/*\n%d rows from %s table:\n%s\n", len(res.Rows), table, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	b.WriteString("*/\n")
	return nil
}
