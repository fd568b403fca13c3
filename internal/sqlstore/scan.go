package sqlstore

import (
	"database/sql"
	"time"

	"query-gateway/internal/model"
)

// ScanRows reads rows into a QueryResult, stopping after maxRows.
// maxRows <= 0 means no cap. Byte slices become strings and times RFC 3339.
func ScanRows(rows *sql.Rows, maxRows int) (model.QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return model.QueryResult{}, err
	}

	res := model.QueryResult{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		if maxRows > 0 && len(res.Rows) == maxRows {
			res.Truncated = true
			break
		}
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return model.QueryResult{}, err
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return model.QueryResult{}, err
	}
	return res, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
