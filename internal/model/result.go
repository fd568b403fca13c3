package model

import "encoding/json"

// QueryResult is the tabular outcome of one executed query.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	// Truncated is set when the row cap cut the result short.
	Truncated bool `json:"truncated,omitempty"`
}

// Empty reports whether the query returned no rows.
func (r QueryResult) Empty() bool {
	return len(r.Rows) == 0
}

// Preview returns a copy holding at most n rows.
func (r QueryResult) Preview(n int) QueryResult {
	if len(r.Rows) <= n {
		return r
	}
	return QueryResult{Columns: r.Columns, Rows: r.Rows[:n], Truncated: true}
}

// String renders the result as compact JSON. This is the form cached and fed
// back to the backend.
func (r QueryResult) String() string {
	raw, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
