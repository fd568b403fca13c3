package correction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/internal/sqlstore"
)

// execute answers query from the cache or the database. A cache hit still
// counts as a success. Identical misses in flight share one round trip.
// Cache and ledger writes run detached from ctx so a late cancellation can
// not split a Put from its RecordSuccess.
func (m *implMachine) execute(ctx context.Context, query string) (result string, hit bool, err error) {
	sig := querycache.Signature(query)
	writeCtx := context.WithoutCancel(ctx)

	entry, found, err := m.cache.Get(ctx, sig)
	if err != nil {
		m.l.Warnf(ctx, "%s: cache get: %v", logPrefixExecute, err)
	} else if found {
		m.recordSuccess(writeCtx, sig, query)
		return entry.Result, true, nil
	}

	ch := m.inflight.DoChan(sig, func() (interface{}, error) {
		return m.store.Execute(writeCtx, query)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		if !errors.Is(res.Err, sqlstore.ErrQueryFailed) {
			return "", false, fmt.Errorf("%w: database: %v", ErrCollaboratorUnavailable, res.Err)
		}
		m.recordFailure(writeCtx, sig, query)
		return "", false, retry(ErrExecutionFailure, fmt.Sprintf(feedbackQueryFailed, res.Err))
	}

	rows := res.Val.(model.QueryResult)
	if rows.Empty() {
		m.recordFailure(writeCtx, sig, query)
		return "", false, retry(ErrExecutionFailure, feedbackNoRows)
	}

	result = rows.String()
	if err := m.cache.Put(writeCtx, sig, query, result); err != nil {
		m.l.Warnf(ctx, "%s: cache put: %v", logPrefixExecute, err)
	}
	m.recordSuccess(writeCtx, sig, query)
	return result, false, nil
}

func (m *implMachine) recordSuccess(ctx context.Context, sig, query string) {
	if err := m.cache.RecordSuccess(ctx, sig, query); err != nil {
		m.l.Warnf(ctx, "%s: record success: %v", logPrefixExecute, err)
	}
}

func (m *implMachine) recordFailure(ctx context.Context, sig, query string) {
	if err := m.cache.RecordFailure(ctx, sig, query); err != nil {
		m.l.Warnf(ctx, "%s: record failure: %v", logPrefixExecute, err)
	}
}

// preview is the Intermediate Step payload shown once rows are in.
func preview(result string) any {
	var rows model.QueryResult
	if err := json.Unmarshal([]byte(result), &rows); err != nil {
		return map[string]any{"preview": truncate(result, 200)}
	}
	p := rows.Preview(previewRows)
	return map[string]any{
		"columns":    p.Columns,
		"rows":       p.Rows,
		"total_rows": len(rows.Rows),
	}
}

// truncate keeps at most n bytes of s, cutting on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
