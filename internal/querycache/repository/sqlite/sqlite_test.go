package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/internal/querycache/repository"
	"query-gateway/internal/querycache/repository/sqlite"
	"query-gateway/pkg/log"
)

func newRepo(t *testing.T) repository.Repository {
	t.Helper()
	r, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "cache", "gateway.db"), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestEntry_MissThenOverwrite(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	got, err := r.GetEntry(ctx, "sig")
	require.NoError(t, err)
	assert.Empty(t, got.Signature)

	now := time.Now()
	require.NoError(t, r.UpsertEntry(ctx, repository.UpsertEntryOptions{Signature: "sig", RawQuery: "SELECT 1", Result: "r1", StoredAt: now}))
	require.NoError(t, r.UpsertEntry(ctx, repository.UpsertEntryOptions{Signature: "sig", RawQuery: "SELECT 1", Result: "r2", StoredAt: now.Add(time.Second)}))

	got, err = r.GetEntry(ctx, "sig")
	require.NoError(t, err)
	assert.Equal(t, "sig", got.Signature)
	assert.Equal(t, "r2", got.Result)
	assert.Equal(t, now.Add(time.Second).UnixNano(), got.StoredAt.UnixNano())
}

func TestFeedback_CreatesAndIncrements(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	rec, err := r.GetFeedback(ctx, "sig")
	require.NoError(t, err)
	assert.Empty(t, rec.Signature)

	require.NoError(t, r.IncrementFeedback(ctx, repository.IncrementFeedbackOptions{Signature: "sig", RawQuery: "q", Outcome: repository.OutcomeFailure, UsedAt: time.Now()}))
	require.NoError(t, r.IncrementFeedback(ctx, repository.IncrementFeedbackOptions{Signature: "sig", RawQuery: "q", Outcome: repository.OutcomeSuccess, UsedAt: time.Now()}))
	require.NoError(t, r.IncrementFeedback(ctx, repository.IncrementFeedbackOptions{Signature: "sig", RawQuery: "q", Outcome: repository.OutcomeSuccess, UsedAt: time.Now()}))

	rec, err = r.GetFeedback(ctx, "sig")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.SuccessCount)
	assert.Equal(t, int64(1), rec.FailureCount)
	assert.Equal(t, "q", rec.Query)
}

func TestFeedback_ConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.IncrementFeedback(ctx, repository.IncrementFeedbackOptions{
				Signature: "hot", RawQuery: "SELECT 1", Outcome: repository.OutcomeSuccess, UsedAt: time.Now(),
			}))
		}()
	}
	wg.Wait()

	rec, err := r.GetFeedback(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), rec.SuccessCount)
	assert.Zero(t, rec.FailureCount)
}

func TestNew_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gateway.db")

	r, err := sqlite.New(ctx, path, log.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.UpsertEntry(ctx, repository.UpsertEntryOptions{Signature: "s", RawQuery: "q", Result: "rows", StoredAt: time.Now()}))
	require.NoError(t, r.Close())

	r, err = sqlite.New(ctx, path, log.NewNop())
	require.NoError(t, err)
	defer r.Close()

	got, err := r.GetEntry(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "rows", got.Result)
}
