package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/internal/ratelimit"
)

func TestAcquire_SpacesCalls(t *testing.T) {
	const delay = 40 * time.Millisecond
	l := ratelimit.New(delay)
	ctx := context.Background()

	var mu sync.Mutex
	var grants []time.Time
	errs := make(chan error, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(ctx); err != nil {
				errs <- err
				return
			}
			mu.Lock()
			grants = append(grants, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	require.Len(t, grants, 4)
	first, last := grants[0], grants[0]
	for _, g := range grants {
		if g.Before(first) {
			first = g
		}
		if g.After(last) {
			last = g
		}
	}
	// Four grants need at least three full gaps; allow scheduler slack.
	assert.GreaterOrEqual(t, last.Sub(first), 3*delay-10*time.Millisecond)
}

func TestAcquire_GrantsInArrivalOrder(t *testing.T) {
	const (
		delay   = 50 * time.Millisecond
		stagger = 5 * time.Millisecond
		waiters = 5
	)
	l := ratelimit.New(delay)
	ctx := context.Background()
	// Hold the current slot so every waiter below has to queue.
	require.NoError(t, l.Acquire(ctx))

	var mu sync.Mutex
	var order []int
	errs := make(chan error, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := l.Acquire(ctx); err != nil {
				errs <- err
				return
			}
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}(i)
		// Waiter i has queued well before waiter i+1 arrives.
		time.Sleep(stagger)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestAcquire_CancelledWaiterDoesNotDelayOthers(t *testing.T) {
	const delay = 60 * time.Millisecond
	l := ratelimit.New(delay)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx) }()
	time.Sleep(5 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The cancelled reservation is returned, so the next caller waits one
	// gap rather than two.
	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	assert.Less(t, time.Since(start), 2*delay-10*time.Millisecond)
}

func TestAcquire_ZeroDelayPassesThrough(t *testing.T) {
	l := ratelimit.New(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestAcquire_Cancelled(t *testing.T) {
	l := ratelimit.New(time.Hour)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	assert.ErrorIs(t, l.Acquire(ctx), context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
