package correction

import (
	"context"

	"golang.org/x/sync/singleflight"

	"query-gateway/internal/backend"
	"query-gateway/internal/querycache"
	"query-gateway/internal/sqlstore"
	"query-gateway/pkg/log"
)

// Limiter spaces backend calls. *ratelimit.Limiter satisfies it.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Options bounds the machine.
type Options struct {
	MaxCycles    int
	MaxToolSteps int
}

type implMachine struct {
	backend backend.Backend
	cache   querycache.Store
	store   sqlstore.Store
	limiter Limiter
	opt     Options
	l       log.Logger

	// inflight shares one database round trip between identical queries.
	inflight singleflight.Group
}

var _ Machine = (*implMachine)(nil)

// New creates a Machine.
func New(b backend.Backend, cache querycache.Store, store sqlstore.Store, limiter Limiter, opt Options, l log.Logger) *implMachine {
	if opt.MaxCycles <= 0 {
		opt.MaxCycles = DefaultMaxCycles
	}
	if opt.MaxToolSteps <= 0 {
		opt.MaxToolSteps = DefaultMaxToolSteps
	}
	return &implMachine{
		backend: b,
		cache:   cache,
		store:   store,
		limiter: limiter,
		opt:     opt,
		l:       l,
	}
}
