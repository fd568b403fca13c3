package http

import (
	"query-gateway/internal/querycache"
	"query-gateway/pkg/log"
)

type handler struct {
	l     log.Logger
	store querycache.Store
}

// New creates the HTTP handler for the feedback ledger.
func New(l log.Logger, store querycache.Store) *handler {
	return &handler{l: l, store: store}
}
