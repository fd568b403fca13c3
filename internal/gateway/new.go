package gateway

import (
	"query-gateway/internal/conversation"
	"query-gateway/internal/correction"
	"query-gateway/internal/retrieval"
	"query-gateway/internal/sqlstore"
	"query-gateway/pkg/log"
)

const logPrefixAsk = "internal.gateway.Ask"

// Options tunes request composition.
type Options struct {
	// K is the number of exemplars retrieved per question.
	K int
}

type implGateway struct {
	machine   correction.Machine
	sessions  *conversation.Registry
	retriever retrieval.Retriever
	searcher  retrieval.ValueSearcher
	store     sqlstore.Store
	opt       Options
	l         log.Logger
}

var _ Gateway = (*implGateway)(nil)

// New creates a Gateway. store and searcher back the exploration tools.
func New(
	machine correction.Machine,
	sessions *conversation.Registry,
	index retrieval.Index,
	store sqlstore.Store,
	opt Options,
	l log.Logger,
) *implGateway {
	if opt.K <= 0 {
		opt.K = retrieval.DefaultK
	}
	return &implGateway{
		machine:   machine,
		sessions:  sessions,
		retriever: index,
		searcher:  index,
		store:     store,
		opt:       opt,
		l:         l,
	}
}
