package llm

import (
	"context"

	"query-gateway/internal/backend"
	"query-gateway/pkg/llmprovider"
	"query-gateway/pkg/log"
)

// Generator is the part of llmprovider.Manager the backend needs.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Options tunes generation.
type Options struct {
	Dialect     string
	Temperature float64
	MaxTokens   int
}

type implBackend struct {
	gen Generator
	opt Options
	l   log.Logger
}

var _ backend.Backend = (*implBackend)(nil)

// New creates an LLM-backed Backend.
func New(gen Generator, opt Options, l log.Logger) *implBackend {
	if opt.Dialect == "" {
		opt.Dialect = DefaultDialect
	}
	if opt.MaxTokens <= 0 {
		opt.MaxTokens = 1000
	}
	return &implBackend{gen: gen, opt: opt, l: l}
}
