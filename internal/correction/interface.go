package correction

import (
	"context"

	"query-gateway/internal/agent"
	"query-gateway/internal/conversation"
	"query-gateway/internal/model"
)

// Decision is the outcome of the Decide state.
type Decision int

const (
	// DecisionGenerate means a new query must be written.
	DecisionGenerate Decision = iota
	// DecisionResolved means the conversation context already answers the question.
	DecisionResolved
)

func (d Decision) String() string {
	if d == DecisionResolved {
		return "resolved"
	}
	return "generate"
}

// Emitter receives progress events. *status.Stream satisfies it.
type Emitter interface {
	Emit(step model.Step, message any) error
}

// Input is one question to resolve.
type Input struct {
	Question  string
	Exemplars []model.Exemplar
	// Session holds the conversation. A nil session means a one-off question.
	Session *conversation.Manager
	// Tools are the exploration tools offered during Generate. May be nil.
	Tools *agent.ToolRegistry
}

// Outcome is a resolved question.
type Outcome struct {
	Answer   string
	Decision Decision
	// Cycles is the number of corrective cycles used.
	Cycles int
	// CacheHit is set when the accepted query was served from the cache.
	CacheHit bool
}

// Machine runs the bounded Decide, Generate, Verify, Execute, Regenerate and
// Finalize cycle for one question. It emits progress but never a terminal
// event; the caller closes the stream with the returned answer or error.
type Machine interface {
	Run(ctx context.Context, in Input, ev Emitter) (Outcome, error)
}
