package backend

import (
	"context"

	"query-gateway/internal/model"
	"query-gateway/pkg/llmprovider"
)

// Task selects what the backend is asked to do.
type Task string

const (
	// TaskDecide asks whether the conversation context already answers the question.
	TaskDecide Task = "decide"
	// TaskGenerate asks for a candidate query, possibly after exploration tool calls.
	TaskGenerate Task = "generate"
	// TaskVerify asks for a review of a candidate query.
	TaskVerify Task = "verify"
	// TaskExecute asks for an answer built from executed rows.
	TaskExecute Task = "execute"
)

// Kind tells a tool call from a plain message.
type Kind string

const (
	KindFinalMessage Kind = "final_message"
	KindToolCall     Kind = "tool_call"
)

// Terminal tool names the backend uses to hand control back.
const (
	ToolSubmitQuery       = "submit_query"
	ToolRejectQuery       = "reject_query"
	ToolSubmitAnswer      = "submit_answer"
	ToolAnswerFromContext = "answer_from_context"
	ToolGenerateQuery     = "generate_query"
)

// Step is one exploration tool call and what it returned.
type Step struct {
	ToolName    string
	Args        map[string]any
	Observation string
}

// Request is one backend invocation.
type Request struct {
	Task        Task
	Question    string
	Exemplars   []model.Exemplar
	Context     model.ConversationContext
	PriorErrors []string
	// Transcript holds the exploration steps of the current Generate turn.
	Transcript []Step
	// Candidate is the query under review (Verify) or executed (Execute).
	Candidate string
	// Result is the rendered rows (Execute).
	Result string
	// Tools are exploration tools offered in addition to the terminal ones.
	Tools []llmprovider.Tool
}

// Response is what the backend answered.
type Response struct {
	Kind     Kind
	ToolName string
	Args     map[string]any
	Text     string
}

// Arg returns the string argument name, or "" when absent or not a string.
func (r Response) Arg(name string) string {
	s, _ := r.Args[name].(string)
	return s
}

// Backend turns natural-language questions into SQL and answers.
// Implementations must be safe for concurrent use.
type Backend interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}
