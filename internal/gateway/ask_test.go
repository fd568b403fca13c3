package gateway_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"query-gateway/internal/agent/tools"
	"query-gateway/internal/backend"
	"query-gateway/internal/conversation"
	"query-gateway/internal/correction"
	"query-gateway/internal/gateway"
	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/internal/ratelimit"
	"query-gateway/internal/retrieval"
	"query-gateway/internal/retrieval/lexical"
	"query-gateway/internal/status"
	"query-gateway/pkg/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type mockMachine struct {
	mu    sync.Mutex
	input correction.Input
	run   func(ctx context.Context, in correction.Input, ev correction.Emitter) (correction.Outcome, error)
}

func (m *mockMachine) Run(ctx context.Context, in correction.Input, ev correction.Emitter) (correction.Outcome, error) {
	m.mu.Lock()
	m.input = in
	m.mu.Unlock()
	return m.run(ctx, in, ev)
}

type mockStore struct{}

func (mockStore) Execute(context.Context, string) (model.QueryResult, error) {
	return model.QueryResult{Columns: []string{"first_name"}, Rows: [][]any{{"Ann"}}}, nil
}
func (mockStore) ListTables(context.Context) ([]string, error)             { return []string{"people"}, nil }
func (mockStore) DescribeTables(context.Context, []string) (string, error) { return "", nil }
func (mockStore) DistinctValues(context.Context, string) ([]string, error) { return nil, nil }

type failingIndex struct{ retrieval.Index }

func (failingIndex) Select(context.Context, string, int) ([]model.Exemplar, error) {
	return nil, errors.New("qdrant: connection refused")
}

func seedIndex() retrieval.Index {
	return lexical.New(retrieval.SeedData{Exemplars: []model.Exemplar{
		{Input: "List all events in 2024", Query: "SELECT * FROM event_company WHERE EXTRACT(YEAR FROM event_date) = 2024"},
		{Input: "Find people working in Japan", Query: "SELECT * FROM people WHERE country = 'Japan'"},
		{Input: "Count companies per industry", Query: "SELECT industry, COUNT(*) FROM companies GROUP BY industry"},
	}})
}

func newGateway(t *testing.T, m correction.Machine, index retrieval.Index) (gateway.Gateway, *conversation.Registry) {
	t.Helper()
	sessions := conversation.NewRegistry(10, time.Minute, log.NewNop())
	return gateway.New(m, sessions, index, mockStore{}, gateway.Options{K: 2}, log.NewNop()), sessions
}

func steps(events []model.StatusEvent) []model.Step {
	out := make([]model.Step, len(events))
	for i, ev := range events {
		out[i] = ev.Step
	}
	return out
}

func TestAsk_ComposesTheRequest(t *testing.T) {
	m := &mockMachine{run: func(_ context.Context, in correction.Input, ev correction.Emitter) (correction.Outcome, error) {
		assert.NoError(t, ev.Emit(model.StepProcessing, "working"))
		in.Session.AppendTurn(in.Question, "Ann")
		return correction.Outcome{Answer: "Ann"}, nil
	}}
	g, sessions := newGateway(t, m, seedIndex())

	events := status.Collect(g.Ask(context.Background(), "s1", "  Find people working in Singapore "))
	assert.Equal(t, []model.Step{model.StepInitializing, model.StepProcessing, model.StepFinalAnswer}, steps(events))
	assert.Equal(t, "Ann", events[2].Message)

	m.mu.Lock()
	in := m.input
	m.mu.Unlock()
	assert.Equal(t, "Find people working in Singapore", in.Question)
	require.Len(t, in.Exemplars, 2)
	assert.Equal(t, "Find people working in Japan", in.Exemplars[0].Input)
	_, ok := in.Tools.Get(tools.NameContextManager)
	assert.True(t, ok)

	session, ok := sessions.Lookup("s1")
	require.True(t, ok)
	assert.Len(t, session.GetContext().History, 1)
}

func TestAsk_EmptyQuestionFailsWithoutCallingTheMachine(t *testing.T) {
	called := false
	m := &mockMachine{run: func(context.Context, correction.Input, correction.Emitter) (correction.Outcome, error) {
		called = true
		return correction.Outcome{}, nil
	}}
	g, _ := newGateway(t, m, seedIndex())

	events := status.Collect(g.Ask(context.Background(), "", "   "))
	assert.False(t, called)
	assert.Equal(t, []model.Step{model.StepInitializing, model.StepIntermediateStep, model.StepError}, steps(events))
	assert.Equal(t, status.MsgNoProgress, events[1].Message)
	assert.Equal(t, correction.ErrEmptyQuestion.Error(), events[2].Message)
}

func TestAsk_FatalErrorsEndWithOneErrorEvent(t *testing.T) {
	m := &mockMachine{run: func(_ context.Context, _ correction.Input, ev correction.Emitter) (correction.Outcome, error) {
		_ = ev.Emit(model.StepProcessing, "Generating query (attempt 1)")
		return correction.Outcome{}, fmt.Errorf("%w: mutating statement: DELETE", correction.ErrPolicyViolation)
	}}
	g, _ := newGateway(t, m, seedIndex())

	events := status.Collect(g.Ask(context.Background(), "s", "Delete everyone"))
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, model.StepError, last.Step)
	assert.Contains(t, last.Message, "policy violation")
	for _, ev := range events[:len(events)-1] {
		assert.False(t, ev.Step.IsTerminal())
	}
}

func TestAsk_IndexFailureIsCollaboratorUnavailable(t *testing.T) {
	called := false
	m := &mockMachine{run: func(context.Context, correction.Input, correction.Emitter) (correction.Outcome, error) {
		called = true
		return correction.Outcome{}, nil
	}}
	g, _ := newGateway(t, m, failingIndex{})

	events := status.Collect(g.Ask(context.Background(), "s", "q"))
	assert.False(t, called)
	last := events[len(events)-1]
	assert.Equal(t, model.StepError, last.Step)
	assert.Contains(t, last.Message, correction.ErrCollaboratorUnavailable.Error())
}

func TestAsk_CancellationEndsWithError(t *testing.T) {
	m := &mockMachine{run: func(ctx context.Context, _ correction.Input, ev correction.Emitter) (correction.Outcome, error) {
		_ = ev.Emit(model.StepProcessing, "waiting")
		<-ctx.Done()
		return correction.Outcome{}, ctx.Err()
	}}
	g, _ := newGateway(t, m, seedIndex())

	ctx, cancel := context.WithCancel(context.Background())
	s := g.Ask(ctx, "s", "q")
	cancel()

	events := status.Collect(s)
	last := events[len(events)-1]
	assert.Equal(t, model.StepError, last.Step)
	assert.Contains(t, last.Message, "request cancelled")
}

func TestAsk_PanicIsReportedAsError(t *testing.T) {
	m := &mockMachine{run: func(context.Context, correction.Input, correction.Emitter) (correction.Outcome, error) {
		panic("boom")
	}}
	g, _ := newGateway(t, m, seedIndex())

	events := status.Collect(g.Ask(context.Background(), "s", "q"))
	last := events[len(events)-1]
	assert.Equal(t, model.StepError, last.Step)
	assert.Equal(t, "internal error: boom", last.Message)
}

// scriptedBackend answers every task with a fixed response.
type scriptedBackend map[backend.Task]backend.Response

func (b scriptedBackend) Invoke(_ context.Context, req backend.Request) (backend.Response, error) {
	resp, ok := b[req.Task]
	if !ok {
		return backend.Response{}, fmt.Errorf("unexpected task %s", req.Task)
	}
	return resp, nil
}

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]model.CacheEntry
	feedback map[string]model.FeedbackRecord
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]model.CacheEntry{}, feedback: map[string]model.FeedbackRecord{}}
}

func (c *memoryCache) Get(_ context.Context, sig string) (model.CacheEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sig]
	return e, ok, nil
}

func (c *memoryCache) Put(_ context.Context, sig, raw, result string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sig] = model.CacheEntry{Signature: sig, RawQuery: raw, Result: result, StoredAt: time.Now()}
	return nil
}

func (c *memoryCache) RecordSuccess(_ context.Context, sig, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.feedback[sig]
	rec.Signature, rec.Query = sig, raw
	rec.SuccessCount++
	c.feedback[sig] = rec
	return nil
}

func (c *memoryCache) RecordFailure(_ context.Context, sig, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.feedback[sig]
	rec.Signature, rec.Query = sig, raw
	rec.FailureCount++
	c.feedback[sig] = rec
	return nil
}

func (c *memoryCache) Feedback(_ context.Context, sig string) (model.FeedbackRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.feedback[sig]
	return rec, ok, nil
}

func TestAsk_EndToEndSingaporeQuestion(t *testing.T) {
	const query = "SELECT first_name FROM people WHERE country = 'Singapore'"
	b := scriptedBackend{
		backend.TaskGenerate: {Kind: backend.KindToolCall, ToolName: backend.ToolSubmitQuery, Args: map[string]any{"query": query}},
		backend.TaskVerify:   {Kind: backend.KindToolCall, ToolName: backend.ToolSubmitQuery, Args: map[string]any{"query": query}},
		backend.TaskExecute:  {Kind: backend.KindFinalMessage, Text: "Ann works in Singapore. (" + query + ")"},
	}
	cache := newMemoryCache()
	machine := correction.New(b, cache, mockStore{}, ratelimit.New(0), correction.Options{}, log.NewNop())
	g, sessions := newGateway(t, machine, seedIndex())

	events := status.Collect(g.Ask(context.Background(), "s", "Find me people working in Singapore"))
	require.NotEmpty(t, events)
	assert.Equal(t, model.StepInitializing, events[0].Step)
	assert.Equal(t, model.StepFinalizing, events[len(events)-2].Step)

	final := events[len(events)-1]
	assert.Equal(t, model.StepFinalAnswer, final.Step)
	answer, ok := final.Message.(string)
	require.True(t, ok)
	assert.False(t, strings.Contains(answer, "SELECT"), "answer leaks query text: %q", answer)

	session, _ := sessions.Lookup("s")
	assert.Len(t, session.GetContext().History, 1)

	rec, found, _ := cache.Feedback(context.Background(), querycache.Signature(query))
	require.True(t, found)
	assert.Equal(t, int64(1), rec.SuccessCount)
}
