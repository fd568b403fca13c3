package conversation_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/internal/conversation"
	"query-gateway/internal/model"
	"query-gateway/pkg/log"
)

func TestAppendTurn_EvictsOldestBeyondBound(t *testing.T) {
	m := conversation.NewManager(10)
	for i := 1; i <= 11; i++ {
		m.AppendTurn(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	ctx := m.GetContext()
	require.Len(t, ctx.History, 10)
	assert.Equal(t, "q2", ctx.History[0].Question)
	assert.Equal(t, "q11", ctx.History[9].Question)
	require.NotNil(t, ctx.LastResult)
	assert.Equal(t, "a11", *ctx.LastResult)
}

func TestGetContext_IsASnapshot(t *testing.T) {
	m := conversation.NewManager(3)
	m.AppendTurn("q1", "a1")

	snap := m.GetContext()
	snap.History[0].Answer = "tampered"
	*snap.LastResult = "tampered"

	again := m.GetContext()
	assert.Equal(t, "a1", again.History[0].Answer)
	assert.Equal(t, "a1", *again.LastResult)
}

func TestUpdateContext_MalformedLeavesStateUnchanged(t *testing.T) {
	m := conversation.NewManager(10)
	m.AppendTurn("q1", "a1")
	before := m.GetContext()

	for _, raw := range []string{
		`not json`,
		`[1,2,3]`,
		`{"conversation_history": "nope"}`,
		`{"conversation_history": [], "last_query_result": 42}`,
		`{"conversation_history": [`,
		``,
	} {
		err := m.UpdateContext([]byte(raw))
		assert.ErrorIs(t, err, conversation.ErrContextFormat, "payload %q", raw)
	}

	if diff := cmp.Diff(before, m.GetContext()); diff != "" {
		t.Errorf("context changed after rejected updates (-before +after):\n%s", diff)
	}
}

func TestUpdateContext_MergesPresentKeysOnly(t *testing.T) {
	m := conversation.NewManager(2)
	m.AppendTurn("q1", "a1")

	require.NoError(t, m.UpdateContext([]byte(`{"last_query_result": "override"}`)))
	ctx := m.GetContext()
	require.Len(t, ctx.History, 1)
	assert.Equal(t, "override", *ctx.LastResult)

	require.NoError(t, m.UpdateContext([]byte(`{"conversation_history": [
		{"question": "x1", "answer": "y1"},
		{"question": "x2", "answer": "y2"},
		{"question": "x3", "answer": "y3"}
	], "unknown_key": true}`)))
	ctx = m.GetContext()
	require.Len(t, ctx.History, 2)
	assert.Equal(t, "x2", ctx.History[0].Question)
	assert.False(t, ctx.History[0].Timestamp.IsZero())
	assert.Equal(t, "override", *ctx.LastResult)

	require.NoError(t, m.UpdateContext([]byte(`{"last_query_result": null}`)))
	assert.Nil(t, m.GetContext().LastResult)
}

func TestManage_ToolProtocol(t *testing.T) {
	m := conversation.NewManager(10)

	assert.Equal(t, conversation.MsgContextUpdated, m.Manage(`update: {"last_query_result": "42 rows"}`))
	assert.Equal(t, conversation.MsgInvalidJSON, m.Manage(`update: {broken`))
	assert.Equal(t, conversation.MsgInvalidAction, m.Manage(`delete everything`))

	var got model.ConversationContext
	require.NoError(t, json.Unmarshal([]byte(m.Manage("get")), &got))
	require.NotNil(t, got.LastResult)
	assert.Equal(t, "42 rows", *got.LastResult)
}

func TestManager_ConcurrentMutationsAreAtomic(t *testing.T) {
	m := conversation.NewManager(10)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.AppendTurn(fmt.Sprintf("q%d", i), "a")
		}(i)
		go func() {
			defer wg.Done()
			_ = m.GetContext()
		}()
	}
	wg.Wait()
	assert.Len(t, m.GetContext().History, 10)
}

func TestRegistry_SessionsAreIsolatedAndExpire(t *testing.T) {
	r := conversation.NewRegistry(10, 50*time.Millisecond, log.NewNop())

	a, err := r.Session("a")
	require.NoError(t, err)
	b, err := r.Session("b")
	require.NoError(t, err)
	a.AppendTurn("qa", "aa")

	assert.Empty(t, b.GetContext().History)
	same, _ := r.Session("a")
	assert.Same(t, a, same)

	_, err = r.Session("")
	assert.ErrorIs(t, err, conversation.ErrSessionIDRequired)

	time.Sleep(80 * time.Millisecond)
	_, ok := r.Lookup("a")
	assert.False(t, ok, "idle session should expire")

	fresh, err := r.Session("a")
	require.NoError(t, err)
	assert.True(t, fresh.GetContext().IsEmpty())
}
