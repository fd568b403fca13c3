package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"query-gateway/internal/model"
)

// Manager owns one session's conversation context. All methods are safe for
// concurrent use and mutations are applied atomically.
type Manager struct {
	mu    sync.Mutex
	state model.ConversationContext
	limit int
	now   func() time.Time
}

// NewManager creates an empty context bounded to limit turns.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = model.DefaultHistoryLimit
	}
	return &Manager{limit: limit, now: time.Now}
}

// GetContext returns a snapshot that later mutations do not affect.
func (m *Manager) GetContext() model.ConversationContext {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// contextUpdate detects which keys were present in an update document.
type contextUpdate struct {
	History    *[]model.ConversationTurn `json:"conversation_history"`
	LastResult json.RawMessage           `json:"last_query_result"`
}

// UpdateContext merges a JSON document into the context. Only the keys present
// are replaced. On error the context is left untouched.
func (m *Manager) UpdateContext(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrContextFormat)
	}

	var upd contextUpdate
	if err := json.Unmarshal(trimmed, &upd); err != nil {
		return fmt.Errorf("%w: %v", ErrContextFormat, err)
	}

	var (
		setResult bool
		result    *string
	)
	if upd.LastResult != nil {
		setResult = true
		if !bytes.Equal(bytes.TrimSpace(upd.LastResult), []byte("null")) {
			var s string
			if err := json.Unmarshal(upd.LastResult, &s); err != nil {
				return fmt.Errorf("%w: last_query_result must be a string or null", ErrContextFormat)
			}
			result = &s
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if upd.History != nil {
		history := *upd.History
		if len(history) > m.limit {
			history = history[len(history)-m.limit:]
		}
		now := m.now()
		next := make([]model.ConversationTurn, len(history))
		for i, turn := range history {
			if turn.Timestamp.IsZero() {
				turn.Timestamp = now
			}
			next[i] = turn
		}
		m.state.History = next
	}
	if setResult {
		m.state.LastResult = result
	}
	return nil
}

// AppendTurn records a resolved exchange, evicting the oldest turn beyond the
// bound, and makes answer the last result.
func (m *Manager) AppendTurn(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.History = append(m.state.History, model.ConversationTurn{
		Question:  question,
		Answer:    answer,
		Timestamp: m.now(),
	})
	if over := len(m.state.History) - m.limit; over > 0 {
		m.state.History = append([]model.ConversationTurn(nil), m.state.History[over:]...)
	}
	a := answer
	m.state.LastResult = &a
}

// Reset clears history and the last result.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.ConversationContext{}
}

// Manage implements the textual tool protocol offered to the backend:
// "get" returns the context as JSON and "update: <json>" merges a document.
func (m *Manager) Manage(action string) string {
	action = strings.TrimSpace(action)
	switch {
	case action == ActionGet:
		raw, err := json.Marshal(m.GetContext())
		if err != nil {
			return "Error: " + err.Error()
		}
		return string(raw)
	case strings.HasPrefix(action, ActionUpdate):
		if err := m.UpdateContext([]byte(strings.TrimSpace(action[len(ActionUpdate):]))); err != nil {
			return MsgInvalidJSON
		}
		return MsgContextUpdated
	default:
		return MsgInvalidAction
	}
}
