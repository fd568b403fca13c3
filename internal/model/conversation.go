package model

import "time"

// DefaultHistoryLimit bounds the number of turns kept per session.
const DefaultHistoryLimit = 10

// ConversationTurn is one resolved question and the answer returned for it.
type ConversationTurn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationContext is the per-session memory consulted before each request.
// History is ordered oldest first.
type ConversationContext struct {
	History    []ConversationTurn `json:"conversation_history"`
	LastResult *string            `json:"last_query_result"`
}

// IsEmpty reports whether the context holds neither history nor a last result.
func (c ConversationContext) IsEmpty() bool {
	return len(c.History) == 0 && c.LastResult == nil
}

// Clone returns a deep copy so callers can not mutate the owner's state.
// History is never nil in the copy so it encodes as an empty list.
func (c ConversationContext) Clone() ConversationContext {
	out := ConversationContext{History: make([]ConversationTurn, len(c.History))}
	copy(out.History, c.History)
	if c.LastResult != nil {
		v := *c.LastResult
		out.LastResult = &v
	}
	return out
}
