package tools

import (
	"context"
	"fmt"

	"query-gateway/internal/agent"
	"query-gateway/internal/conversation"
)

// ContextManagerTool exposes one session's conversation context.
type ContextManagerTool struct {
	session *conversation.Manager
}

// NewContextManagerTool creates the context_manager tool bound to session.
func NewContextManagerTool(session *conversation.Manager) agent.Tool {
	return &ContextManagerTool{session: session}
}

func (t *ContextManagerTool) Name() string {
	return NameContextManager
}

func (t *ContextManagerTool) Description() string {
	return "Use this tool to retrieve or update the conversation context. " +
		"Input should be 'get' to retrieve context or 'update: <new_context>' to update it."
}

func (t *ContextManagerTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type":        "string",
				"description": "'get' or 'update: <json>'",
			},
		},
		"required": []string{"action"},
	}
}

func (t *ContextManagerTool) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	action, ok := params["action"].(string)
	if !ok {
		return "", fmt.Errorf("action parameter is required")
	}
	return t.session.Manage(action), nil
}
