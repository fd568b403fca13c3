package backend

import "query-gateway/pkg/llmprovider"

func stringParam(name, description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			name: map[string]interface{}{"type": "string", "description": description},
		},
		"required": []string{name},
	}
}

// TerminalTools returns the tools that end a turn of task.
func TerminalTools(task Task) []llmprovider.Tool {
	switch task {
	case TaskGenerate:
		return []llmprovider.Tool{{
			Name:        ToolSubmitQuery,
			Description: "Submit the final read-only SQL query that answers the question.",
			Parameters:  stringParam("query", "The SQL query"),
		}}
	case TaskVerify:
		return []llmprovider.Tool{
			{
				Name:        ToolSubmitQuery,
				Description: "Approve the query, rewritten if it had mistakes.",
				Parameters:  stringParam("query", "The checked SQL query"),
			},
			{
				Name:        ToolRejectQuery,
				Description: "Reject the query when it cannot answer the question.",
				Parameters:  stringParam("reason", "Why the query is wrong"),
			},
		}
	case TaskExecute:
		return []llmprovider.Tool{{
			Name:        ToolSubmitAnswer,
			Description: "Submit the final answer to the user.",
			Parameters:  stringParam("final_answer", "The answer shown to the user"),
		}}
	default:
		return nil
	}
}
