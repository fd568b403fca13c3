package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"query-gateway/internal/backend"
	"query-gateway/internal/retrieval"
	"query-gateway/pkg/llmprovider"
)

// Invoke sends one task to the provider chain and normalizes the reply.
func (b *implBackend) Invoke(ctx context.Context, req backend.Request) (backend.Response, error) {
	preq := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{Role: llmprovider.RoleSystem, Parts: []llmprovider.Part{{Text: b.systemPrompt(req.Task)}}},
		Messages:          b.messages(req),
		Temperature:       b.opt.Temperature,
		MaxTokens:         b.opt.MaxTokens,
	}
	if req.Task == backend.TaskGenerate {
		preq.Tools = append(preq.Tools, req.Tools...)
	}
	preq.Tools = append(preq.Tools, backend.TerminalTools(req.Task)...)

	resp, err := b.gen.GenerateContent(ctx, preq)
	if err != nil {
		return backend.Response{}, err
	}
	b.l.Debugf(ctx, "%s: task=%s provider=%s model=%s", logPrefixInvoke, req.Task, resp.ProviderName, resp.ModelName)
	if resp.Usage != nil {
		b.l.Infof(ctx, "%s: task=%s tokens in=%d out=%d total=%d", logPrefixInvoke, req.Task,
			resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)
	}

	if call := resp.Content.FirstCall(); call != nil {
		return backend.Response{Kind: backend.KindToolCall, ToolName: call.Name, Args: call.Args}, nil
	}

	text := strings.TrimSpace(resp.Content.Text())
	if req.Task == backend.TaskDecide {
		return parseDecision(text), nil
	}
	return backend.Response{Kind: backend.KindFinalMessage, Text: text}, nil
}

func (b *implBackend) systemPrompt(task backend.Task) string {
	switch task {
	case backend.TaskDecide:
		return promptDecide
	case backend.TaskVerify:
		return fmt.Sprintf(promptVerify, b.opt.Dialect)
	case backend.TaskExecute:
		return promptExecute
	default:
		return fmt.Sprintf(promptGenerate, b.opt.Dialect)
	}
}

func (b *implBackend) messages(req backend.Request) []llmprovider.Message {
	parts := []string{fmt.Sprintf(fragmentQuestion, req.Question)}

	switch req.Task {
	case backend.TaskDecide:
		parts = append(parts, fmt.Sprintf(fragmentContext, contextJSON(req)))

	case backend.TaskGenerate:
		if len(req.Exemplars) > 0 {
			parts = append(parts, fmt.Sprintf(fragmentExamples, retrieval.Format(req.Exemplars)))
		}
		if !req.Context.IsEmpty() {
			parts = append(parts, fmt.Sprintf(fragmentContext, contextJSON(req)))
		}
		if len(req.PriorErrors) > 0 {
			parts = append(parts, fmt.Sprintf(fragmentErrors, strings.Join(req.PriorErrors, "\n")))
		}
		parts = append(parts, fragmentGenerate)

	case backend.TaskVerify:
		parts = append(parts, fmt.Sprintf(fragmentCandidate, req.Candidate))

	case backend.TaskExecute:
		parts = append(parts, fmt.Sprintf(fragmentCandidate, req.Candidate), fmt.Sprintf(fragmentResult, req.Result))
	}

	msgs := []llmprovider.Message{{
		Role:  llmprovider.RoleUser,
		Parts: []llmprovider.Part{{Text: strings.Join(parts, "\n\n")}},
	}}

	for i, step := range req.Transcript {
		id := fmt.Sprintf("call_%d", i+1)
		args := step.Args
		if args == nil {
			args = map[string]interface{}{}
		}
		msgs = append(msgs,
			llmprovider.Message{Role: llmprovider.RoleAssistant, Parts: []llmprovider.Part{{
				FunctionCall: &llmprovider.FunctionCall{ID: id, Name: step.ToolName, Args: args},
			}}},
			llmprovider.Message{Role: llmprovider.RoleUser, Parts: []llmprovider.Part{{
				FunctionResponse: &llmprovider.FunctionResponse{ID: id, Name: step.ToolName, Response: step.Observation},
			}}},
		)
	}
	return msgs
}

func contextJSON(req backend.Request) string {
	raw, err := json.Marshal(req.Context)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

type decision struct {
	Decision  string `json:"decision"`
	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning"`
}

// parseDecision maps the router JSON onto a terminal tool call. Anything it
// cannot read means generate.
func parseDecision(text string) backend.Response {
	generate := backend.Response{Kind: backend.KindToolCall, ToolName: backend.ToolGenerateQuery, Args: map[string]any{}}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var d decision
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return generate
	}
	if strings.EqualFold(strings.TrimSpace(d.Decision), "resolved") && strings.TrimSpace(d.Answer) != "" {
		return backend.Response{
			Kind:     backend.KindToolCall,
			ToolName: backend.ToolAnswerFromContext,
			Args:     map[string]any{"answer": d.Answer, "reasoning": d.Reasoning},
		}
	}
	generate.Args["reasoning"] = d.Reasoning
	return generate
}
