package llmprovider

import (
	"context"
	"encoding/json"

	"query-gateway/pkg/anthropic"
	"query-gateway/pkg/gemini"
	"query-gateway/pkg/openaicompat"
)

// Role names used in normalized messages
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// GeminiAdapter adapts pkg/gemini to the Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

func (a *GeminiAdapter) Name() string  { return "gemini" }
func (a *GeminiAdapter) Model() string { return a.client.Model() }

// GenerateContent implements Provider
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	greq := gemini.GenerateRequest{
		Contents:         make([]gemini.Content, 0, len(req.Messages)),
		GenerationConfig: &gemini.GenerationConfig{Temperature: floatPtr(req.Temperature), MaxOutputTokens: req.MaxTokens},
	}
	if req.SystemInstruction != nil {
		greq.SystemInstruction = &gemini.Content{Parts: toGeminiParts(req.SystemInstruction.Parts)}
	}
	for _, msg := range req.Messages {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		greq.Contents = append(greq.Contents, gemini.Content{Role: role, Parts: toGeminiParts(msg.Parts)})
	}
	if len(req.Tools) > 0 {
		decls := make([]gemini.FunctionDeclaration, len(req.Tools))
		for i, t := range req.Tools {
			decls[i] = gemini.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
		}
		greq.Tools = []gemini.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := a.client.GenerateContent(ctx, greq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      Message{Role: RoleAssistant},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.UsageMetadata != nil {
		out.Usage = &Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}
	if len(resp.Candidates) == 0 {
		return out, nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		part := Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		out.Content.Parts = append(out.Content.Parts, part)
	}
	return out, nil
}

func toGeminiParts(parts []Part) []gemini.Part {
	out := make([]gemini.Part, len(parts))
	for i, p := range parts {
		out[i] = gemini.Part{Text: p.Text}
		if p.FunctionCall != nil {
			out[i].FunctionCall = &gemini.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if p.FunctionResponse != nil {
			out[i].FunctionResponse = &gemini.FunctionResponse{
				Name:     p.FunctionResponse.Name,
				Response: map[string]interface{}{"content": p.FunctionResponse.Response},
			}
		}
	}
	return out
}

// OpenAICompatAdapter adapts pkg/openaicompat (Qwen, DeepSeek, OpenAI) to the Provider interface
type OpenAICompatAdapter struct {
	client *openaicompat.Client
}

// NewOpenAICompatAdapter creates a new OpenAI-compatible adapter
func NewOpenAICompatAdapter(client *openaicompat.Client) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{client: client}
}

func (a *OpenAICompatAdapter) Name() string  { return a.client.Vendor() }
func (a *OpenAICompatAdapter) Model() string { return a.client.Model() }

// GenerateContent implements Provider
func (a *OpenAICompatAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	creq := openaicompat.ChatRequest{
		Temperature: floatPtr(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemInstruction != nil {
		creq.Messages = append(creq.Messages, openaicompat.Message{Role: RoleSystem, Content: req.SystemInstruction.Text()})
	}
	for _, msg := range req.Messages {
		creq.Messages = append(creq.Messages, toOpenAIMessages(msg)...)
	}
	for _, t := range req.Tools {
		creq.Tools = append(creq.Tools, openaicompat.Tool{
			Type:     "function",
			Function: openaicompat.FunctionDecl{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}

	resp, err := a.client.ChatCompletion(ctx, creq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      Message{Role: RoleAssistant},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) == 0 {
		return out, nil
	}
	choice := resp.Choices[0].Message
	if choice.Content != "" {
		out.Content.Parts = append(out.Content.Parts, Part{Text: choice.Content})
	}
	for _, tc := range choice.ToolCalls {
		args := map[string]interface{}{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = map[string]interface{}{}
			}
		}
		out.Content.Parts = append(out.Content.Parts, Part{
			FunctionCall: &FunctionCall{ID: tc.ID, Name: tc.Function.Name, Args: args},
		})
	}
	return out, nil
}

// toOpenAIMessages splits one normalized message into chat messages: tool
// responses become one "tool" message each.
func toOpenAIMessages(msg Message) []openaicompat.Message {
	base := openaicompat.Message{Role: msg.Role}
	var tools []openaicompat.Message
	for _, p := range msg.Parts {
		if p.Text != "" {
			if base.Content != "" {
				base.Content += "\n"
			}
			base.Content += p.Text
		}
		if p.FunctionCall != nil {
			argsJSON, _ := json.Marshal(p.FunctionCall.Args)
			base.ToolCalls = append(base.ToolCalls, openaicompat.ToolCall{
				ID:       callID(p.FunctionCall.ID, p.FunctionCall.Name),
				Type:     "function",
				Function: openaicompat.FunctionCall{Name: p.FunctionCall.Name, Arguments: string(argsJSON)},
			})
		}
		if p.FunctionResponse != nil {
			tools = append(tools, openaicompat.Message{
				Role:       "tool",
				ToolCallID: callID(p.FunctionResponse.ID, p.FunctionResponse.Name),
				Content:    responseText(p.FunctionResponse.Response),
			})
		}
	}
	if base.Content == "" && len(base.ToolCalls) == 0 {
		return tools
	}
	return append([]openaicompat.Message{base}, tools...)
}

// AnthropicAdapter adapts pkg/anthropic to the Provider interface
type AnthropicAdapter struct {
	client *anthropic.Client
}

// NewAnthropicAdapter creates a new Anthropic adapter
func NewAnthropicAdapter(client *anthropic.Client) *AnthropicAdapter {
	return &AnthropicAdapter{client: client}
}

func (a *AnthropicAdapter) Name() string  { return "anthropic" }
func (a *AnthropicAdapter) Model() string { return a.client.Model() }

// GenerateContent implements Provider
func (a *AnthropicAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	areq := anthropic.MessagesRequest{
		MaxTokens:   req.MaxTokens,
		Temperature: floatPtr(req.Temperature),
	}
	if req.SystemInstruction != nil {
		areq.System = req.SystemInstruction.Text()
	}
	for _, msg := range req.Messages {
		role := RoleUser
		if msg.Role == RoleAssistant {
			role = RoleAssistant
		}
		blocks := make([]anthropic.ContentBlock, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch {
			case p.FunctionCall != nil:
				input := p.FunctionCall.Args
				if input == nil {
					input = map[string]interface{}{}
				}
				blocks = append(blocks, anthropic.ContentBlock{
					Type:  anthropic.BlockToolUse,
					ID:    callID(p.FunctionCall.ID, p.FunctionCall.Name),
					Name:  p.FunctionCall.Name,
					Input: input,
				})
			case p.FunctionResponse != nil:
				blocks = append(blocks, anthropic.ContentBlock{
					Type:      anthropic.BlockToolResult,
					ToolUseID: callID(p.FunctionResponse.ID, p.FunctionResponse.Name),
					Content:   responseText(p.FunctionResponse.Response),
				})
			case p.Text != "":
				blocks = append(blocks, anthropic.ContentBlock{Type: anthropic.BlockText, Text: p.Text})
			}
		}
		areq.Messages = append(areq.Messages, anthropic.Message{Role: role, Content: blocks})
	}
	for _, t := range req.Tools {
		schema := t.Parameters
		if schema == nil {
			schema = map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
		}
		areq.Tools = append(areq.Tools, anthropic.Tool{Name: t.Name, Description: t.Description, InputSchema: schema})
	}

	resp, err := a.client.CreateMessage(ctx, areq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      Message{Role: RoleAssistant},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
	for _, b := range resp.Content {
		switch b.Type {
		case anthropic.BlockText:
			out.Content.Parts = append(out.Content.Parts, Part{Text: b.Text})
		case anthropic.BlockToolUse:
			args, _ := b.Input.(map[string]interface{})
			if args == nil {
				args = map[string]interface{}{}
			}
			out.Content.Parts = append(out.Content.Parts, Part{
				FunctionCall: &FunctionCall{ID: b.ID, Name: b.Name, Args: args},
			})
		}
	}
	return out, nil
}

func callID(id, name string) string {
	if id != "" {
		return id
	}
	return "call_" + name
}

func responseText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

func floatPtr(f float64) *float64 {
	return &f
}
