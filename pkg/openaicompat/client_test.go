package openaicompat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"query-gateway/pkg/openaicompat"
)

func TestConfig_Presets(t *testing.T) {
	cfg := openaicompat.Config{Vendor: "deepseek", APIKey: "k"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://api.deepseek.com/v1" || cfg.Model != "deepseek-chat" {
		t.Errorf("preset not applied: %+v", cfg)
	}

	unknown := openaicompat.Config{Vendor: "acme", APIKey: "k"}
	if err := unknown.Validate(); err == nil {
		t.Errorf("expected error for unknown vendor without base url")
	}
}

func TestClient_ChatCompletion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req openaicompat.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "qwen-plus" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{
			"choices": [{"index": 0, "finish_reason": "tool_calls", "message": {
				"role": "assistant",
				"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "submit_query", "arguments": "{\"query\":\"SELECT 1\"}"}}]
			}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer ts.Close()

	client, err := openaicompat.New(openaicompat.Config{Vendor: "qwen", APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := client.ChatCompletion(context.Background(), openaicompat.ChatRequest{
		Messages: []openaicompat.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Choices[0].Message.ToolCalls[0].Function.Name; got != "submit_query" {
		t.Errorf("unexpected tool call %q", got)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}

	bad, _ := openaicompat.New(openaicompat.Config{Vendor: "qwen", APIKey: "wrong", BaseURL: ts.URL})
	_, err = bad.ChatCompletion(context.Background(), openaicompat.ChatRequest{})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
	var apiErr *openaicompat.APIError
	if !errors.As(err, &apiErr) || apiErr.HTTPStatus() != http.StatusUnauthorized {
		t.Errorf("expected an APIError with status 401, got %#v", err)
	}
}
