package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"query-gateway/pkg/anthropic"
)

func TestClient_CreateMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
			return
		}
		if r.Header.Get("anthropic-version") != anthropic.APIVersion {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req anthropic.MessagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MaxTokens != anthropic.DefaultMaxTokens {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{
			"id": "msg_1", "role": "assistant", "stop_reason": "tool_use",
			"content": [
				{"type": "text", "text": "Let me check."},
				{"type": "tool_use", "id": "toolu_1", "name": "sql_db_list_tables", "input": {}}
			],
			"usage": {"input_tokens": 20, "output_tokens": 7}
		}`))
	}))
	defer ts.Close()

	client, err := anthropic.New(anthropic.Config{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := client.CreateMessage(context.Background(), anthropic.MessagesRequest{
		System:   "You are a precise SQL expert.",
		Messages: []anthropic.Message{{Role: "user", Content: []anthropic.ContentBlock{{Type: anthropic.BlockText, Text: "hi"}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Content) != 2 || resp.Content[1].Type != anthropic.BlockToolUse || resp.Content[1].Name != "sql_db_list_tables" {
		t.Errorf("unexpected content: %+v", resp.Content)
	}
	if resp.Usage.InputTokens != 20 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}

	bad, _ := anthropic.New(anthropic.Config{APIKey: "nope", BaseURL: ts.URL})
	_, err = bad.CreateMessage(context.Background(), anthropic.MessagesRequest{})
	if err == nil || !strings.Contains(err.Error(), "authentication_error") {
		t.Fatalf("expected authentication error, got %v", err)
	}
}
