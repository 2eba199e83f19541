package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"character-chat/internal/models"
)

func TestAnthropicGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "test-key" {
			t.Errorf("unexpected api key %q", key)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.System == "" {
			t.Error("expected system messages folded into system field")
		}
		for _, m := range req.Messages {
			if m.Role == "system" {
				t.Error("system role must not appear in messages")
			}
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\"}\n\n")
		for _, d := range []string{"[Tyrion Lannister] ", "I drink and I know things."} {
			payload, _ := json.Marshal(map[string]any{
				"type":  "content_block_delta",
				"delta": map[string]string{"type": "text_delta", "text": d},
			})
			fmt.Fprintf(w, "event: content_block_delta\ndata: %s\n\n", payload)
		}
		fmt.Fprint(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer server.Close()

	client := NewAnthropicClient("test-key", WithAnthropicBaseURL(server.URL))

	got, err := client.GenerateStream(context.Background(), Request{
		Model: anthropicModelID,
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: "You are Tyrion Lannister."},
			{Role: models.RoleUser, Content: "@tyrion-lannister wine?"},
		},
		Temperature: 0.7,
	}, nil)
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}

	want := "[Tyrion Lannister] I drink and I know things."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestResolver(t *testing.T) {
	openai := NewOpenAIClient("k")
	anthropic := NewAnthropicClient("k")
	r := NewResolver(openai, anthropic)

	if client, model := r.Resolve(ModelClaude); client != Client(anthropic) || model != anthropicModelID {
		t.Errorf("claude-3-sonnet resolved to %T %s", client, model)
	}
	if client, model := r.Resolve(ModelGPT4o); client != Client(openai) || model != ModelGPT4o {
		t.Errorf("gpt-4o resolved to %T %s", client, model)
	}
	if _, model := r.Resolve("mystery-model"); model != ModelGPT4oMini {
		t.Errorf("unknown model resolved to %s", model)
	}
}

func TestResolver_AnthropicNotConfigured(t *testing.T) {
	openai := NewOpenAIClient("k")
	r := NewResolver(openai, nil)

	client, model := r.Resolve(ModelClaude)
	if client != Client(openai) || model != ModelGPT4oMini {
		t.Errorf("expected openai fallback, got %T %s", client, model)
	}
}
