package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"character-chat/internal/models"
)

func openAIStreamServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}

		var req openAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if !req.Stream {
			t.Error("expected stream=true")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			payload, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"delta": map[string]string{"content": d}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestOpenAIGenerateStream(t *testing.T) {
	server := openAIStreamServer(t, []string{"[Dwight Schrute] ", "Fact: ", "beets are superior."})
	defer server.Close()

	client := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	var streamed []string
	got, err := client.GenerateStream(context.Background(), Request{
		Model:       ModelGPT4oMini,
		Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: "@dwight-schrute beets?"}},
		Temperature: 0.7,
	}, func(delta string) {
		streamed = append(streamed, delta)
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}

	want := "[Dwight Schrute] Fact: beets are superior."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if len(streamed) != 3 {
		t.Errorf("expected 3 deltas, got %d", len(streamed))
	}
}

func TestOpenAIGenerateStream_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	_, err := client.GenerateStream(context.Background(), Request{Model: ModelGPT4oMini}, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", apiErr.StatusCode)
	}
}

func TestOpenAIGenerateStream_ContextCancelled(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateStream(ctx, Request{Model: ModelGPT4oMini}, nil)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("expected context cancellation, got %v", err)
	}
}
