package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"character-chat/internal/models"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 4096
)

// AnthropicClient streams messages from the Anthropic API
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// AnthropicOption configures the client
type AnthropicOption func(*AnthropicClient)

// WithAnthropicBaseURL overrides the API base URL
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(c *AnthropicClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithAnthropicHTTPClient sets a custom HTTP client
func WithAnthropicHTTPClient(httpClient *http.Client) AnthropicOption {
	return func(c *AnthropicClient) {
		c.httpClient = httpClient
	}
}

// NewAnthropicClient creates a new Anthropic streaming client
func NewAnthropicClient(apiKey string, opts ...AnthropicOption) *AnthropicClient {
	c := &AnthropicClient{
		apiKey:     apiKey,
		baseURL:    defaultAnthropicBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Stream      bool               `json:"stream"`
}

type anthropicStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// GenerateStream performs a streamed messages call and returns the
// accumulated text. System-role messages are folded into the system field;
// the messages API only accepts user and assistant roles.
func (c *AnthropicClient) GenerateStream(ctx context.Context, genReq Request, onDelta DeltaFunc) (string, error) {
	log.Printf("[Anthropic] GenerateStream started model=%s messages=%d temperature=%.1f",
		genReq.Model, len(genReq.Messages), genReq.Temperature)

	ctx, cancel := context.WithTimeout(ctx, MaxGenerationDuration)
	defer cancel()

	var system []string
	var msgs []anthropicMessage
	for _, m := range genReq.Messages {
		if m.Role == models.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		msgs = append(msgs, anthropicMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       genReq.Model,
		System:      strings.Join(system, "\n\n"),
		Messages:    msgs,
		MaxTokens:   anthropicMaxTokens,
		Temperature: genReq.Temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Anthropic] GenerateStream failed: send request err=%v", err)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.handleError(resp)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}
		if event.Type == "message_stop" {
			break
		}
		if event.Type != "content_block_delta" || event.Delta.Text == "" {
			continue
		}
		full.WriteString(event.Delta.Text)
		if onDelta != nil {
			onDelta(event.Delta.Text)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[Anthropic] GenerateStream failed: read stream err=%v", err)
		return full.String(), fmt.Errorf("failed to read stream: %w", err)
	}

	log.Printf("[Anthropic] GenerateStream completed model=%s response_length=%d", genReq.Model, full.Len())
	return full.String(), nil
}

// handleError processes error responses from the API
func (c *AnthropicClient) handleError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	logBody := bodyStr
	if len(logBody) > 500 {
		logBody = logBody[:500] + "..."
	}
	log.Printf("[Anthropic] API Error status=%d body=%s", resp.StatusCode, logBody)

	return &APIError{
		Provider:   "Anthropic",
		StatusCode: resp.StatusCode,
		Message:    bodyStr,
	}
}
