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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient streams chat completions from the OpenAI API
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// OpenAIOption configures the client
type OpenAIOption func(*OpenAIClient)

// WithOpenAIBaseURL overrides the API base URL
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client
func WithOpenAIHTTPClient(httpClient *http.Client) OpenAIOption {
	return func(c *OpenAIClient) {
		c.httpClient = httpClient
	}
}

// NewOpenAIClient creates a new OpenAI streaming client
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openAIChatRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	Stream      bool                 `json:"stream"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// GenerateStream performs a streamed chat-completion call and returns the
// accumulated text. Each incremental fragment is passed to onDelta.
func (c *OpenAIClient) GenerateStream(ctx context.Context, genReq Request, onDelta DeltaFunc) (string, error) {
	log.Printf("[OpenAI] GenerateStream started model=%s messages=%d temperature=%.1f",
		genReq.Model, len(genReq.Messages), genReq.Temperature)

	ctx, cancel := context.WithTimeout(ctx, MaxGenerationDuration)
	defer cancel()

	body, err := json.Marshal(openAIChatRequest{
		Model:       genReq.Model,
		Messages:    genReq.Messages,
		Temperature: genReq.Temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[OpenAI] GenerateStream failed: send request err=%v", err)
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
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Tolerate malformed keep-alive lines
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[OpenAI] GenerateStream failed: read stream err=%v", err)
		return full.String(), fmt.Errorf("failed to read stream: %w", err)
	}

	log.Printf("[OpenAI] GenerateStream completed model=%s response_length=%d", genReq.Model, full.Len())
	return full.String(), nil
}

// handleError processes error responses from the API
func (c *OpenAIClient) handleError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	logBody := bodyStr
	if len(logBody) > 500 {
		logBody = logBody[:500] + "..."
	}
	log.Printf("[OpenAI] API Error status=%d body=%s", resp.StatusCode, logBody)

	return &APIError{
		Provider:   "OpenAI",
		StatusCode: resp.StatusCode,
		Message:    bodyStr,
	}
}
