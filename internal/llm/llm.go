// Package llm provides streaming text-generation clients for the hosted
// model providers and resolves model identifiers to a backend.
package llm

import (
	"context"
	"fmt"
	"time"

	"character-chat/internal/models"
)

// MaxGenerationDuration caps how long a single generation may run
const MaxGenerationDuration = 5 * time.Minute

// Request describes one streamed text-generation call
type Request struct {
	Model       string
	Messages    []models.ChatMessage
	Temperature float64
}

// DeltaFunc receives each incremental text fragment as it streams in
type DeltaFunc func(delta string)

// Client is a streaming text-generation backend
type Client interface {
	// GenerateStream performs a streamed call and returns the full final
	// text. onDelta may be nil. The context aborts the stream.
	GenerateStream(ctx context.Context, req Request, onDelta DeltaFunc) (string, error)
}

// APIError represents an error response from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}
