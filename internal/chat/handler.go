// Package chat routes incoming chat requests to the handler that can
// serve them and runs the model call for one response.
package chat

import (
	"context"
	"fmt"
	"log"

	"character-chat/internal/llm"
	"character-chat/internal/models"
)

// Sampling temperatures per handler kind
const (
	temperaturePlain     = 0.5
	temperatureCharacter = 0.7
	temperatureLogo      = 0.7
)

// Handler names as reported by Name and returned from Dispatch
const (
	HandlerLogo      = "logo"
	HandlerCharacter = "character"
	HandlerPlain     = "plain"
)

// Request is one chat request as delivered by the API layer
type Request struct {
	// Messages is the full conversation the client sent, oldest first
	Messages []models.ChatMessage

	// Model is the client-selected model identifier; handlers may
	// override it with a character's configured model
	Model string

	// OnDelta receives streamed content fragments; may be nil
	OnDelta llm.DeltaFunc
}

// lastUserMessage returns the trailing message when it is user-authored
func (r Request) lastUserMessage() (models.ChatMessage, bool) {
	if len(r.Messages) == 0 {
		return models.ChatMessage{}, false
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role != models.RoleUser {
		return models.ChatMessage{}, false
	}
	return last, true
}

// Handler serves one category of chat request
type Handler interface {
	// Name identifies the handler in logs
	Name() string

	// CanHandle reports whether this handler should serve the request
	CanHandle(req Request) bool

	// Handle runs the model call and returns the full response text
	Handle(ctx context.Context, req Request) (string, error)
}

// Dispatcher tries handlers in priority order and runs the first match.
// The plain handler always matches, so dispatch cannot fall through.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher wires the standard handler chain: logo generation,
// character chat, then plain chat as the fallback.
func NewDispatcher(logo *LogoHandler, character *CharacterHandler, plain *PlainHandler) *Dispatcher {
	return &Dispatcher{handlers: []Handler{logo, character, plain}}
}

// Dispatch selects and runs a handler for the request. The serving
// handler's name is returned so callers can post-process responses by
// kind, logo output in particular.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (string, string, error) {
	for _, h := range d.handlers {
		if !h.CanHandle(req) {
			continue
		}
		log.Printf("[Chat] Dispatching handler=%s model=%s messages=%d", h.Name(), req.Model, len(req.Messages))
		response, err := h.Handle(ctx, req)
		if err != nil {
			return "", h.Name(), fmt.Errorf("%s handler failed: %w", h.Name(), err)
		}
		return response, h.Name(), nil
	}
	return "", "", fmt.Errorf("no handler accepted the request")
}
