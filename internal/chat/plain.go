package chat

import (
	"context"

	"character-chat/internal/llm"
)

// PlainHandler is the fallback: the messages go to the model as sent,
// with no system framing
type PlainHandler struct {
	resolver *llm.Resolver
}

func NewPlainHandler(resolver *llm.Resolver) *PlainHandler {
	return &PlainHandler{resolver: resolver}
}

func (h *PlainHandler) Name() string { return HandlerPlain }

func (h *PlainHandler) CanHandle(Request) bool { return true }

func (h *PlainHandler) Handle(ctx context.Context, req Request) (string, error) {
	client, modelID := h.resolver.Resolve(req.Model)
	return client.GenerateStream(ctx, llm.Request{
		Model:       modelID,
		Messages:    req.Messages,
		Temperature: temperaturePlain,
	}, req.OnDelta)
}
