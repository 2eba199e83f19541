package chat

import (
	"context"

	"character-chat/internal/llm"
	"character-chat/internal/logic"
	"character-chat/internal/models"
	"character-chat/internal/registry"
)

// CharacterHandler serves in-character turns. It composes the persona
// prompt, resolves the character's configured model, and runs one
// generation. The same type backs both dispatch of raw chat requests and
// the chain controller's turn generation.
type CharacterHandler struct {
	registry *registry.Registry
	composer *logic.Composer
	resolver *llm.Resolver
}

func NewCharacterHandler(reg *registry.Registry, composer *logic.Composer, resolver *llm.Resolver) *CharacterHandler {
	return &CharacterHandler{registry: reg, composer: composer, resolver: resolver}
}

func (h *CharacterHandler) Name() string { return HandlerCharacter }

// CanHandle matches when the trailing user message mentions a registered
// character
func (h *CharacterHandler) CanHandle(req Request) bool {
	_, ok := h.targetOf(req)
	return ok
}

func (h *CharacterHandler) targetOf(req Request) (models.Character, bool) {
	last, ok := req.lastUserMessage()
	if !ok {
		return models.Character{}, false
	}
	mentions := logic.ExtractMentions(last.Content)
	if len(mentions) == 0 {
		return models.Character{}, false
	}
	return h.registry.FindByID(mentions[0])
}

func (h *CharacterHandler) Handle(ctx context.Context, req Request) (string, error) {
	target, _ := h.targetOf(req)
	return h.generate(ctx, target, req.Messages, nil, req.OnDelta)
}

// GenerateTurn produces one chained character turn for the controller
func (h *CharacterHandler) GenerateTurn(ctx context.Context, target models.Character, history []models.ChatMessage, roster []models.Character) (string, error) {
	return h.generate(ctx, target, history, roster, nil)
}

func (h *CharacterHandler) generate(ctx context.Context, target models.Character, history []models.ChatMessage, roster []models.Character, onDelta llm.DeltaFunc) (string, error) {
	payload := h.composer.Compose(target, history, roster)

	// The character's own model wins over any client selection
	client, modelID := h.resolver.Resolve(target.BaseModel)

	return client.GenerateStream(ctx, llm.Request{
		Model:       modelID,
		Messages:    payload,
		Temperature: temperatureCharacter,
	}, onDelta)
}
