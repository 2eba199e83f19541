package llm

import "log"

// Model identifiers accepted from the UI
const (
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
	ModelClaude    = "claude-3-sonnet"

	// anthropicModelID is the concrete model behind the claude-3-sonnet alias
	anthropicModelID = "claude-3-5-sonnet-20240620"
)

// Resolver picks a provider backend by model identifier string
type Resolver struct {
	openai    Client
	anthropic Client
}

// NewResolver creates a resolver over the configured provider clients.
// Either client may be nil when its API key is not configured.
func NewResolver(openai, anthropic Client) *Resolver {
	return &Resolver{openai: openai, anthropic: anthropic}
}

// Resolve returns the backend client and the provider-side model id for a
// model identifier. Unknown identifiers fall back to gpt-4o-mini.
func (r *Resolver) Resolve(modelID string) (Client, string) {
	switch modelID {
	case ModelClaude:
		if r.anthropic == nil {
			log.Printf("[LLM] Anthropic not configured, falling back to %s", ModelGPT4oMini)
			return r.openai, ModelGPT4oMini
		}
		return r.anthropic, anthropicModelID
	case ModelGPT4o, ModelGPT4oMini:
		return r.openai, modelID
	default:
		log.Printf("[LLM] Unknown model %q, falling back to %s", modelID, ModelGPT4oMini)
		return r.openai, ModelGPT4oMini
	}
}
