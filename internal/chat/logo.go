package chat

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"character-chat/internal/llm"
	"character-chat/internal/models"
)

var (
	iterationOptionRegex = regexp.MustCompile(`(?i)\[option \d+\].*(modify|change|update|adjust)`)
	requestedCountRegex  = regexp.MustCompile(`(?:generate|create|make) (\d+)`)
	digitRegex           = regexp.MustCompile(`\d+`)
)

// LogoHandler serves SVG logo design requests. It owns the design system
// prompt and rewrites under-specified option counts up to the minimum of
// three.
type LogoHandler struct {
	resolver *llm.Resolver
}

func NewLogoHandler(resolver *llm.Resolver) *LogoHandler {
	return &LogoHandler{resolver: resolver}
}

func (h *LogoHandler) Name() string { return HandlerLogo }

// CanHandle matches when any message in the conversation talks about
// logos or SVG, so follow-up turns stay with this handler
func (h *LogoHandler) CanHandle(req Request) bool {
	for _, m := range req.Messages {
		content := strings.ToLower(m.Content)
		if strings.Contains(content, "logo") || strings.Contains(content, "svg") {
			return true
		}
	}
	return false
}

// isIterationRequest detects a request to adjust an existing option
// rather than generate a fresh set
func (h *LogoHandler) isIterationRequest(req Request) bool {
	last, ok := req.lastUserMessage()
	if !ok {
		return false
	}

	content := strings.ToLower(last.Content)
	return strings.Contains(content, "modify option") ||
		strings.Contains(content, "change option") ||
		strings.Contains(content, "update option") ||
		iterationOptionRegex.MatchString(last.Content)
}

// rewriteRequestedCount bumps requests for fewer than three options up to
// three, inserting an assistant acknowledgement so the exchange reads
// naturally in the history
func (h *LogoHandler) rewriteRequestedCount(messages []models.ChatMessage) []models.ChatMessage {
	if len(messages) == 0 {
		return messages
	}
	last := messages[len(messages)-1]

	m := requestedCountRegex.FindStringSubmatch(strings.ToLower(last.Content))
	if m == nil {
		return messages
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n >= 3 {
		return messages
	}

	out := make([]models.ChatMessage, 0, len(messages)+1)
	out = append(out, messages[:len(messages)-1]...)
	out = append(out, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: "I'll generate 3 options for the best results, as this allows for better comparison and selection. Here they are:",
	})
	out = append(out, models.ChatMessage{
		Role:    models.RoleUser,
		Content: replaceFirstNumber(last.Content, "3"),
	})
	return out
}

// replaceFirstNumber replaces only the first digit run in s
func replaceFirstNumber(s, with string) string {
	loc := digitRegex.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + with + s[loc[1]:]
}

func (h *LogoHandler) Handle(ctx context.Context, req Request) (string, error) {
	system := logoSystemPrompt
	if h.isIterationRequest(req) {
		system = logoIterationPrompt
	}

	messages := h.rewriteRequestedCount(req.Messages)

	client, modelID := h.resolver.Resolve(req.Model)
	payload := make([]models.ChatMessage, 0, len(messages)+1)
	payload = append(payload, models.ChatMessage{Role: models.RoleSystem, Content: system})
	payload = append(payload, messages...)

	return client.GenerateStream(ctx, llm.Request{
		Model:       modelID,
		Messages:    payload,
		Temperature: temperatureLogo,
	}, req.OnDelta)
}
