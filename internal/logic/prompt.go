package logic

import (
	"fmt"
	"strings"

	"character-chat/internal/models"
)

// DefaultHistoryWindow bounds how many recent messages are forwarded to
// the model on each turn
const DefaultHistoryWindow = 8

// Composer builds the instruction payload for a character turn
type Composer struct {
	window int
}

// NewComposer creates a composer with the given history window.
// A window of 0 falls back to DefaultHistoryWindow.
func NewComposer(window int) *Composer {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Composer{window: window}
}

// formatRules returns the persona-formatting rules for a character.
// The same text is used in the opening system message and the trailing
// reminder so the constraints survive long histories.
func formatRules(target models.Character, roster []models.Character) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IMPORTANT: Always start your response with [%s] followed by your message.\n", target.Name)
	b.WriteString("When you address or refer to another character, use their @id exactly as listed.\n")
	b.WriteString("Never identify yourself as \"Assistant\" or break character.")

	if len(roster) > 0 {
		b.WriteString("\n\nCharacters in this conversation:\n")
		for _, ch := range roster {
			if ch.ID == target.ID {
				continue
			}
			fmt.Fprintf(&b, "- %s (%s): @%s\n", ch.Name, ch.Role, ch.ID)
		}
	}

	return b.String()
}

// Compose builds the ordered message list for a model call: persona system
// message, normalized recent history, and a trailing system reminder.
// roster holds the characters relevant to this conversation (mentioned or
// part of the group).
func (c *Composer) Compose(target models.Character, history []models.ChatMessage, roster []models.Character) []models.ChatMessage {
	rules := formatRules(target, roster)

	system := models.ChatMessage{
		Role:    models.RoleSystem,
		Content: target.Prompt + "\n\n" + rules,
	}

	nameToID := make(map[string]string, len(roster))
	for _, ch := range roster {
		nameToID[ch.Name] = ch.ID
	}

	trimmed := history
	if len(trimmed) > c.window {
		trimmed = trimmed[len(trimmed)-c.window:]
	}

	out := make([]models.ChatMessage, 0, len(trimmed)+2)
	out = append(out, system)
	for _, msg := range trimmed {
		out = append(out, models.ChatMessage{
			Role:    msg.Role,
			Content: normalizeHistoryContent(msg.Content, nameToID),
		})
	}

	reminder := models.ChatMessage{
		Role:    models.RoleSystem,
		Content: "Reminder: " + rules,
	}
	out = append(out, reminder)

	return out
}

// normalizeHistoryContent keeps a leading speaker tag intact and rewrites
// free-text character names in the body to canonical @id form
func normalizeHistoryContent(content string, nameToID map[string]string) string {
	speaker, body := ExtractSpeakerTag(content)
	body = RewriteNameMentions(body, nameToID)
	if speaker == "" {
		return body
	}
	return "[" + speaker + "] " + body
}
