package logic

import (
	"strings"
	"testing"

	"character-chat/internal/models"
)

func promptTestRoster() []models.Character {
	return []models.Character{
		{ID: "dwight-schrute", Name: "Dwight Schrute", Role: "Assistant to the Regional Manager", Prompt: "You are Dwight K. Schrute III."},
		{ID: "jim-halpert", Name: "Jim Halpert", Role: "Sales Representative", Prompt: "You are Jim Halpert."},
	}
}

func TestCompose_SystemMessageFirst(t *testing.T) {
	roster := promptTestRoster()
	c := NewComposer(0)

	msgs := c.Compose(roster[0], []models.ChatMessage{
		{Role: models.RoleUser, Content: "@dwight-schrute What do you think of beets?"},
	}, roster)

	if len(msgs) != 3 {
		t.Fatalf("expected system + history + reminder, got %d messages", len(msgs))
	}

	system := msgs[0]
	if system.Role != models.RoleSystem {
		t.Errorf("first message should be system, got %s", system.Role)
	}
	if !strings.Contains(system.Content, "Dwight") {
		t.Error("system message missing persona content")
	}
	if !strings.Contains(system.Content, "start your response with [Dwight Schrute]") {
		t.Error("system message missing speaker-tag rule")
	}
	if !strings.Contains(system.Content, "@jim-halpert") {
		t.Error("system message missing roster ids")
	}
	if !strings.Contains(system.Content, "Never identify yourself as \"Assistant\"") {
		t.Error("system message missing assistant rule")
	}
}

func TestCompose_TrailingReminder(t *testing.T) {
	roster := promptTestRoster()
	c := NewComposer(0)

	msgs := c.Compose(roster[1], nil, roster)

	last := msgs[len(msgs)-1]
	if last.Role != models.RoleSystem {
		t.Errorf("trailing message should be system, got %s", last.Role)
	}
	if !strings.HasPrefix(last.Content, "Reminder:") {
		t.Errorf("expected reminder prefix, got %q", last.Content[:20])
	}
	if !strings.Contains(last.Content, "[Jim Halpert]") {
		t.Error("reminder missing speaker-tag rule")
	}
}

func TestCompose_HistoryWindowTrims(t *testing.T) {
	roster := promptTestRoster()
	c := NewComposer(3)

	var history []models.ChatMessage
	for i := 0; i < 10; i++ {
		history = append(history, models.ChatMessage{Role: models.RoleUser, Content: "msg"})
	}

	msgs := c.Compose(roster[0], history, roster)

	// system + 3 history + reminder
	if len(msgs) != 5 {
		t.Errorf("expected 5 messages, got %d", len(msgs))
	}
}

func TestCompose_NormalizesNamesToIDs(t *testing.T) {
	roster := promptTestRoster()
	c := NewComposer(0)

	msgs := c.Compose(roster[0], []models.ChatMessage{
		{Role: models.RoleAssistant, Content: "[Dwight Schrute] Ask Jim Halpert yourself."},
	}, roster)

	hist := msgs[1]
	if !strings.HasPrefix(hist.Content, "[Dwight Schrute]") {
		t.Errorf("speaker tag lost: %q", hist.Content)
	}
	if !strings.Contains(hist.Content, "@jim-halpert") {
		t.Errorf("name not rewritten to id: %q", hist.Content)
	}
}
