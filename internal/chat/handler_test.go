package chat

import (
	"context"
	"strings"
	"testing"

	"character-chat/internal/llm"
	"character-chat/internal/logic"
	"character-chat/internal/models"
	"character-chat/internal/registry"
)

// recordingClient captures the request it was called with
type recordingClient struct {
	lastRequest llm.Request
	response    string
}

func (c *recordingClient) GenerateStream(ctx context.Context, req llm.Request, onDelta llm.DeltaFunc) (string, error) {
	c.lastRequest = req
	if onDelta != nil {
		onDelta(c.response)
	}
	return c.response, nil
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New([]models.Show{{
		ID:   "the-office",
		Name: "The Office",
		Characters: []models.Character{
			{ID: "dwight-schrute", Name: "Dwight Schrute", BaseModel: "gpt-4o", Prompt: "You are Dwight Schrute."},
			{ID: "jim-halpert", Name: "Jim Halpert", BaseModel: "gpt-4o-mini", Prompt: "You are Jim Halpert."},
		},
	}})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return r
}

func testDispatcher(t *testing.T) (*Dispatcher, *recordingClient) {
	t.Helper()
	client := &recordingClient{response: "ok"}
	resolver := llm.NewResolver(client, nil)
	reg := testRegistry(t)
	composer := logic.NewComposer(0)
	return NewDispatcher(
		NewLogoHandler(resolver),
		NewCharacterHandler(reg, composer, resolver),
		NewPlainHandler(resolver),
	), client
}

func userMessages(contents ...string) []models.ChatMessage {
	msgs := make([]models.ChatMessage, 0, len(contents))
	for _, c := range contents {
		msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: c})
	}
	return msgs
}

func TestDispatch_PlainFallback(t *testing.T) {
	d, client := testDispatcher(t)

	_, handler, err := d.Dispatch(context.Background(), Request{
		Messages: userMessages("What is the capital of France?"),
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if handler != HandlerPlain {
		t.Errorf("expected handler %q, got %q", HandlerPlain, handler)
	}
	if client.lastRequest.Temperature != temperaturePlain {
		t.Errorf("expected temperature %v, got %v", temperaturePlain, client.lastRequest.Temperature)
	}
	if len(client.lastRequest.Messages) != 1 {
		t.Errorf("plain handler must not add framing, got %d messages", len(client.lastRequest.Messages))
	}
}

func TestDispatch_CharacterMention(t *testing.T) {
	d, client := testDispatcher(t)

	_, handler, err := d.Dispatch(context.Background(), Request{
		Messages: userMessages("@dwight-schrute what is the best bear?"),
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if handler != HandlerCharacter {
		t.Errorf("expected handler %q, got %q", HandlerCharacter, handler)
	}
	req := client.lastRequest
	if req.Temperature != temperatureCharacter {
		t.Errorf("expected temperature %v, got %v", temperatureCharacter, req.Temperature)
	}
	// The character's configured model overrides the client selection
	if req.Model != "gpt-4o" {
		t.Errorf("expected character model gpt-4o, got %s", req.Model)
	}
	if len(req.Messages) < 3 {
		t.Fatalf("expected system + history + reminder, got %d messages", len(req.Messages))
	}
	first := req.Messages[0]
	if first.Role != models.RoleSystem || !strings.Contains(first.Content, "You are Dwight Schrute.") {
		t.Errorf("persona system message missing: %+v", first)
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != models.RoleSystem || !strings.HasPrefix(last.Content, "Reminder: ") {
		t.Errorf("trailing reminder missing: %+v", last)
	}
}

func TestDispatch_LogoBeatsCharacter(t *testing.T) {
	d, client := testDispatcher(t)

	// Both a mention and a logo keyword: the logo handler has priority
	_, handler, err := d.Dispatch(context.Background(), Request{
		Messages: userMessages("@dwight-schrute design a logo for the farm"),
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if handler != HandlerLogo {
		t.Errorf("expected handler %q, got %q", HandlerLogo, handler)
	}
	first := client.lastRequest.Messages[0]
	if !strings.Contains(first.Content, "SVG logo designer") {
		t.Errorf("expected logo system prompt, got %q", first.Content)
	}
	if client.lastRequest.Temperature != temperatureLogo {
		t.Errorf("expected temperature %v, got %v", temperatureLogo, client.lastRequest.Temperature)
	}
}

func TestLogoHandler_StaysEngagedOnFollowUps(t *testing.T) {
	h := NewLogoHandler(nil)

	req := Request{Messages: []models.ChatMessage{
		{Role: models.RoleUser, Content: "Design an SVG icon for my site"},
		{Role: models.RoleAssistant, Content: "Option 1: ..."},
		{Role: models.RoleUser, Content: "I like the second one"},
	}}
	if !h.CanHandle(req) {
		t.Error("earlier keyword should keep the conversation with the logo handler")
	}

	if h.CanHandle(Request{Messages: userMessages("tell me a joke")}) {
		t.Error("no keyword anywhere should not match")
	}
}

func TestLogoHandler_IterationPrompt(t *testing.T) {
	d, client := testDispatcher(t)

	_, _, err := d.Dispatch(context.Background(), Request{
		Messages: userMessages("make me a logo", "modify option 2 to use blue"),
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	first := client.lastRequest.Messages[0]
	if !strings.Contains(first.Content, "iteration requests") {
		t.Errorf("expected iteration prompt, got %q", first.Content)
	}
}

func TestLogoHandler_RewritesLowOptionCount(t *testing.T) {
	d, client := testDispatcher(t)

	_, _, err := d.Dispatch(context.Background(), Request{
		Messages: userMessages("create 2 logos for a coffee shop"),
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	msgs := client.lastRequest.Messages
	// system, injected assistant acknowledgement, rewritten user message
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != models.RoleAssistant || !strings.Contains(msgs[1].Content, "3 options") {
		t.Errorf("missing acknowledgement message: %+v", msgs[1])
	}
	if msgs[2].Content != "create 3 logos for a coffee shop" {
		t.Errorf("count not rewritten: %q", msgs[2].Content)
	}
}

func TestLogoHandler_KeepsHigherOptionCount(t *testing.T) {
	d, client := testDispatcher(t)

	_, _, err := d.Dispatch(context.Background(), Request{
		Messages: userMessages("generate 5 logo options"),
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	msgs := client.lastRequest.Messages
	if len(msgs) != 2 {
		t.Fatalf("expected system + user, got %d messages", len(msgs))
	}
	if msgs[1].Content != "generate 5 logo options" {
		t.Errorf("request should pass through unchanged: %q", msgs[1].Content)
	}
}

func TestCharacterHandler_GenerateTurn(t *testing.T) {
	client := &recordingClient{response: "[Jim Halpert] Sounds good."}
	resolver := llm.NewResolver(client, nil)
	reg := testRegistry(t)
	h := NewCharacterHandler(reg, logic.NewComposer(0), resolver)

	jim, _ := reg.FindByID("jim-halpert")
	dwight, _ := reg.FindByID("dwight-schrute")

	got, err := h.GenerateTurn(context.Background(),
		jim,
		[]models.ChatMessage{{Role: models.RoleUser, Content: "@jim-halpert lunch?"}},
		[]models.Character{dwight, jim},
	)
	if err != nil {
		t.Fatalf("GenerateTurn failed: %v", err)
	}
	if got != "[Jim Halpert] Sounds good." {
		t.Errorf("unexpected response: %q", got)
	}

	first := client.lastRequest.Messages[0]
	if !strings.Contains(first.Content, "Always start your response with [Jim Halpert]") {
		t.Errorf("formatting rules missing from system prompt: %q", first.Content)
	}
	if !strings.Contains(first.Content, "@dwight-schrute") {
		t.Errorf("roster listing missing from system prompt: %q", first.Content)
	}
}
