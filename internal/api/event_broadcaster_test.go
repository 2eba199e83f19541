package api

import (
	"testing"
	"time"

	"character-chat/internal/chain"
)

func TestNewEventBroadcaster(t *testing.T) {
	b := NewEventBroadcaster()
	if b == nil {
		t.Fatal("NewEventBroadcaster returned nil")
	}
	if b.clients == nil {
		t.Fatal("clients map is nil")
	}
}

func TestEventBroadcaster_Subscribe(t *testing.T) {
	b := NewEventBroadcaster()
	conversationID := int64(1)

	ch := b.Subscribe(conversationID)
	if ch == nil {
		t.Fatal("Subscribe returned nil channel")
	}

	if b.ClientCount(conversationID) != 1 {
		t.Errorf("Expected 1 client, got %d", b.ClientCount(conversationID))
	}

	if b.TotalClientCount() != 1 {
		t.Errorf("Expected 1 total client, got %d", b.TotalClientCount())
	}
}

func TestEventBroadcaster_MultipleSubscribers(t *testing.T) {
	b := NewEventBroadcaster()
	conversationID := int64(1)

	ch1 := b.Subscribe(conversationID)
	ch2 := b.Subscribe(conversationID)
	ch3 := b.Subscribe(int64(2))

	if b.ClientCount(conversationID) != 2 {
		t.Errorf("Expected 2 clients for conversation 1, got %d", b.ClientCount(conversationID))
	}

	if b.ClientCount(2) != 1 {
		t.Errorf("Expected 1 client for conversation 2, got %d", b.ClientCount(2))
	}

	if b.TotalClientCount() != 3 {
		t.Errorf("Expected 3 total clients, got %d", b.TotalClientCount())
	}

	b.Unsubscribe(conversationID, ch1)
	b.Unsubscribe(conversationID, ch2)
	b.Unsubscribe(2, ch3)

	if b.TotalClientCount() != 0 {
		t.Errorf("Expected 0 clients after unsubscribe, got %d", b.TotalClientCount())
	}
}

func TestEventBroadcaster_Broadcast(t *testing.T) {
	b := NewEventBroadcaster()
	conversationID := int64(1)

	ch := b.Subscribe(conversationID)
	defer b.Unsubscribe(conversationID, ch)

	b.BroadcastMessage(conversationID, map[string]string{"content": "hello"})

	select {
	case event := <-ch:
		if event.Type != "message" {
			t.Errorf("Expected event type 'message', got '%s'", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBroadcaster_BroadcastToOtherConversationOnly(t *testing.T) {
	b := NewEventBroadcaster()

	ch1 := b.Subscribe(1)
	ch2 := b.Subscribe(2)
	defer b.Unsubscribe(1, ch1)
	defer b.Unsubscribe(2, ch2)

	b.BroadcastMessage(2, map[string]string{"content": "hi"})

	select {
	case <-ch1:
		t.Error("conversation 1 should not receive conversation 2 events")
	default:
	}

	select {
	case <-ch2:
	case <-time.After(time.Second):
		t.Fatal("conversation 2 did not receive its event")
	}
}

func TestEventBroadcaster_HandleChainEvent(t *testing.T) {
	b := NewEventBroadcaster()
	conversationID := int64(7)

	ch := b.Subscribe(conversationID)
	defer b.Unsubscribe(conversationID, ch)

	b.HandleChainEvent(chain.Event{
		Type:           chain.EventTurnCompleted,
		ConversationID: conversationID,
		CharacterID:    "dwight-schrute",
		ChainID:        "chain-1",
		ChainLength:    2,
		Content:        "Fact.",
	})

	select {
	case event := <-ch:
		if event.Type != string(chain.EventTurnCompleted) {
			t.Errorf("unexpected event type: %s", event.Type)
		}
		data, ok := event.Data.(map[string]any)
		if !ok {
			t.Fatalf("unexpected data type: %T", event.Data)
		}
		if data["character_id"] != "dwight-schrute" {
			t.Errorf("unexpected character_id: %v", data["character_id"])
		}
		if data["content"] != "Fact." {
			t.Errorf("unexpected content: %v", data["content"])
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for chain event")
	}
}

func TestFormatSSE(t *testing.T) {
	data, err := FormatSSE(Event{Type: "message", Data: map[string]string{"content": "hi"}})
	if err != nil {
		t.Fatalf("FormatSSE failed: %v", err)
	}

	want := "event: message\ndata: {\"content\":\"hi\"}\n\n"
	if string(data) != want {
		t.Errorf("unexpected SSE format: %q", string(data))
	}
}

func TestEventBroadcaster_FullChannelDoesNotBlock(t *testing.T) {
	b := NewEventBroadcaster()
	conversationID := int64(1)

	ch := b.Subscribe(conversationID)
	defer b.Unsubscribe(conversationID, ch)

	// Fill the buffer and keep broadcasting; the broadcaster must skip
	// rather than block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 30; i++ {
			b.BroadcastMessage(conversationID, map[string]int{"i": i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full client channel")
	}
}
