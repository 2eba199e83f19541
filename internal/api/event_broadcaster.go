package api

import (
	"encoding/json"
	"log"
	"sync"

	"character-chat/internal/chain"
)

// Event represents a Server-Sent Event
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventBroadcaster manages SSE clients and broadcasts events to them
type EventBroadcaster struct {
	mu      sync.RWMutex
	clients map[int64]map[chan Event]struct{} // conversationID -> clients
}

// NewEventBroadcaster creates a new event broadcaster
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe adds a client receiving events for a conversation
func (b *EventBroadcaster) Subscribe(conversationID int64) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)

	if b.clients[conversationID] == nil {
		b.clients[conversationID] = make(map[chan Event]struct{})
	}
	b.clients[conversationID][ch] = struct{}{}

	log.Printf("[SSE] Client subscribed conversation_id=%d total_clients=%d",
		conversationID, len(b.clients[conversationID]))

	return ch
}

// Unsubscribe removes a client
func (b *EventBroadcaster) Unsubscribe(conversationID int64, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if clients, ok := b.clients[conversationID]; ok {
		delete(clients, ch)
		close(ch)
		if len(clients) == 0 {
			delete(b.clients, conversationID)
		}
	}

	log.Printf("[SSE] Client unsubscribed conversation_id=%d", conversationID)
}

// Broadcast sends an event to every client watching a conversation
func (b *EventBroadcaster) Broadcast(conversationID int64, event Event) {
	b.mu.RLock()
	clients := b.clients[conversationID]
	b.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	log.Printf("[SSE] Broadcasting event type=%s conversation_id=%d clients=%d",
		event.Type, conversationID, len(clients))

	for ch := range clients {
		select {
		case ch <- event:
		default:
			// Client channel full, skip
			log.Printf("[SSE] Client channel full, skipping event")
		}
	}
}

// BroadcastMessage broadcasts a new message event
func (b *EventBroadcaster) BroadcastMessage(conversationID int64, message any) {
	b.Broadcast(conversationID, Event{
		Type: "message",
		Data: message,
	})
}

// HandleChainEvent forwards a chain controller event to SSE clients.
// Wired as the controller's EmitFunc.
func (b *EventBroadcaster) HandleChainEvent(e chain.Event) {
	data := map[string]any{
		"character_id": e.CharacterID,
		"chain_id":     e.ChainID,
		"chain_length": e.ChainLength,
	}
	if e.Content != "" {
		data["content"] = e.Content
	}
	b.Broadcast(e.ConversationID, Event{
		Type: string(e.Type),
		Data: data,
	})
}

// ClientCount returns the number of clients subscribed to a conversation
func (b *EventBroadcaster) ClientCount(conversationID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[conversationID])
}

// TotalClientCount returns the total client count across all conversations
func (b *EventBroadcaster) TotalClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := 0
	for _, clients := range b.clients {
		total += len(clients)
	}
	return total
}

// FormatSSE formats an event in SSE wire format
func FormatSSE(event Event) ([]byte, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return []byte("event: " + event.Type + "\ndata: " + string(data) + "\n\n"), nil
}
