package chain

// EventType identifies a chain controller event
type EventType string

const (
	EventTurnStarted    EventType = "turn_started"
	EventTurnCompleted  EventType = "turn_completed"
	EventChainContinued EventType = "chain_continued"
	EventChainEnded     EventType = "chain_ended"
	EventTerminated     EventType = "terminated"
)

// Event is emitted by the controller on every state transition so a
// presentation layer can subscribe without the controller knowing about
// rendering
type Event struct {
	Type           EventType `json:"type"`
	ConversationID int64     `json:"conversation_id"`
	CharacterID    string    `json:"character_id,omitempty"`
	ChainID        string    `json:"chain_id,omitempty"`
	ChainLength    int       `json:"chain_length"`
	Content        string    `json:"content,omitempty"`
}

// EmitFunc receives controller events. May be nil.
type EmitFunc func(Event)
