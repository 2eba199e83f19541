package models

import "time"

// Character represents a role-play persona backed by an LLM model
type Character struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	BaseModel string `json:"base_model" yaml:"base_model"`
	Prompt    string `json:"prompt" yaml:"prompt"`
}

// Show groups the characters of one fictional universe
type Show struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string      `json:"image,omitempty" yaml:"image,omitempty"`
	Characters  []Character `json:"characters" yaml:"characters"`
}

// Role defines who produced a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a role-tagged message as sent to a model provider
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationKind distinguishes one-on-one chats from group chats
type ConversationKind string

const (
	KindIndividual ConversationKind = "individual"
	KindGroup      ConversationKind = "group"
)

// Conversation represents a chat session with its chain state
type Conversation struct {
	ID            int64            `json:"id"`
	Kind          ConversationKind `json:"kind"`
	ShowID        string           `json:"show_id,omitempty"`
	Title         string           `json:"title"`
	ChainID       string           `json:"chain_id,omitempty"`
	ChainLength   int              `json:"chain_length"`
	LastSpeakerID string           `json:"last_speaker_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Message represents a single stored message in a conversation
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           Role      `json:"role"`
	CharacterID    string    `json:"character_id,omitempty"`
	Content        string    `json:"content"`
	ChainID        string    `json:"chain_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TurnResult is the user-facing outcome of a submitted message: the first
// response content, a termination notice, or a short-circuit message
type TurnResult struct {
	Content    string `json:"content"`
	Terminated bool   `json:"terminated,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}
