package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"character-chat/internal/chain"
	"character-chat/internal/db"
	"character-chat/internal/models"
	"character-chat/internal/registry"
)

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	db          *db.DB
	registry    *registry.Registry
	controller  *chain.Controller
	broadcaster *EventBroadcaster
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(database *db.DB, reg *registry.Registry, controller *chain.Controller) *ConversationHandler {
	return &ConversationHandler{
		db:         database,
		registry:   reg,
		controller: controller,
	}
}

// SetBroadcaster sets the SSE broadcaster for the handler
func (h *ConversationHandler) SetBroadcaster(b *EventBroadcaster) {
	h.broadcaster = b
}

// CreateConversationRequest represents the request body for creating a conversation
type CreateConversationRequest struct {
	Kind         string   `json:"kind"`
	ShowID       string   `json:"show_id,omitempty"`
	Title        string   `json:"title"`
	CharacterIDs []string `json:"character_ids"`
}

// ConversationResponse represents a conversation in API responses
type ConversationResponse struct {
	ID            int64    `json:"id"`
	Kind          string   `json:"kind"`
	ShowID        string   `json:"show_id,omitempty"`
	Title         string   `json:"title"`
	ChainLength   int      `json:"chain_length"`
	LastSpeakerID string   `json:"last_speaker_id,omitempty"`
	CharacterIDs  []string `json:"character_ids,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func (h *ConversationHandler) toResponse(conv *models.Conversation, characterIDs []string) ConversationResponse {
	return ConversationResponse{
		ID:            conv.ID,
		Kind:          string(conv.Kind),
		ShowID:        conv.ShowID,
		Title:         conv.Title,
		ChainLength:   conv.ChainLength,
		LastSpeakerID: conv.LastSpeakerID,
		CharacterIDs:  characterIDs,
		CreatedAt:     conv.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Create conversation started")

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] Create conversation failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	log.Printf("[API] Create conversation request kind=%s title=%q character_ids=%v", req.Kind, req.Title, req.CharacterIDs)

	if req.Title == "" {
		log.Printf("[API] Create conversation failed: title is required")
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	kind := models.ConversationKind(req.Kind)
	if kind == "" {
		kind = models.KindIndividual
	}
	if kind != models.KindIndividual && kind != models.KindGroup {
		log.Printf("[API] Create conversation failed: invalid kind %q", req.Kind)
		http.Error(w, "Invalid conversation kind", http.StatusBadRequest)
		return
	}

	if kind == models.KindIndividual && len(req.CharacterIDs) != 1 {
		log.Printf("[API] Create conversation failed: individual chat needs exactly one character")
		http.Error(w, "Individual conversations need exactly one character", http.StatusBadRequest)
		return
	}
	if len(req.CharacterIDs) == 0 {
		log.Printf("[API] Create conversation failed: no characters given")
		http.Error(w, "At least one character is required", http.StatusBadRequest)
		return
	}

	for _, id := range req.CharacterIDs {
		if _, ok := h.registry.FindByID(id); !ok {
			log.Printf("[API] Create conversation failed: unknown character_id=%s", id)
			http.Error(w, "Unknown character: "+id, http.StatusBadRequest)
			return
		}
	}

	if req.ShowID != "" {
		if _, ok := h.registry.ShowByID(req.ShowID); !ok {
			log.Printf("[API] Create conversation failed: unknown show_id=%s", req.ShowID)
			http.Error(w, "Unknown show: "+req.ShowID, http.StatusBadRequest)
			return
		}
	}

	conv, err := h.db.CreateConversation(kind, req.ShowID, req.Title, req.CharacterIDs)
	if err != nil {
		log.Printf("[API] Failed to create conversation in DB err=%v", err)
		http.Error(w, "Failed to create conversation", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Create conversation completed conversation_id=%d title=%q", conv.ID, conv.Title)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.toResponse(conv, req.CharacterIDs))
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.db.GetAllConversations()
	if err != nil {
		http.Error(w, "Failed to get conversations", http.StatusInternalServerError)
		return
	}

	response := make([]ConversationResponse, len(conversations))
	for i := range conversations {
		response[i] = h.toResponse(&conversations[i], nil)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /api/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	conv, err := h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	characterIDs, err := h.db.GetConversationCharacterIDs(id)
	if err != nil {
		http.Error(w, "Failed to get conversation characters", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.toResponse(conv, characterIDs))
}

// Delete handles DELETE /api/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Delete conversation started")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		log.Printf("[API] Delete conversation failed: invalid conversation ID err=%v", err)
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	log.Printf("[API] Delete conversation request conversation_id=%d", id)

	_, err = h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		log.Printf("[API] Delete conversation failed: conversation not found conversation_id=%d", id)
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Delete conversation failed: DB error getting conversation err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	// Stop any running chain before the rows go away
	h.controller.Interrupt(id)

	if err := h.db.DeleteConversation(id); err != nil {
		log.Printf("[API] Delete conversation failed: DB error deleting conversation err=%v", err)
		http.Error(w, "Failed to delete conversation", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Delete conversation completed conversation_id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID            int64  `json:"id"`
	Role          string `json:"role"`
	CharacterID   string `json:"character_id,omitempty"`
	CharacterName string `json:"character_name,omitempty"`
	Content       string `json:"content"`
	ChainID       string `json:"chain_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func (h *ConversationHandler) toMessageResponse(msg models.Message) MessageResponse {
	resp := MessageResponse{
		ID:          msg.ID,
		Role:        string(msg.Role),
		CharacterID: msg.CharacterID,
		Content:     msg.Content,
		ChainID:     msg.ChainID,
		CreatedAt:   msg.CreatedAt.Format(time.RFC3339),
	}
	if msg.CharacterID != "" {
		if ch, ok := h.registry.FindByID(msg.CharacterID); ok {
			resp.CharacterName = ch.Name
		}
	}
	return resp
}

// GetMessages handles GET /api/conversations/{id}/messages
func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	_, err = h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	messages, err := h.db.GetMessages(id)
	if err != nil {
		http.Error(w, "Failed to get messages", http.StatusInternalServerError)
		return
	}

	response := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		response[i] = h.toMessageResponse(msg)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Content  string `json:"content"`
	TargetID string `json:"target_id,omitempty"`
}

// SendMessageResponse represents the response for sending a message
type SendMessageResponse struct {
	Content    string `json:"content"`
	Terminated bool   `json:"terminated,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// SendMessage handles POST /api/conversations/{id}/messages. The first
// character response is returned synchronously; chained follow-up turns
// arrive over the events stream.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log.Printf("[API] SendMessage started")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		log.Printf("[API] SendMessage failed: invalid conversation ID err=%v", err)
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] SendMessage failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contentPreview := req.Content
	if len(contentPreview) > 100 {
		contentPreview = contentPreview[:100] + "..."
	}
	log.Printf("[API] SendMessage request conversation_id=%d content=%q", id, contentPreview)

	if req.Content == "" {
		log.Printf("[API] SendMessage failed: content is required")
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	_, err = h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		log.Printf("[API] SendMessage failed: conversation not found conversation_id=%d", id)
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] SendMessage failed: DB error getting conversation err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	if h.broadcaster != nil && !chain.IsTerminateCommand(req.Content) {
		h.broadcaster.BroadcastMessage(id, map[string]any{
			"role":    string(models.RoleUser),
			"content": req.Content,
		})
	}

	result, err := h.controller.Submit(r.Context(), id, req.Content, req.TargetID)
	if err != nil {
		log.Printf("[API] SendMessage failed: chain error conversation_id=%d err=%v", id, err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	// A cancelled generation produces no result; the client sees an
	// empty response and the discarded turn never appears in history
	if result == nil {
		log.Printf("[API] SendMessage cancelled conversation_id=%d duration=%v", id, time.Since(start))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log.Printf("[API] SendMessage completed conversation_id=%d terminated=%v duration=%v",
		id, result.Terminated, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SendMessageResponse{
		Content:    result.Content,
		Terminated: result.Terminated,
		Timestamp:  result.Timestamp,
	})
}

// Interrupt handles POST /api/conversations/{id}/interrupt
func (h *ConversationHandler) Interrupt(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Interrupt conversation started")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		log.Printf("[API] Interrupt conversation failed: invalid conversation ID err=%v", err)
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	_, err = h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		log.Printf("[API] Interrupt conversation failed: conversation not found conversation_id=%d", id)
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Interrupt conversation failed: DB error getting conversation err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	h.controller.Interrupt(id)

	log.Printf("[API] Interrupt conversation completed conversation_id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles POST /api/conversations/{id}/clear. Equivalent to the
// user typing the terminate command.
func (h *ConversationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Clear conversation started")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	_, err = h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	result, err := h.controller.Submit(r.Context(), id, chain.TerminateCommand, "")
	if err != nil {
		log.Printf("[API] Clear conversation failed conversation_id=%d err=%v", id, err)
		http.Error(w, "Failed to clear conversation", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Clear conversation completed conversation_id=%d", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SendMessageResponse{
		Content:    result.Content,
		Terminated: result.Terminated,
		Timestamp:  result.Timestamp,
	})
}
