package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"character-chat/internal/chain"
	"character-chat/internal/chat"
	"character-chat/internal/llm"
	"character-chat/internal/logic"
	"character-chat/internal/models"
)

// ChatHandler serves stateless chat requests through the dispatcher.
// Nothing is persisted; the client sends the full message history.
type ChatHandler struct {
	dispatcher *chat.Dispatcher
}

// NewChatHandler creates a new chat handler
func NewChatHandler(dispatcher *chat.Dispatcher) *ChatHandler {
	return &ChatHandler{dispatcher: dispatcher}
}

// ChatRequest represents the request body for a stateless chat call
type ChatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
	Model    string               `json:"model,omitempty"`
	Stream   bool                 `json:"stream,omitempty"`
}

// ChatResponse represents a completed non-streaming chat response.
// Options is populated for logo responses that contain Option blocks.
type ChatResponse struct {
	Content    string                  `json:"content"`
	Options    []logic.GeneratedOption `json:"options,omitempty"`
	Terminated bool                    `json:"terminated,omitempty"`
	Timestamp  int64                   `json:"timestamp"`
}

// Handle handles POST /api/chat
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Chat started")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] Chat failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Messages) == 0 {
		log.Printf("[API] Chat failed: messages are required")
		http.Error(w, "Messages are required", http.StatusBadRequest)
		return
	}

	// The terminate command short-circuits before handler selection
	if last := req.Messages[len(req.Messages)-1]; chain.IsTerminateCommand(last.Content) {
		log.Printf("[API] Chat terminated by command")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatResponse{
			Content:    chain.TerminationNotice,
			Terminated: true,
			Timestamp:  time.Now().UnixMilli(),
		})
		return
	}

	if req.Stream {
		h.handleStream(w, r, req)
		return
	}

	content, handler, err := h.dispatcher.Dispatch(r.Context(), chat.Request{
		Messages: req.Messages,
		Model:    req.Model,
	})
	if err != nil {
		log.Printf("[API] Chat failed err=%v", err)
		http.Error(w, "Failed to generate response", http.StatusInternalServerError)
		return
	}

	resp := ChatResponse{
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
	if handler == chat.HandlerLogo {
		resp.Options = logic.ExtractGeneratedOptions(content)
		log.Printf("[API] Chat logo options parsed count=%d", len(resp.Options))
	}

	log.Printf("[API] Chat completed handler=%s content_length=%d", handler, len(content))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleStream streams content deltas to the client as SSE data events
func (h *ChatHandler) handleStream(w http.ResponseWriter, r *http.Request, req ChatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Printf("[API] Chat stream failed: streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	onDelta := llm.DeltaFunc(func(delta string) {
		payload, err := json.Marshal(map[string]string{"delta": delta})
		if err != nil {
			return
		}
		if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
	})

	_, _, err := h.dispatcher.Dispatch(r.Context(), chat.Request{
		Messages: req.Messages,
		Model:    req.Model,
		OnDelta:  onDelta,
	})
	if err != nil {
		log.Printf("[API] Chat stream failed err=%v", err)
		// Headers are already sent; signal the failure in-stream
		w.Write([]byte("event: error\ndata: {}\n\n"))
		flusher.Flush()
		return
	}

	w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()

	log.Printf("[API] Chat stream completed")
}
