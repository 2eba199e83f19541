package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"character-chat/internal/chain"
	"character-chat/internal/chat"
	"character-chat/internal/db"
	"character-chat/internal/registry"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher interface for SSE support
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Router holds the HTTP multiplexer and dependencies
type Router struct {
	mux                 *http.ServeMux
	showHandler         *ShowHandler
	conversationHandler *ConversationHandler
	chatHandler         *ChatHandler
	eventsHandler       *ConversationEventsHandler
}

// NewRouter creates a new router with all routes configured
func NewRouter(database *db.DB, reg *registry.Registry, controller *chain.Controller, dispatcher *chat.Dispatcher, broadcaster *EventBroadcaster) *Router {
	convHandler := NewConversationHandler(database, reg, controller)
	convHandler.SetBroadcaster(broadcaster)

	r := &Router{
		mux:                 http.NewServeMux(),
		showHandler:         NewShowHandler(reg),
		conversationHandler: convHandler,
		chatHandler:         NewChatHandler(dispatcher),
		eventsHandler:       NewConversationEventsHandler(broadcaster),
	}
	r.setupRoutes()
	return r
}

// setupRoutes configures all HTTP routes
func (r *Router) setupRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", HealthHandler)

	// Catalog routes
	r.mux.HandleFunc("GET /api/shows", r.showHandler.List)
	r.mux.HandleFunc("GET /api/shows/{id}", r.showHandler.Get)
	r.mux.HandleFunc("GET /api/characters", r.showHandler.ListCharacters)
	r.mux.HandleFunc("GET /api/characters/{id}", r.showHandler.GetCharacter)

	// Conversation routes
	r.mux.HandleFunc("GET /api/conversations", r.conversationHandler.List)
	r.mux.HandleFunc("POST /api/conversations", r.conversationHandler.Create)
	r.mux.HandleFunc("GET /api/conversations/{id}", r.conversationHandler.Get)
	r.mux.HandleFunc("DELETE /api/conversations/{id}", r.conversationHandler.Delete)

	// Message routes
	r.mux.HandleFunc("GET /api/conversations/{id}/messages", r.conversationHandler.GetMessages)
	r.mux.HandleFunc("POST /api/conversations/{id}/messages", r.conversationHandler.SendMessage)

	// Chain control routes
	r.mux.HandleFunc("POST /api/conversations/{id}/interrupt", r.conversationHandler.Interrupt)
	r.mux.HandleFunc("POST /api/conversations/{id}/clear", r.conversationHandler.Clear)

	// SSE events route
	r.mux.HandleFunc("GET /api/conversations/{id}/events", r.eventsHandler.HandleEvents)

	// Stateless chat route
	r.mux.HandleFunc("POST /api/chat", r.chatHandler.Handle)
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	// Add CORS headers for development
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if req.Method == "OPTIONS" {
		log.Printf("[HTTP] CORS preflight method=OPTIONS path=%s", req.URL.Path)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Skip logging for health checks and SSE endpoints
	shouldLog := strings.HasPrefix(req.URL.Path, "/api/") && !strings.HasSuffix(req.URL.Path, "/events")

	if shouldLog {
		log.Printf("[HTTP] Request started method=%s path=%s", req.Method, req.URL.Path)
	}

	// Wrap response writer to capture status code
	wrapped := newResponseWriter(w)
	r.mux.ServeHTTP(wrapped, req)

	if shouldLog {
		log.Printf("[HTTP] Request completed method=%s path=%s status=%d duration=%v",
			req.Method, req.URL.Path, wrapped.statusCode, time.Since(start))
	}
}
