package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"character-chat/internal/api"
	"character-chat/internal/chain"
	"character-chat/internal/chat"
	"character-chat/internal/config"
	"character-chat/internal/db"
	"character-chat/internal/llm"
	"character-chat/internal/logic"
	"character-chat/internal/registry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize database
	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully")

	// Load the show catalog; SHOWS_PATH overrides the built-in shows
	var reg *registry.Registry
	if cfg.ShowsPath != "" {
		reg, err = registry.LoadFile(cfg.ShowsPath)
		if err != nil {
			log.Fatalf("Failed to load shows from %s: %v", cfg.ShowsPath, err)
		}
		log.Printf("Shows loaded from file path=%s shows=%d", cfg.ShowsPath, len(reg.Shows()))
	} else {
		reg = registry.Default()
		log.Printf("Built-in shows loaded shows=%d", len(reg.Shows()))
	}

	// Initialize model providers
	if cfg.OpenAI.APIKey == "" {
		log.Fatalf("OpenAI API key is not configured")
	}
	openaiClient := llm.NewOpenAIClient(cfg.OpenAI.APIKey)
	log.Println("OpenAI client initialized")

	var anthropicClient llm.Client
	if cfg.Anthropic.APIKey != "" {
		anthropicClient = llm.NewAnthropicClient(cfg.Anthropic.APIKey)
		log.Println("Anthropic client initialized")
	} else {
		log.Println("Warning: Anthropic API key not configured, claude models fall back to OpenAI")
	}
	resolver := llm.NewResolver(openaiClient, anthropicClient)

	// Chat handlers and dispatcher
	composer := logic.NewComposer(0)
	characterHandler := chat.NewCharacterHandler(reg, composer, resolver)
	dispatcher := chat.NewDispatcher(
		chat.NewLogoHandler(resolver),
		characterHandler,
		chat.NewPlainHandler(resolver),
	)

	// Chain controller with SSE broadcasting
	broadcaster := api.NewEventBroadcaster()
	chainCfg := chain.DefaultConfig()
	if cfg.MaxChainLength > 0 {
		chainCfg.MaxChainLength = cfg.MaxChainLength
	}
	if cfg.TurnDelay >= 0 {
		chainCfg.TurnDelay = cfg.TurnDelay
	}
	controller := chain.NewController(chainCfg, reg, database, characterHandler, broadcaster.HandleChainEvent)
	log.Printf("Chain controller initialized max_chain_length=%d turn_delay=%v",
		chainCfg.MaxChainLength, chainCfg.TurnDelay)

	// Create router
	router := api.NewRouter(database, reg, controller, dispatcher, broadcaster)

	// Setup server
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		// Stop in-flight chains first
		controller.Shutdown()

		// Shutdown HTTP server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		close(done)
	}()

	log.Printf("Server starting on %s", cfg.ListenAddr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	<-done
	log.Println("Server stopped gracefully")
}
