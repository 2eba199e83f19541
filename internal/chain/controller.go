// Package chain implements the conversation-turn state machine that chains
// character replies together through @mentions.
package chain

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"character-chat/internal/logic"
	"character-chat/internal/models"
	"character-chat/internal/registry"
)

const (
	// MaxChainLength bounds automatic character-to-character turns
	MaxChainLength = 20

	// DefaultTurnDelay paces chained responses for readability
	DefaultTurnDelay = 2 * time.Second

	// TerminateCommand clears the conversation when typed as a user message
	TerminateCommand = "terminate"

	// terminationPhrase in a model response also terminates the chat
	terminationPhrase = "Chat terminated"

	// TerminationNotice is surfaced to the user after termination
	TerminationNotice = "Chat terminated. The conversation has been cleared."
)

// State of one conversation's turn machine
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
	StateChainContinuing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateChainContinuing:
		return "chain_continuing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Config tunes the controller
type Config struct {
	// MaxChainLength caps automatic follow-up turns; 0 means the default
	MaxChainLength int

	// TurnDelay is the pause between chained turns; tests set it to 0
	TurnDelay time.Duration
}

// DefaultConfig returns the production configuration
func DefaultConfig() Config {
	return Config{
		MaxChainLength: MaxChainLength,
		TurnDelay:      DefaultTurnDelay,
	}
}

// Store is the persistence surface the controller mutates. No other
// component writes chain state or messages directly.
type Store interface {
	GetConversation(id int64) (*models.Conversation, error)
	GetConversationCharacterIDs(id int64) ([]string, error)
	GetMessages(conversationID int64) ([]models.Message, error)
	AppendMessage(msg *models.Message) (*models.Message, error)
	UpdateChainState(conversationID int64, chainID string, chainLength int, lastSpeakerID string) error
	ClearConversation(conversationID int64) error
}

// Generator produces one character turn from composed context. The chat
// dispatcher provides the implementation that composes the prompt and
// calls the model provider.
type Generator interface {
	GenerateTurn(ctx context.Context, target models.Character, history []models.ChatMessage, roster []models.Character) (string, error)
}

// run tracks one in-flight generation sequence for a conversation
type run struct {
	cancel context.CancelFunc
	state  State
	done   chan struct{}
}

// Controller drives the turn state machine for all conversations.
// At most one chain is active per conversation.
type Controller struct {
	cfg      Config
	registry *registry.Registry
	store    Store
	gen      Generator
	emit     EmitFunc

	mu   sync.Mutex
	runs map[int64]*run
	wg   sync.WaitGroup
}

// NewController creates a chain controller
func NewController(cfg Config, reg *registry.Registry, store Store, gen Generator, emit EmitFunc) *Controller {
	if cfg.MaxChainLength <= 0 {
		cfg.MaxChainLength = MaxChainLength
	}
	if emit == nil {
		emit = func(Event) {}
	}
	return &Controller{
		cfg:      cfg,
		registry: reg,
		store:    store,
		gen:      gen,
		emit:     emit,
		runs:     make(map[int64]*run),
	}
}

// State reports the machine state of a conversation
func (c *Controller) State(conversationID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.runs[conversationID]; ok {
		return r.state
	}
	return StateIdle
}

// Interrupt cancels any in-flight generation for a conversation, discards
// the partial response, and returns the machine to Idle. Chain state is
// not advanced.
func (c *Controller) Interrupt(conversationID int64) {
	c.mu.Lock()
	r, ok := c.runs[conversationID]
	c.mu.Unlock()
	if !ok {
		return
	}

	log.Printf("[Chain] Interrupt conversation_id=%d", conversationID)
	r.cancel()
	<-r.done
}

// Shutdown cancels all in-flight generations and waits for them to finish
func (c *Controller) Shutdown() {
	c.mu.Lock()
	for _, r := range c.runs {
		r.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// IsTerminateCommand reports whether user input is the termination command
func IsTerminateCommand(content string) bool {
	return strings.EqualFold(strings.TrimSpace(content), TerminateCommand)
}

// acquireRun reserves the single run slot for a conversation before any
// other work happens. An existing run is cancelled and waited out, so two
// concurrent submissions can never generate at the same time.
func (c *Controller) acquireRun(conversationID int64) (*run, context.Context) {
	for {
		c.mu.Lock()
		existing, ok := c.runs[conversationID]
		if !ok {
			runCtx, cancel := context.WithCancel(context.Background())
			r := &run{cancel: cancel, state: StateAwaitingResponse, done: make(chan struct{})}
			c.runs[conversationID] = r
			c.mu.Unlock()
			return r, runCtx
		}
		c.mu.Unlock()

		log.Printf("[Chain] Cancelling active run conversation_id=%d", conversationID)
		existing.cancel()
		<-existing.done
	}
}

// Submit handles a user-submitted message: Idle → AwaitingResponse.
// Any in-flight generation for the conversation is cancelled first. The
// first character turn runs synchronously and its content is returned;
// mention-triggered follow-up turns continue in the background.
func (c *Controller) Submit(ctx context.Context, conversationID int64, content, explicitTargetID string) (*models.TurnResult, error) {
	r, runCtx := c.acquireRun(conversationID)

	// Termination is unconditional, regardless of prior chain state
	if IsTerminateCommand(content) {
		result, err := c.terminate(conversationID)
		c.finishRun(conversationID, r)
		return result, err
	}

	conv, err := c.store.GetConversation(conversationID)
	if err != nil {
		c.finishRun(conversationID, r)
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	target, result := c.resolveTarget(conv, content, explicitTargetID)
	if result != nil {
		c.finishRun(conversationID, r)
		return result, nil
	}

	// A user message starts a fresh chain
	chainID := uuid.NewString()
	if err := c.store.UpdateChainState(conversationID, chainID, 0, conv.LastSpeakerID); err != nil {
		c.finishRun(conversationID, r)
		return nil, fmt.Errorf("failed to reset chain state: %w", err)
	}

	// Stored with canonical @target addressing regardless of how the
	// user phrased the mention
	userContent := strings.TrimSpace("@" + target.ID + " " + logic.RemoveMentions(content))
	if _, err := c.store.AppendMessage(&models.Message{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        userContent,
		ChainID:        chainID,
	}); err != nil {
		c.finishRun(conversationID, r)
		return nil, fmt.Errorf("failed to append user message: %w", err)
	}

	firstResult, cont := c.turn(runCtx, r, conversationID, chainID, 0, target)

	if cont == nil {
		c.finishRun(conversationID, r)
		return firstResult, nil
	}

	// Chain continuation happens off the request path; events and SSE
	// message broadcasts carry the follow-up turns to the UI
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.finishRun(conversationID, r)
		c.continueChain(runCtx, r, conversationID, chainID, cont)
	}()

	return firstResult, nil
}

func (c *Controller) finishRun(conversationID int64, r *run) {
	c.mu.Lock()
	if c.runs[conversationID] == r {
		delete(c.runs, conversationID)
	}
	c.mu.Unlock()
	r.cancel()
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

// continuation carries chain state from one turn into the next
type continuation struct {
	target      models.Character
	speakerID   string
	chainLength int
	content     string
}

// continueChain runs mention-triggered follow-up turns until the chain
// ends, the cap is reached, or the run is cancelled
func (c *Controller) continueChain(ctx context.Context, r *run, conversationID int64, chainID string, cont *continuation) {
	for cont != nil {
		c.setState(r, StateChainContinuing)

		select {
		case <-time.After(c.cfg.TurnDelay):
		case <-ctx.Done():
			return
		}

		// Synthesized user-role message addressed to the next character
		if _, err := c.store.AppendMessage(&models.Message{
			ConversationID: conversationID,
			Role:           models.RoleUser,
			Content:        "@" + cont.target.ID + " " + cont.content,
			ChainID:        chainID,
		}); err != nil {
			// Nonzero chain state must not outlive the chain
			log.Printf("[Chain] Failed to append chain message conversation_id=%d err=%v", conversationID, err)
			c.endChain(conversationID, chainID, cont.speakerID, nil)
			return
		}
		c.emit(Event{
			Type:           EventChainContinued,
			ConversationID: conversationID,
			CharacterID:    cont.target.ID,
			ChainID:        chainID,
			ChainLength:    cont.chainLength,
		})

		_, cont = c.turn(ctx, r, conversationID, chainID, cont.chainLength, cont.target)
	}
}

// turn runs a single character turn: AwaitingResponse, model call,
// response post-processing, and the continue/end decision. The returned
// continuation is nil when the chain stops here.
func (c *Controller) turn(ctx context.Context, r *run, conversationID int64, chainID string, chainLength int, target models.Character) (*models.TurnResult, *continuation) {
	c.setState(r, StateAwaitingResponse)
	c.emit(Event{
		Type:           EventTurnStarted,
		ConversationID: conversationID,
		CharacterID:    target.ID,
		ChainID:        chainID,
		ChainLength:    chainLength,
	})

	history, roster, err := c.turnContext(conversationID)
	if err != nil {
		log.Printf("[Chain] Failed to build turn context conversation_id=%d err=%v", conversationID, err)
		return c.endChain(conversationID, chainID, target.ID, errorResult()), nil
	}

	response, err := c.gen.GenerateTurn(ctx, target, history, roster)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled: the partial response is discarded and chain
			// state stays where it was
			log.Printf("[Chain] Turn cancelled conversation_id=%d character_id=%s", conversationID, target.ID)
			return nil, nil
		}
		log.Printf("[Chain] Turn failed conversation_id=%d character_id=%s err=%v", conversationID, target.ID, err)
		return c.endChain(conversationID, chainID, target.ID, errorResult()), nil
	}

	if strings.Contains(response, terminationPhrase) {
		c.setState(r, StateTerminated)
		result, err := c.terminate(conversationID)
		if err != nil {
			log.Printf("[Chain] Termination failed conversation_id=%d err=%v", conversationID, err)
			return errorResult(), nil
		}
		return result, nil
	}

	speakerName, cleaned := logic.StripSpeakerTag(response)
	speaker := target
	if speakerName != "" {
		if ch, ok := c.registry.FindByName(speakerName); ok {
			speaker = ch
		}
	}

	if _, err := c.store.AppendMessage(&models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		CharacterID:    speaker.ID,
		Content:        cleaned,
		ChainID:        chainID,
	}); err != nil {
		log.Printf("[Chain] Failed to append response conversation_id=%d err=%v", conversationID, err)
	}
	c.emit(Event{
		Type:           EventTurnCompleted,
		ConversationID: conversationID,
		CharacterID:    speaker.ID,
		ChainID:        chainID,
		ChainLength:    chainLength,
		Content:        cleaned,
	})

	result := &models.TurnResult{Content: cleaned, Timestamp: time.Now().UnixMilli()}

	next, ok := c.nextSpeaker(cleaned, speaker)
	if !ok {
		return c.endChain(conversationID, chainID, speaker.ID, result), nil
	}

	newLength := chainLength + 1
	if newLength >= c.cfg.MaxChainLength {
		// Cap reached: one scripted in-character pause instead of
		// another model call, then back to Idle
		pause := fmt.Sprintf("[%s] I need to pause here. We have been going back and forth for a while, let's pick this up later.", speaker.Name)
		if _, err := c.store.AppendMessage(&models.Message{
			ConversationID: conversationID,
			Role:           models.RoleAssistant,
			CharacterID:    speaker.ID,
			Content:        pause,
			ChainID:        chainID,
		}); err != nil {
			log.Printf("[Chain] Failed to append pause message conversation_id=%d err=%v", conversationID, err)
		}
		log.Printf("[Chain] Chain cap reached conversation_id=%d chain_id=%s length=%d", conversationID, chainID, newLength)
		return c.endChain(conversationID, chainID, speaker.ID, &models.TurnResult{Content: pause, Timestamp: time.Now().UnixMilli()}), nil
	}

	if err := c.store.UpdateChainState(conversationID, chainID, newLength, speaker.ID); err != nil {
		log.Printf("[Chain] Failed to update chain state conversation_id=%d err=%v", conversationID, err)
		return c.endChain(conversationID, chainID, speaker.ID, result), nil
	}

	return result, &continuation{target: next, speakerID: speaker.ID, chainLength: newLength, content: cleaned}
}

// nextSpeaker picks the first mention in a response. The chain continues
// only when that mention resolves to a character other than the current
// speaker; a self-mention or an unknown mention ends the chain.
func (c *Controller) nextSpeaker(content string, speaker models.Character) (models.Character, bool) {
	mentions := logic.ExtractMentions(content)
	if len(mentions) == 0 {
		return models.Character{}, false
	}
	ch, ok := c.registry.FindByID(mentions[0])
	if !ok || ch.ID == speaker.ID {
		return models.Character{}, false
	}
	return ch, true
}

// endChain resets chain state to zero and emits chain_ended
func (c *Controller) endChain(conversationID int64, chainID, lastSpeakerID string, result *models.TurnResult) *models.TurnResult {
	if err := c.store.UpdateChainState(conversationID, "", 0, lastSpeakerID); err != nil {
		log.Printf("[Chain] Failed to reset chain state conversation_id=%d err=%v", conversationID, err)
	}
	c.emit(Event{
		Type:           EventChainEnded,
		ConversationID: conversationID,
		CharacterID:    lastSpeakerID,
		ChainID:        chainID,
	})
	return result
}

// terminate clears the conversation and resets all chain state
func (c *Controller) terminate(conversationID int64) (*models.TurnResult, error) {
	log.Printf("[Chain] Terminating conversation_id=%d", conversationID)

	if err := c.store.ClearConversation(conversationID); err != nil {
		return nil, fmt.Errorf("failed to clear conversation: %w", err)
	}
	c.emit(Event{
		Type:           EventTerminated,
		ConversationID: conversationID,
	})
	return &models.TurnResult{
		Content:    TerminationNotice,
		Terminated: true,
		Timestamp:  time.Now().UnixMilli(),
	}, nil
}

// resolveTarget picks the character who should answer a user message:
// an explicit target, the first mention, the last speaker, or the first
// participant, in that order. A mention that resolves to no known
// character short-circuits with a user-visible result.
func (c *Controller) resolveTarget(conv *models.Conversation, content, explicitTargetID string) (models.Character, *models.TurnResult) {
	if explicitTargetID != "" {
		if ch, ok := c.registry.FindByID(explicitTargetID); ok {
			return ch, nil
		}
		return models.Character{}, notFoundResult(explicitTargetID)
	}

	mentions := logic.ExtractMentions(content)
	if len(mentions) > 0 {
		if ch, ok := c.registry.FindByID(mentions[0]); ok {
			return ch, nil
		}
		return models.Character{}, notFoundResult(mentions[0])
	}

	if conv.LastSpeakerID != "" {
		if ch, ok := c.registry.FindByID(conv.LastSpeakerID); ok {
			return ch, nil
		}
	}

	participants, err := c.store.GetConversationCharacterIDs(conv.ID)
	if err == nil {
		for _, id := range participants {
			if ch, ok := c.registry.FindByID(id); ok {
				return ch, nil
			}
		}
	}

	return models.Character{}, notFoundResult("")
}

func notFoundResult(id string) *models.TurnResult {
	content := "Character not found."
	if id != "" {
		content = fmt.Sprintf("Character %q not found.", id)
	}
	return &models.TurnResult{Content: content, Timestamp: time.Now().UnixMilli()}
}

func errorResult() *models.TurnResult {
	return &models.TurnResult{
		Content:   "Something went wrong generating a response. Please try again.",
		Timestamp: time.Now().UnixMilli(),
	}
}

// turnContext loads the conversation history and participant roster
func (c *Controller) turnContext(conversationID int64) ([]models.ChatMessage, []models.Character, error) {
	msgs, err := c.store.GetMessages(conversationID)
	if err != nil {
		return nil, nil, err
	}

	history := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, models.ChatMessage{Role: m.Role, Content: m.Content})
	}

	ids, err := c.store.GetConversationCharacterIDs(conversationID)
	if err != nil {
		return nil, nil, err
	}
	var roster []models.Character
	for _, id := range ids {
		if ch, ok := c.registry.FindByID(id); ok {
			roster = append(roster, ch)
		}
	}

	return history, roster, nil
}

func (c *Controller) setState(r *run, s State) {
	c.mu.Lock()
	r.state = s
	c.mu.Unlock()
}
