package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xd-ai/gemini-chat/src/ai/core"
	"github.com/xd-ai/gemini-chat/src/search"
)

// State names the stage a turn is in. Responded and Failed are terminal.
type State string

const (
	StateReceived   State = "received"
	StateSearching  State = "searching"
	StateComposing  State = "composing"
	StateGenerating State = "generating"
	StateResponded  State = "responded"
	StateFailed     State = "failed"
)

// Turn is one user message and its generated response. It lives for the
// duration of the request and is never persisted.
type Turn struct {
	ID       string
	UserID   uint64
	Message  string
	Model    string
	Snippets []search.Snippet
	Prompt   string
	Response string
	Searched bool
	State    State
	Started  time.Time
}

// Keys are the per-user provider credentials read for a turn.
type Keys struct {
	GeminiKey string
	SerpKey   string
}

// KeySource reads a user's provider keys. The credential store satisfies
// this; tests plug in a fake.
type KeySource interface {
	Keys(ctx context.Context, userID uint64) (Keys, error)
}

// ClientFactory builds an AI client for a turn; core.NewClient in production.
type ClientFactory func(core.FactoryConfig) (core.Client, error)

// Orchestrator sequences a chat turn: trigger heuristic, optional search,
// prompt composition, generation. Each turn is independent; the only shared
// state it touches is the key source, read-only.
type Orchestrator struct {
	keys      KeySource
	searcher  search.Provider
	detector  *Detector
	newClient ClientFactory
}

func NewOrchestrator(keys KeySource, searcher search.Provider, detector *Detector) *Orchestrator {
	return &Orchestrator{
		keys:      keys,
		searcher:  searcher,
		detector:  detector,
		newClient: core.NewClient,
	}
}

// WithClientFactory overrides the AI client constructor; used by tests.
func (o *Orchestrator) WithClientFactory(f ClientFactory) *Orchestrator {
	o.newClient = f
	return o
}

// Submit runs a single chat turn for userID. Search unavailability never
// fails the turn; AI failures always do, typed and scoped to this turn.
func (o *Orchestrator) Submit(ctx context.Context, userID uint64, message, model string) (*Turn, error) {
	turn := &Turn{
		ID:      uuid.NewString(),
		UserID:  userID,
		Message: message,
		Model:   model,
		State:   StateReceived,
		Started: time.Now(),
	}

	if strings.TrimSpace(message) == "" {
		turn.State = StateFailed
		return turn, &ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if turn.Model == "" {
		turn.Model = DefaultModel
	}
	if !IsSupportedModel(turn.Model) {
		turn.State = StateFailed
		return turn, &ValidationError{Field: "model", Reason: "unknown model " + turn.Model}
	}

	keys, err := o.keys.Keys(ctx, userID)
	if err != nil {
		turn.State = StateFailed
		return turn, err
	}
	if keys.GeminiKey == "" {
		turn.State = StateFailed
		return turn, &ConfigurationError{Key: "gemini_api_key"}
	}

	if decision := o.detector.Detect(message); decision.Search {
		turn.State = StateSearching
		snippets, err := o.searcher.Fetch(ctx, decision.Query, keys.SerpKey)
		switch {
		case errors.Is(err, search.ErrUnavailable):
			log.Printf("turn %s: search unavailable, continuing without context", turn.ID)
		case err != nil:
			log.Printf("turn %s: search failed (%v), continuing without context", turn.ID, err)
		default:
			turn.Snippets = snippets
			turn.Searched = len(snippets) > 0
		}
	}

	turn.State = StateComposing
	turn.Prompt = Compose(turn.Message, turn.Snippets)

	client, err := o.newClient(core.FactoryConfig{
		Provider:     "gemini",
		APIKey:       keys.GeminiKey,
		Model:        turn.Model,
		SystemPrompt: SystemPrompt,
	})
	if err != nil {
		turn.State = StateFailed
		return turn, err
	}

	turn.State = StateGenerating
	text, err := client.Generate(ctx, turn.Prompt, core.Options{Model: turn.Model})
	if err != nil {
		turn.State = StateFailed
		return turn, err
	}

	turn.Response = text
	turn.State = StateResponded
	log.Printf("turn %s: responded (model=%s searched=%v elapsed=%s)",
		turn.ID, turn.Model, turn.Searched, time.Since(turn.Started).Round(time.Millisecond))
	return turn, nil
}
