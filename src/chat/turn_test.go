package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xd-ai/gemini-chat/src/ai/core"
	"github.com/xd-ai/gemini-chat/src/search"
)

type fakeKeys struct {
	keys Keys
	err  error
}

func (f *fakeKeys) Keys(ctx context.Context, userID uint64) (Keys, error) {
	return f.keys, f.err
}

type fakeSearcher struct {
	snippets []search.Snippet
	err      error
	calls    int
	lastQ    string
}

func (f *fakeSearcher) Fetch(ctx context.Context, query, apiKey string) ([]search.Snippet, error) {
	f.calls++
	f.lastQ = query
	if apiKey == "" {
		return nil, search.ErrUnavailable
	}
	return f.snippets, f.err
}

type fakeAI struct {
	response string
	err      error
	calls    int
	prompts  []string
	keys     []string
}

func (f *fakeAI) factory() ClientFactory {
	return func(cfg core.FactoryConfig) (core.Client, error) {
		f.keys = append(f.keys, cfg.APIKey)
		return fakeAIClient{f}, nil
	}
}

type fakeAIClient struct{ f *fakeAI }

func (c fakeAIClient) Generate(ctx context.Context, prompt string, opts core.Options) (string, error) {
	c.f.calls++
	c.f.prompts = append(c.f.prompts, prompt)
	return c.f.response, c.f.err
}

func newTestOrchestrator(keys *fakeKeys, searcher *fakeSearcher, ai *fakeAI) *Orchestrator {
	return NewOrchestrator(keys, searcher, NewDetector(nil)).WithClientFactory(ai.factory())
}

func TestSubmitPlainMessage(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{keys: Keys{GeminiKey: "g-key", SerpKey: "s-key"}}
	searcher := &fakeSearcher{}
	ai := &fakeAI{response: "Hi there!"}
	orc := newTestOrchestrator(keys, searcher, ai)

	turn, err := orc.Submit(context.Background(), 1, "Hello, how are you?", "gemini-1.5-flash")
	require.NoError(t, err)
	require.Equal(t, StateResponded, turn.State)
	require.Equal(t, "Hi there!", turn.Response)
	require.False(t, turn.Searched)
	require.NotEmpty(t, turn.ID)

	// No trigger keyword: search never called, prompt is the bare message.
	require.Zero(t, searcher.calls)
	require.Equal(t, []string{"Hello, how are you?"}, ai.prompts)
}

func TestSubmitSearchAugmented(t *testing.T) {
	t.Parallel()

	snippets := []search.Snippet{
		{Title: "A", Excerpt: "a", Source: "https://a.example"},
		{Title: "B", Excerpt: "b", Source: "https://b.example"},
		{Title: "C", Excerpt: "c", Source: "https://c.example"},
	}
	keys := &fakeKeys{keys: Keys{GeminiKey: "g-key", SerpKey: "s-key"}}
	searcher := &fakeSearcher{snippets: snippets}
	ai := &fakeAI{response: "Here is the news."}
	orc := newTestOrchestrator(keys, searcher, ai)

	turn, err := orc.Submit(context.Background(), 1, "What's the latest news on AI regulation?", "gemini-2.5-pro")
	require.NoError(t, err)
	require.Equal(t, StateResponded, turn.State)
	require.True(t, turn.Searched)
	require.Equal(t, 1, searcher.calls)
	require.Len(t, turn.Snippets, 3)

	require.Len(t, ai.prompts, 1)
	require.Equal(t, Compose(turn.Message, snippets), ai.prompts[0])
}

func TestSubmitSearchUnavailableDegrades(t *testing.T) {
	t.Parallel()

	// No SerpAPI key: the searcher reports unavailable without a network
	// call; the turn still generates with the bare message.
	keys := &fakeKeys{keys: Keys{GeminiKey: "g-key"}}
	searcher := &fakeSearcher{}
	ai := &fakeAI{response: "best effort answer"}
	orc := newTestOrchestrator(keys, searcher, ai)

	turn, err := orc.Submit(context.Background(), 1, "latest headlines please", "gemini-1.5-flash")
	require.NoError(t, err)
	require.Equal(t, StateResponded, turn.State)
	require.False(t, turn.Searched)
	require.Empty(t, turn.Snippets)
	require.Equal(t, []string{"latest headlines please"}, ai.prompts)
}

func TestSubmitSearchFailureDegrades(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{keys: Keys{GeminiKey: "g-key", SerpKey: "s-key"}}
	searcher := &fakeSearcher{err: search.ErrUnavailable}
	ai := &fakeAI{response: "ok"}
	orc := newTestOrchestrator(keys, searcher, ai)

	turn, err := orc.Submit(context.Background(), 1, "search for election results", "gemini-1.5-flash")
	require.NoError(t, err)
	require.Equal(t, StateResponded, turn.State)
	require.Equal(t, 1, searcher.calls)
	require.Equal(t, "election results", searcher.lastQ)
	require.Equal(t, []string{"search for election results"}, ai.prompts)
}

func TestSubmitMissingGeminiKey(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{keys: Keys{SerpKey: "s-key"}}
	searcher := &fakeSearcher{}
	ai := &fakeAI{}
	orc := newTestOrchestrator(keys, searcher, ai)

	turn, err := orc.Submit(context.Background(), 1, "hello there", "gemini-1.5-flash")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "gemini_api_key", cfgErr.Key)
	require.Equal(t, StateFailed, turn.State)

	// Reported before any collaborator call.
	require.Zero(t, searcher.calls)
	require.Zero(t, ai.calls)
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{keys: Keys{GeminiKey: "g-key"}}
	ai := &fakeAI{}
	orc := newTestOrchestrator(keys, &fakeSearcher{}, ai)

	var vErr *ValidationError

	_, err := orc.Submit(context.Background(), 1, "   ", "gemini-1.5-flash")
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "message", vErr.Field)

	_, err = orc.Submit(context.Background(), 1, "hello", "gpt-9000")
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "model", vErr.Field)

	require.Zero(t, ai.calls)
}

func TestSubmitDefaultModel(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{keys: Keys{GeminiKey: "g-key"}}
	ai := &fakeAI{response: "ok"}
	orc := newTestOrchestrator(keys, &fakeSearcher{}, ai)

	turn, err := orc.Submit(context.Background(), 1, "hello", "")
	require.NoError(t, err)
	require.Equal(t, DefaultModel, turn.Model)
}

func TestSubmitProviderErrorIsScopedToTurn(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{keys: Keys{GeminiKey: "bad-key"}}
	searcher := &fakeSearcher{}
	ai := &fakeAI{err: &core.ProviderError{Provider: "gemini", Category: core.CategoryAuth, Status: 401, Message: "invalid key"}}
	orc := newTestOrchestrator(keys, searcher, ai)

	turn, err := orc.Submit(context.Background(), 1, "hello", "gemini-1.5-flash")
	require.Error(t, err)
	require.Equal(t, StateFailed, turn.State)

	var pErr *core.ProviderError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, core.CategoryAuth, pErr.Category)

	// Same user fixes the key; the next turn is independent and succeeds.
	keys.keys.GeminiKey = "good-key"
	ai.err = nil
	ai.response = "works now"

	turn2, err := orc.Submit(context.Background(), 1, "hello again", "gemini-1.5-flash")
	require.NoError(t, err)
	require.Equal(t, StateResponded, turn2.State)
	require.Equal(t, "works now", turn2.Response)
	require.Equal(t, "good-key", ai.keys[len(ai.keys)-1])
}

func TestSubmitKeySourceError(t *testing.T) {
	t.Parallel()

	keys := &fakeKeys{err: errors.New("db down")}
	ai := &fakeAI{}
	orc := newTestOrchestrator(keys, &fakeSearcher{}, ai)

	turn, err := orc.Submit(context.Background(), 1, "hello", "gemini-1.5-flash")
	require.Error(t, err)
	require.Equal(t, StateFailed, turn.State)
	require.Zero(t, ai.calls)
}
