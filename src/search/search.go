package search

import (
	"context"
	"errors"
)

// ErrUnavailable signals that web search could not be performed for this
// turn. Callers degrade to an unaugmented prompt; it is never a turn failure.
var ErrUnavailable = errors.New("web search unavailable")

// Snippet is a single search result used as grounding context. Order is the
// provider's ranking and is preserved into the composed prompt.
type Snippet struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Source  string `json:"source"`
}

// Provider fetches ranked snippets for a query using the caller's API key.
type Provider interface {
	Fetch(ctx context.Context, query, apiKey string) ([]Snippet, error)
}
