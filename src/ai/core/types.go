package core

import (
	"context"
	"fmt"
)

// Options controls model behavior; zero fields fall back to provider defaults.
type Options struct {
	Model           string
	SystemPrompt    string
	Temperature     float64
	MaxOutputTokens int
}

// Client is a provider-agnostic interface for text generation.
type Client interface {
	// Generate returns the whole generated text for prompt. Provider-side
	// failures come back as *ProviderError.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Error categories for provider failures.
const (
	CategoryAuth     = "auth"
	CategoryQuota    = "quota"
	CategoryModel    = "model"
	CategoryNetwork  = "network"
	CategoryProvider = "provider"
)

// ProviderError is a typed failure from an AI provider call. It is scoped to
// a single turn; callers surface it and move on.
type ProviderError struct {
	Provider string
	Category string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Provider, e.Category, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Category, e.Message)
}

// CategoryForStatus maps an HTTP status from a provider to an error category.
func CategoryForStatus(status int) string {
	switch status {
	case 401, 403:
		return CategoryAuth
	case 404:
		return CategoryModel
	case 429:
		return CategoryQuota
	default:
		return CategoryProvider
	}
}
