package domain

import "context"

// LLMProvider is the interface for any LLM backend.
type LLMProvider interface {
	// Chat sends a request and returns a complete response.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name returns the provider's identifier (e.g., "gemini", "ollama").
	Name() string
}

// Completer produces a short continuation for partially typed text.
// An empty result means no suggestion is available; it is never an error.
type Completer interface {
	Complete(ctx context.Context, text string) string
}
