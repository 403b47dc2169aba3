// Package embedding provides query-text embedding behind a small interface.
// The engine's only contract with it: given query text, return a
// fixed-dimension float vector or explicitly signal unavailability, which
// the caller treats the same as an absent vector.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable signals that the embedding backend cannot serve the
// request right now. Callers fall back to lexical search rather than fail.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder generates fixed-dimension embeddings for query text.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension. It must match the
	// snapshot's embedding dimension for vector search to apply.
	Dimension() int
}

// Provider identifies the embedding backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// Config holds configuration for creating an Embedder.
type Config struct {
	Provider  Provider
	Model     string
	Dimension int

	// Ollama-specific.
	OllamaHost string

	// OpenAI-specific.
	OpenAIAPIKey string
}

// New creates an Embedder for the configured provider.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return newOllama(cfg)
	case ProviderOpenAI:
		return newOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
