package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// DefaultOllamaModel produces 384-dimensional vectors.
	DefaultOllamaModel     = "all-minilm:l6-v2"
	DefaultOllamaDimension = 384
)

// langchainEmbedder wraps a langchaingo embedder with dimension validation.
type langchainEmbedder struct {
	model     embeddings.Embedder
	modelName string
	dimension int
}

var _ Embedder = (*langchainEmbedder)(nil)

func newOllama(cfg Config) (*langchainEmbedder, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	dim := cfg.Dimension
	if dim == 0 {
		dim = DefaultOllamaDimension
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if cfg.OllamaHost != "" {
		opts = append(opts, ollama.WithServerURL(cfg.OllamaHost))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}

	return &langchainEmbedder{model: embedder, modelName: model, dimension: dim}, nil
}

func newOpenAI(cfg Config) (*langchainEmbedder, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai provider requires an API key")
	}
	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}

	return &langchainEmbedder{model: embedder, modelName: cfg.Model, dimension: cfg.Dimension}, nil
}

// Embed generates an embedding vector for text. Backend failures are
// reported as ErrUnavailable so callers can degrade to lexical search.
func (e *langchainEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vectors, err := e.model.EmbedDocuments(ctx, []string{text})
	duration := time.Since(start)

	if err != nil {
		slog.Warn("embedding failed", "model", e.modelName, "duration_ms", duration.Milliseconds(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrUnavailable)
	}

	vec := vectors[0]
	if e.dimension > 0 && len(vec) != e.dimension {
		return nil, fmt.Errorf("dimension mismatch: got %d, want %d", len(vec), e.dimension)
	}

	slog.Debug("embedding complete", "model", e.modelName, "duration_ms", duration.Milliseconds())
	return vec, nil
}

// Model returns the embedding model name.
func (e *langchainEmbedder) Model() string { return e.modelName }

// Dimension returns the expected embedding dimension.
func (e *langchainEmbedder) Dimension() int { return e.dimension }
