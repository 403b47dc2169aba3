// Package embedding_test covers embedder construction; network-bound
// embedding calls run only outside short mode.
package embedding_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockgraph-io/blockgraph/internal/embedding"
)

func TestNewOllamaDefaults(t *testing.T) {
	emb, err := embedding.New(embedding.Config{Provider: embedding.ProviderOllama})
	require.NoError(t, err, "should create embedder with default model")
	assert.Equal(t, embedding.DefaultOllamaModel, emb.Model())
	assert.Equal(t, embedding.DefaultOllamaDimension, emb.Dimension())
}

func TestNewEmptyProviderDefaultsToOllama(t *testing.T) {
	emb, err := embedding.New(embedding.Config{})
	require.NoError(t, err)
	assert.Equal(t, embedding.DefaultOllamaModel, emb.Model())
}

func TestNewOllamaCustomModel(t *testing.T) {
	emb, err := embedding.New(embedding.Config{
		Provider:  embedding.ProviderOllama,
		Model:     "custom-model",
		Dimension: 512,
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", emb.Model())
	assert.Equal(t, 512, emb.Dimension())
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := embedding.New(embedding.Config{Provider: embedding.ProviderOpenAI})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := embedding.New(embedding.Config{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedding provider")
}

func TestEmbed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	emb, err := embedding.New(embedding.Config{Provider: embedding.ProviderOllama})
	require.NoError(t, err)

	vec, err := emb.Embed(ctx, "Post a message to a Slack channel when a webhook fires.")
	require.NoError(t, err, "should generate embedding")
	assert.Len(t, vec, emb.Dimension(),
		"embedding must be exactly %d dimensions", emb.Dimension())

	var sum float32
	for _, v := range vec {
		sum += v * v
	}
	assert.Greater(t, sum, float32(0.1), "embedding should have non-trivial values")
}
