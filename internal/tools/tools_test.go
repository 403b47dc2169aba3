//go:build integration

package tools_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockgraph-io/blockgraph/internal/engine"
	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
	"github.com/blockgraph-io/blockgraph/internal/tools"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	logger := testLogger()

	snap, err := snapshot.Build(&snapshot.Data{
		Entities: []models.Entity{
			{ID: "webhook", Label: "Webhook Trigger", Embedding: []float32{1, 0}},
			{ID: "slack", Label: "Slack Post Message", Embedding: []float32{0, 1}},
		},
		Edges: []models.Edge{
			{SourceID: "webhook", TargetID: "slack", RelType: models.RelationTriggers, Weight: 0.9},
		},
	}, logger)
	require.NoError(t, err)

	eng := engine.New(snapshot.NewStore(snap), engine.WithLogger(logger))

	impl := &mcp.Implementation{
		Name:    "test-blockgraph",
		Version: "0.0.1-test",
	}
	server := mcp.NewServer(impl, nil)

	deps := &tools.Dependencies{
		Engine: eng,
		Logger: logger,
	}
	tools.RegisterAll(server, deps)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, serverTransport)
	}()

	time.Sleep(50 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")
	defer session.Close()

	t.Run("tools/list returns all tools", func(t *testing.T) {
		result, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		require.Len(t, result.Tools, 6)

		names := make(map[string]bool)
		for _, tool := range result.Tools {
			names[tool.Name] = true
		}
		for _, want := range []string{"ping", "query_search", "query_integrate", "query_suggest", "query_validate", "stats"} {
			assert.True(t, names[want], "tool %s should be registered", want)
		}
	})

	t.Run("ping returns pong", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "ping",
			Arguments: map[string]any{},
		})
		require.NoError(t, err)
		require.Len(t, result.Content, 1)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok, "content should be TextContent")
		assert.Equal(t, "pong", textContent.Text)
		assert.False(t, result.IsError)
	})

	t.Run("query_search over the wire", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "query_search",
			Arguments: map[string]any{"query": "slack"},
		})
		require.NoError(t, err)
		require.Len(t, result.Content, 1)
		assert.False(t, result.IsError)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, textContent.Text, `"slack"`)
	})

	cancel()

	select {
	case err := <-serverErr:
		if err != nil {
			t.Logf("server stopped with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop within timeout")
	}
}
