// Package main provides the entry point for the blockgraph MCP server.
// It is the non-interactive equivalent of "blockgraph serve", configured
// entirely from the environment for use as an agent subprocess.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blockgraph-io/blockgraph/internal/config"
	"github.com/blockgraph-io/blockgraph/internal/embedding"
	"github.com/blockgraph-io/blockgraph/internal/engine"
	"github.com/blockgraph-io/blockgraph/internal/metrics"
	"github.com/blockgraph-io/blockgraph/internal/server"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
	"github.com/blockgraph-io/blockgraph/internal/tools"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("blockgraph-server starting",
		"version", version,
		"snapshot", cfg.SnapshotPath,
	)

	metrics.InitFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.SnapshotPath == "" {
		logger.Error("BLOCKGRAPH_SNAPSHOT is required")
		os.Exit(1)
	}
	data, err := snapshot.LoadFile(cfg.SnapshotPath)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	snap, err := snapshot.Build(data, logger)
	if err != nil {
		logger.Error("failed to build snapshot", "error", err)
		os.Exit(1)
	}
	store := snapshot.NewStore(snap)
	logger.Info("snapshot loaded",
		"id", snap.ID(), "entities", snap.Len(), "edges", snap.EdgeCount(), "dimension", snap.Dimension())

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithValidator(engine.NewRuleValidator(store)),
		engine.WithLatencyBudget(cfg.LatencyBudget),
		engine.WithCacheSize(cfg.CacheSize),
	}
	if cfg.EmbedProvider != "" {
		emb, err := embedding.New(embedding.Config{
			Provider:     embedding.Provider(cfg.EmbedProvider),
			Model:        cfg.EmbedModel,
			Dimension:    cfg.EmbedDimension,
			OllamaHost:   cfg.OllamaHost,
			OpenAIAPIKey: cfg.OpenAIAPIKey,
		})
		if err != nil {
			logger.Warn("embedder unavailable, serving lexical fallback only", "error", err)
		} else {
			opts = append(opts, engine.WithEmbedder(emb))
			logger.Info("embedder initialized", "model", emb.Model())
		}
	}
	eng := engine.New(store, opts...)

	srv := server.New(version, logger)
	srv.Setup()

	deps := &tools.Dependencies{
		Engine: eng,
		Logger: logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered", "count", 6)

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
