package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blockgraph-io/blockgraph/internal/config"
	"github.com/blockgraph-io/blockgraph/internal/metrics"
	"github.com/blockgraph-io/blockgraph/internal/server"
	"github.com/blockgraph-io/blockgraph/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve queries over MCP stdio",
	Long: `Serve loads the snapshot, starts the MCP server on stdio, and answers
query tools until the client disconnects. SIGHUP reloads the snapshot from
its source and swaps it atomically; in-flight queries keep the snapshot
they started with.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("blockgraph starting", "version", Version, "snapshot", cfg.SnapshotPath)

	metrics.InitFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := getEngine(ctx)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	attachEmbedder(eng)
	snap := snapStore.Current()
	logger.Info("snapshot loaded",
		"id", snap.ID(), "entities", snap.Len(), "edges", snap.EdgeCount(), "dimension", snap.Dimension())

	// Shutdown on SIGTERM/SIGINT, snapshot reload on SIGHUP.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				logger.Info("reloading snapshot")
				fresh, err := loadSnapshot(ctx)
				if err != nil {
					logger.Error("snapshot reload failed, keeping current snapshot", "error", err)
					continue
				}
				old := snapStore.Swap(fresh)
				logger.Info("snapshot swapped", "old", old.ID(), "new", fresh.ID(), "entities", fresh.Len())
				continue
			}
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
			return
		}
	}()

	srv := server.New(Version, logger)
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
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
