// Package cli provides the command-line interface for blockgraph.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockgraph-io/blockgraph/internal/config"
	"github.com/blockgraph-io/blockgraph/internal/engine"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
	"github.com/blockgraph-io/blockgraph/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose      bool
	snapshotPath string

	// Loaded once in PersistentPreRunE
	cfg       config.Config
	snapStore *snapshot.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "blockgraph",
	Short: "Knowledge-graph retrieval engine for automation building blocks",
	Long: `Blockgraph answers structured queries about a catalog of automation
building blocks and their relationships: ranked semantic matches, multi-hop
integration paths, and deterministic explanations for each result.

The engine serves queries from an immutable snapshot produced by an external
ETL pipeline, loaded from a JSON file or bulk-read from a SurrealDB graph
store.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if snapshotPath != "" {
			cfg.SnapshotPath = snapshotPath
		}
		return nil
	},
}

// loadSnapshot materializes a snapshot from the configured source: the
// snapshot file when one is named, otherwise the SurrealDB graph store.
func loadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	var data *snapshot.Data
	var err error

	switch {
	case cfg.SnapshotPath != "":
		data, err = snapshot.LoadFile(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
	case cfg.SurrealDBURL != "":
		client, cerr := store.NewClient(ctx, store.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
		}, nil)
		if cerr != nil {
			return nil, fmt.Errorf("connect to graph store: %w", cerr)
		}
		defer func() { _ = client.Close(ctx) }()

		data, err = client.LoadSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("load snapshot from graph store: %w", err)
		}
	default:
		return nil, fmt.Errorf("no snapshot source: set --snapshot, BLOCKGRAPH_SNAPSHOT, or SURREALDB_URL")
	}

	return snapshot.Build(data, nil)
}

// getEngine loads the snapshot and builds a query engine around it.
func getEngine(ctx context.Context) (*engine.Engine, error) {
	snap, err := loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	snapStore = snapshot.NewStore(snap)
	return engine.New(snapStore,
		engine.WithValidator(engine.NewRuleValidator(snapStore)),
		engine.WithLatencyBudget(cfg.LatencyBudget),
		engine.WithCacheSize(cfg.CacheSize),
	), nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "s", "", "path to a snapshot JSON file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(inspectCmd)
}
