package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the configured snapshot",
	Long: `Inspect loads the configured snapshot and prints its shape: entity and
edge counts, embedding dimension, and version. Useful for sanity-checking
an ETL export before serving it.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	snap, err := loadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	fmt.Printf("Snapshot %s\n", snap.ID())
	if snap.Version() != "" {
		fmt.Printf("Version:   %s\n", snap.Version())
	}
	fmt.Printf("Entities:  %d\n", snap.Len())
	fmt.Printf("Edges:     %d\n", snap.EdgeCount())
	fmt.Printf("Dimension: %d\n", snap.Dimension())

	if verbose {
		categories := make(map[string]int)
		for i := 0; i < snap.Len(); i++ {
			categories[snap.EntityAt(i).Category]++
		}
		fmt.Println("\nCategories:")
		for cat, count := range categories {
			if cat == "" {
				cat = "(none)"
			}
			fmt.Printf("  %-20s %d\n", cat, count)
		}
	}

	return nil
}
