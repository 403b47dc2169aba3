package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

var (
	pathMaxHops  int
	pathMaxPaths int
	pathExplain  bool
	pathFormat   string
)

var pathCmd = &cobra.Command{
	Use:   "path <from-id> <to-id>",
	Short: "Find multi-hop integration paths between two building blocks",
	Long: `Path enumerates routes from one entity to another up to a hop limit,
ranked by accumulated confidence (the product of edge weights along the
path).

Examples:
  blockgraph path webhook-trigger slack-post
  blockgraph path webhook-trigger slack-post --max-hops 4 --explain`,
	Args: cobra.ExactArgs(2),
	RunE: runPath,
}

func init() {
	pathCmd.Flags().IntVar(&pathMaxHops, "max-hops", 5, "maximum path length")
	pathCmd.Flags().IntVar(&pathMaxPaths, "max-paths", 5, "maximum alternate paths returned")
	pathCmd.Flags().BoolVar(&pathExplain, "explain", false, "attach explanations")
	pathCmd.Flags().StringVar(&pathFormat, "format", "HUMAN_READABLE", "output format: FULL, COMPACT, or HUMAN_READABLE")
}

func runPath(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := getEngine(ctx)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	out, err := eng.QueryFormatted(ctx, models.Request{
		Type:     models.QueryIntegrate,
		FromID:   args[0],
		ToID:     args[1],
		MaxHops:  pathMaxHops,
		MaxPaths: pathMaxPaths,
		Explain:  pathExplain,
		Format:   models.FormatType(pathFormat),
	})
	if err != nil {
		return fmt.Errorf("path: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
