package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

var (
	suggestDepth     int
	suggestRelations []string
	suggestLimit     int
	suggestFormat    string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <entity-id>",
	Short: "Suggest related building blocks ranked by edge weight",
	Long: `Suggest expands the graph around an entity and returns its neighbors
ranked by connection strength, optionally restricted to certain relation
types.

Examples:
  blockgraph suggest slack-post
  blockgraph suggest slack-post --depth 2 --relations COMPATIBLE_WITH,REQUIRES`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestDepth, "depth", "d", 1, "expansion depth")
	suggestCmd.Flags().StringSliceVarP(&suggestRelations, "relations", "r", nil, "filter by relation types")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "max suggestions")
	suggestCmd.Flags().StringVar(&suggestFormat, "format", "HUMAN_READABLE", "output format: FULL, COMPACT, or HUMAN_READABLE")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := getEngine(ctx)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	rels := make([]models.RelationType, len(suggestRelations))
	for i, r := range suggestRelations {
		rels[i] = models.RelationType(r)
	}

	out, err := eng.QueryFormatted(ctx, models.Request{
		Type:           models.QuerySuggest,
		FromID:         args[0],
		Depth:          suggestDepth,
		RelationFilter: rels,
		Limit:          suggestLimit,
		Format:         models.FormatType(suggestFormat),
	})
	if err != nil {
		return fmt.Errorf("suggest: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
