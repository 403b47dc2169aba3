package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockgraph-io/blockgraph/internal/embedding"
	"github.com/blockgraph-io/blockgraph/internal/engine"
	"github.com/blockgraph-io/blockgraph/internal/models"
)

var (
	searchCategory string
	searchLimit    int
	searchMinScore float64
	searchExplain  bool
	searchFormat   string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the building-block catalog by semantic similarity",
	Long: `Search ranks catalog entities by vector similarity to the query.

When an embedding backend is configured the query text is embedded first;
otherwise (or when the backend is unavailable) a lexical fallback over
labels and descriptions is used and results are marked degraded.

Examples:
  blockgraph search "send a slack message"
  blockgraph search "http trigger" --category trigger --limit 5
  blockgraph search "parse csv" --explain --format HUMAN_READABLE`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "restrict candidates to one category")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "max results")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "minimum similarity score")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "attach explanations")
	searchCmd.Flags().StringVar(&searchFormat, "format", "HUMAN_READABLE", "output format: FULL, COMPACT, or HUMAN_READABLE")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := getEngine(ctx)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	attachEmbedder(eng)

	out, err := eng.QueryFormatted(ctx, models.Request{
		Type:     models.QuerySearch,
		Text:     args[0],
		Limit:    searchLimit,
		MinScore: searchMinScore,
		Category: searchCategory,
		Explain:  searchExplain,
		Format:   models.FormatType(searchFormat),
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

// attachEmbedder is a no-op when no embedding provider is configured; the
// engine then serves lexical fallback results.
func attachEmbedder(eng *engine.Engine) {
	if cfg.EmbedProvider == "" {
		return
	}
	emb, err := embedding.New(embedding.Config{
		Provider:     embedding.Provider(cfg.EmbedProvider),
		Model:        cfg.EmbedModel,
		Dimension:    cfg.EmbedDimension,
		OllamaHost:   cfg.OllamaHost,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
	})
	if err != nil {
		if verbose {
			fmt.Printf("embedder unavailable, using lexical fallback: %v\n", err)
		}
		return
	}
	engine.WithEmbedder(emb)(eng)
}
