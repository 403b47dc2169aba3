package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blockgraph-io/blockgraph/internal/metrics"
	"github.com/blockgraph-io/blockgraph/internal/models"
)

// SearchInput defines the input schema for the query_search tool.
type SearchInput struct {
	Query      string    `json:"query,omitempty" jsonschema:"Query text; embedded when no vector is given"`
	Vector     []float32 `json:"vector,omitempty" jsonschema:"Precomputed query embedding"`
	Limit      int       `json:"limit,omitempty" jsonschema:"Max results 1-100, default 10"`
	MinScore   float64   `json:"min_score,omitempty" jsonschema:"Minimum similarity score"`
	Category   string    `json:"category,omitempty" jsonschema:"Restrict candidates to one category"`
	Explain    bool      `json:"explain,omitempty" jsonschema:"Attach a deterministic explanation per result"`
	Format     string    `json:"format,omitempty" jsonschema:"FULL, COMPACT, or HUMAN_READABLE"`
	DeadlineMs int       `json:"deadline_ms,omitempty" jsonschema:"Soft deadline in milliseconds"`
}

// NewSearchHandler creates the query_search tool handler.
func NewSearchHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Query == "" && len(input.Vector) == 0 {
			return ErrorResult("Query or vector required", "Provide query text or a precomputed embedding"), nil, nil
		}
		if input.Limit > 100 {
			return ErrorResult("Limit must be 1-100", "Reduce limit value"), nil, nil
		}

		done := metrics.TimeTool("query_search")
		qctx, cancel := withDeadline(ctx, input.DeadlineMs)
		defer cancel()

		out, err := deps.Engine.QueryFormatted(qctx, models.Request{
			Type:     models.QuerySearch,
			Text:     input.Query,
			Vector:   input.Vector,
			Limit:    input.Limit,
			MinScore: input.MinScore,
			Category: input.Category,
			Explain:  input.Explain,
			Format:   models.FormatType(input.Format),
		})
		done(err == nil)
		if err != nil {
			deps.Logger.Error("query_search failed", "error", err)
			return ErrorResult("Search failed", "Check the format type and try again"), nil, nil
		}

		deps.Logger.Info("query_search completed", "query", truncateQuery(input.Query))
		return TextResult(string(out)), nil, nil
	}
}

// IntegrateInput defines the input schema for the query_integrate tool.
type IntegrateInput struct {
	From       string `json:"from" jsonschema:"required,Starting entity ID"`
	To         string `json:"to" jsonschema:"required,Target entity ID"`
	MaxHops    int    `json:"max_hops,omitempty" jsonschema:"Maximum path length 1-20 (default 5)"`
	MaxPaths   int    `json:"max_paths,omitempty" jsonschema:"Maximum alternate paths returned (default 5)"`
	Explain    bool   `json:"explain,omitempty" jsonschema:"Attach a deterministic explanation per path"`
	Format     string `json:"format,omitempty" jsonschema:"FULL, COMPACT, or HUMAN_READABLE"`
	DeadlineMs int    `json:"deadline_ms,omitempty" jsonschema:"Soft deadline in milliseconds"`
}

// NewIntegrateHandler creates the query_integrate tool handler.
// Finds ranked multi-hop integration paths between two entities.
func NewIntegrateHandler(deps *Dependencies) mcp.ToolHandlerFor[IntegrateInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IntegrateInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.From == "" {
			return ErrorResult("from cannot be empty", "Provide starting entity ID"), nil, nil
		}
		if input.To == "" {
			return ErrorResult("to cannot be empty", "Provide target entity ID"), nil, nil
		}
		if input.MaxHops > 20 {
			return ErrorResult("max_hops must be between 1 and 20", "Reduce max_hops value"), nil, nil
		}

		done := metrics.TimeTool("query_integrate")
		qctx, cancel := withDeadline(ctx, input.DeadlineMs)
		defer cancel()

		out, err := deps.Engine.QueryFormatted(qctx, models.Request{
			Type:     models.QueryIntegrate,
			FromID:   input.From,
			ToID:     input.To,
			MaxHops:  input.MaxHops,
			MaxPaths: input.MaxPaths,
			Explain:  input.Explain,
			Format:   models.FormatType(input.Format),
		})
		done(err == nil)
		if err != nil {
			deps.Logger.Error("query_integrate failed", "from", input.From, "to", input.To, "error", err)
			return ErrorResult("Path finding failed", "Check the format type and try again"), nil, nil
		}

		deps.Logger.Info("query_integrate completed", "from", input.From, "to", input.To)
		return TextResult(string(out)), nil, nil
	}
}

// SuggestInput defines the input schema for the query_suggest tool.
type SuggestInput struct {
	Start         string   `json:"start" jsonschema:"required,Entity ID to expand from"`
	Depth         int      `json:"depth,omitempty" jsonschema:"Expansion depth 1-10 (default 1)"`
	RelationTypes []string `json:"relation_types,omitempty" jsonschema:"Filter by relation types"`
	Limit         int      `json:"limit,omitempty" jsonschema:"Max suggestions, default 10"`
	Explain       bool     `json:"explain,omitempty" jsonschema:"Attach a deterministic explanation per suggestion"`
	Format        string   `json:"format,omitempty" jsonschema:"FULL, COMPACT, or HUMAN_READABLE"`
	DeadlineMs    int      `json:"deadline_ms,omitempty" jsonschema:"Soft deadline in milliseconds"`
}

// NewSuggestHandler creates the query_suggest tool handler.
// Returns neighboring building blocks ranked by edge weight.
func NewSuggestHandler(deps *Dependencies) mcp.ToolHandlerFor[SuggestInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SuggestInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Start == "" {
			return ErrorResult("start cannot be empty", "Provide entity ID to expand from"), nil, nil
		}
		if input.Depth > 10 {
			return ErrorResult("depth must be between 1 and 10", "Reduce depth value"), nil, nil
		}

		rels := make([]models.RelationType, len(input.RelationTypes))
		for i, rt := range input.RelationTypes {
			rels[i] = models.RelationType(rt)
		}

		done := metrics.TimeTool("query_suggest")
		qctx, cancel := withDeadline(ctx, input.DeadlineMs)
		defer cancel()

		out, err := deps.Engine.QueryFormatted(qctx, models.Request{
			Type:           models.QuerySuggest,
			FromID:         input.Start,
			Depth:          input.Depth,
			RelationFilter: rels,
			Limit:          input.Limit,
			Explain:        input.Explain,
			Format:         models.FormatType(input.Format),
		})
		done(err == nil)
		if err != nil {
			deps.Logger.Error("query_suggest failed", "start", input.Start, "error", err)
			return ErrorResult("Suggestion failed", "Check the format type and try again"), nil, nil
		}

		deps.Logger.Info("query_suggest completed", "start", input.Start, "depth", input.Depth)
		return TextResult(string(out)), nil, nil
	}
}

// ValidateInput defines the input schema for the query_validate tool.
type ValidateInput struct {
	Payload    map[string]any `json:"payload" jsonschema:"required,Payload forwarded to the validator collaborator"`
	Format     string         `json:"format,omitempty" jsonschema:"FULL, COMPACT, or HUMAN_READABLE"`
	DeadlineMs int            `json:"deadline_ms,omitempty" jsonschema:"Soft deadline in milliseconds"`
}

// NewValidateHandler creates the query_validate tool handler.
// The payload is forwarded verbatim to the configured validator.
func NewValidateHandler(deps *Dependencies) mcp.ToolHandlerFor[ValidateInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (
		*mcp.CallToolResult, any, error,
	) {
		if len(input.Payload) == 0 {
			return ErrorResult("payload cannot be empty", "Provide a payload for the validator"), nil, nil
		}

		done := metrics.TimeTool("query_validate")
		qctx, cancel := withDeadline(ctx, input.DeadlineMs)
		defer cancel()

		out, err := deps.Engine.QueryFormatted(qctx, models.Request{
			Type:    models.QueryValidate,
			Payload: input.Payload,
			Format:  models.FormatType(input.Format),
		})
		done(err == nil)
		if err != nil {
			deps.Logger.Error("query_validate failed", "error", err)
			return ErrorResult("Validation failed", "Check the format type and try again"), nil, nil
		}

		return TextResult(string(out)), nil, nil
	}
}

func truncateQuery(q string) string {
	if len(q) > 30 {
		return q[:30] + "..."
	}
	return q
}
