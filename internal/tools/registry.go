package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Semantic search over the building-block catalog
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_search",
		Description: "Rank building blocks by vector similarity to a query, with lexical fallback",
	}, NewSearchHandler(deps))

	// Multi-hop integration paths
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_integrate",
		Description: "Find ranked multi-hop integration paths between two building blocks",
	}, NewIntegrateHandler(deps))

	// Weighted neighbor suggestions
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_suggest",
		Description: "Suggest related building blocks ranked by edge weight",
	}, NewSuggestHandler(deps))

	// Validation via the external collaborator
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_validate",
		Description: "Forward a payload to the validator collaborator and relay its result",
	}, NewValidateHandler(deps))

	// Engine runtime statistics
	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Report per-operation engine timing statistics",
	}, NewStatsHandler(deps))
}
