package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// paramsLogLimit caps logged request params. Query tool arguments can carry
// whole embedding vectors; logging them verbatim would drown the log.
const paramsLogLimit = 200

// slowCallThreshold promotes a request to WARN. Chosen to match the engine's
// default latency budget order of magnitude, not the tool deadline.
const slowCallThreshold = 100 * time.Millisecond

// LoggingMiddleware logs every MCP request with its duration. Tool calls
// additionally carry the tool name, so a slow query_integrate is
// distinguishable from a slow tools/list.
func LoggingMiddleware(logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			attrs := []any{
				"method", method,
				"duration_ms", elapsed.Milliseconds(),
			}
			if tool := toolName(req); tool != "" {
				attrs = append(attrs, "tool", tool)
			}
			if summary := paramsSummary(req); summary != "" {
				attrs = append(attrs, "params", summary)
			}

			switch {
			case err != nil:
				logger.Error("request failed", append(attrs, "error", err.Error())...)
			case elapsed > slowCallThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}

			return result, err
		}
	}
}

// toolName extracts the called tool's name from a tools/call request.
func toolName(req mcp.Request) string {
	if p, ok := req.GetParams().(*mcp.CallToolParams); ok {
		return p.Name
	}
	return ""
}

// paramsSummary renders request params for logging, truncated to the limit.
func paramsSummary(req mcp.Request) string {
	params := req.GetParams()
	if params == nil {
		return ""
	}
	s := fmt.Sprintf("%+v", params)
	if len(s) > paramsLogLimit {
		return s[:paramsLogLimit-3] + "..."
	}
	return s
}
