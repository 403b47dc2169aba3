// Package tools provides MCP tool handlers and registration.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/blockgraph-io/blockgraph/internal/engine"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// defaultToolDeadline bounds tool calls that arrive without an explicit
// deadline; traversal checks it at every expansion step.
const defaultToolDeadline = 5 * time.Second

// maxToolDeadline caps caller-supplied deadlines.
const maxToolDeadline = 60 * time.Second

// withDeadline derives the query context from the tool input's deadline.
func withDeadline(ctx context.Context, deadlineMs int) (context.Context, context.CancelFunc) {
	d := defaultToolDeadline
	if deadlineMs > 0 {
		d = time.Duration(deadlineMs) * time.Millisecond
		if d > maxToolDeadline {
			d = maxToolDeadline
		}
	}
	return context.WithTimeout(ctx, d)
}
