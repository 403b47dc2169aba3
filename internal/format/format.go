// Package format serializes a response envelope into one of the supported
// output shapes. Every mode renders a well-formed document for empty result
// sets and for error envelopes alike.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

// Render serializes env in the requested shape. An empty format type
// defaults to FULL; an unknown one is an invalid query.
func Render(env models.Envelope, ft models.FormatType) ([]byte, error) {
	switch ft {
	case models.FormatFull, "":
		return renderFull(env)
	case models.FormatCompact:
		return renderCompact(env)
	case models.FormatHumanReadable:
		return []byte(renderHuman(env)), nil
	default:
		return nil, fmt.Errorf("%w: unknown format type %q", models.ErrInvalidQuery, ft)
	}
}

// renderFull emits every field of the envelope unmodified.
func renderFull(env models.Envelope) ([]byte, error) {
	buf, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render full: %w", err)
	}
	return buf, nil
}

// Compact shapes strip explanations, metadata, embeddings, and stats down
// to ids, scores, and one-line summaries.
type compactEnvelope struct {
	Status    models.Status     `json:"status"`
	QueryType models.QueryType  `json:"query_type"`
	Results   []compactResult   `json:"results,omitempty"`
	Paths     []compactPath     `json:"paths,omitempty"`
	Valid     *bool             `json:"valid,omitempty"`
	Error     *models.ErrorInfo `json:"error,omitempty"`
}

type compactResult struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Summary  string  `json:"summary,omitempty"`
	Degraded bool    `json:"degraded,omitempty"`
}

type compactPath struct {
	Route      string  `json:"route"`
	Confidence float64 `json:"confidence"`
	Hops       int     `json:"hops"`
	Summary    string  `json:"summary,omitempty"`
}

func renderCompact(env models.Envelope) ([]byte, error) {
	out := compactEnvelope{
		Status:    env.Status,
		QueryType: env.QueryType,
		Error:     env.Error,
	}
	for _, r := range env.Results {
		cr := compactResult{ID: r.EntityID, Score: r.Score, Degraded: r.Degraded}
		if r.Explanation != nil {
			cr.Summary = r.Explanation.Summary
		}
		out.Results = append(out.Results, cr)
	}
	for _, p := range env.Paths {
		cp := compactPath{
			Route:      strings.Join(p.EntityIDs, " -> "),
			Confidence: p.Confidence,
			Hops:       p.HopCount,
		}
		if p.Explanation != nil {
			cp.Summary = p.Explanation.Summary
		}
		out.Paths = append(out.Paths, cp)
	}
	if env.Validation != nil {
		out.Valid = &env.Validation.Valid
	}

	buf, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("render compact: %w", err)
	}
	return buf, nil
}

// renderHuman produces labeled prose-like sections. It is still plain text
// data, not markup bound to any presentation layer.
func renderHuman(env models.Envelope) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s (%s query)\n", env.Status, env.QueryType)

	if env.Error != nil {
		fmt.Fprintf(&b, "\nError [%s]: %s\n", env.Error.Code, env.Error.Message)
		if env.Error.NextAction != "" {
			fmt.Fprintf(&b, "Suggested action: %s\n", env.Error.NextAction)
		}
		return b.String()
	}

	if len(env.Results) > 0 {
		fmt.Fprintf(&b, "\nResults (%d):\n", len(env.Results))
		for i, r := range env.Results {
			label := r.Label
			if label == "" {
				label = r.EntityID
			}
			fmt.Fprintf(&b, "%d. %s [%s] score %.2f", i+1, label, r.EntityID, r.Score)
			if r.Degraded {
				b.WriteString(" (degraded)")
			}
			if r.Hops > 0 {
				fmt.Fprintf(&b, " at %d hop(s)", r.Hops)
			}
			b.WriteString("\n")
			if r.Explanation != nil {
				fmt.Fprintf(&b, "   %s\n", r.Explanation.Summary)
			}
		}
	}

	if len(env.Paths) > 0 {
		fmt.Fprintf(&b, "\nPaths (%d):\n", len(env.Paths))
		for i, p := range env.Paths {
			fmt.Fprintf(&b, "%d. %s (confidence %.2f, %d hops)\n",
				i+1, strings.Join(p.EntityIDs, " -> "), p.Confidence, p.HopCount)
			if p.Explanation != nil {
				for _, step := range p.Explanation.ReasoningSteps {
					fmt.Fprintf(&b, "   - %s\n", step)
				}
			}
		}
	}

	if env.Validation != nil {
		fmt.Fprintf(&b, "\nValidation: valid=%t (%d checks)\n", env.Validation.Valid, env.Validation.Checked)
		for _, issue := range env.Validation.Issues {
			fmt.Fprintf(&b, "   - %s\n", issue)
		}
	}

	if len(env.Results) == 0 && len(env.Paths) == 0 && env.Validation == nil {
		b.WriteString("\nNo results.\n")
	}

	fmt.Fprintf(&b, "\nQuery took %dus, %d candidates considered", env.Stats.ElapsedMicros, env.Stats.CandidateCount)
	if env.Stats.CacheHit {
		b.WriteString(" (cache hit)")
	}
	b.WriteString("\n")

	return b.String()
}
