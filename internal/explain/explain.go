// Package explain converts search results and paths into structured,
// human-usable explanations. Construction is pure template interpolation
// over structured inputs: no randomness, no model calls, and byte-identical
// output for identical input. That determinism is a contract callers rely
// on, not an optimization.
package explain

import (
	"fmt"
	"strings"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

// lowConfidenceThreshold marks scores and per-hop weights worth a caveat.
const lowConfidenceThreshold = 0.5

// longPathHops marks paths long enough that multiplicative decay deserves
// a caveat of its own.
const longPathHops = 3

// ForSearchResult builds the explanation for one ranked match. ent may be
// nil when the entity is no longer resolvable; the explanation then falls
// back to the id alone.
func ForSearchResult(res models.SearchResult, ent *models.Entity) models.Explanation {
	label := res.EntityID
	if ent != nil && ent.Label != "" {
		label = ent.Label
	}

	var steps []string
	if res.Degraded {
		steps = append(steps, fmt.Sprintf("matched query lexically against label and description with score %s", score(res.Score)))
	} else {
		steps = append(steps, fmt.Sprintf("matched query with similarity %s", score(res.Score)))
	}
	if res.Category != "" {
		steps = append(steps, fmt.Sprintf("belongs to category %s", res.Category))
	}

	var caveats []string
	if res.Degraded {
		caveats = append(caveats, "produced by lexical fallback; no vector similarity was available for this query")
	}
	if !res.Degraded && res.Score < lowConfidenceThreshold {
		caveats = append(caveats, fmt.Sprintf("similarity %s is below %s; treat this match as tentative", score(res.Score), score(lowConfidenceThreshold)))
	}

	var examples []string
	if ent != nil {
		examples = ent.Examples()
	}

	summary := fmt.Sprintf("%s matches the query with score %s", label, score(res.Score))

	return models.Explanation{
		Summary:        summary,
		DetailedText:   detail(summary, steps, caveats),
		Confidence:     res.Score,
		ReasoningSteps: steps,
		Caveats:        caveats,
		Examples:       examples,
		NextSteps: []string{
			fmt.Sprintf("use entity %s as the start of an INTEGRATE query to find connection paths", res.EntityID),
			fmt.Sprintf("run a SUGGEST query on %s to discover related building blocks", res.EntityID),
		},
	}
}

// ForPath builds the explanation for one integration path. start and end
// supply human labels for the endpoints; hop narration uses the ids and
// relation types carried on the path itself.
func ForPath(p models.Path, start, end *models.Entity) models.Explanation {
	if p.IsEmpty() {
		return models.Explanation{
			Summary:      "no integration path was found within the hop limit",
			DetailedText: "no integration path was found within the hop limit",
			NextSteps: []string{
				"retry with a larger max_hops value",
				"run a SUGGEST query on either endpoint to find intermediate building blocks",
			},
		}
	}

	from := entityLabel(start, p.EntityIDs[0])
	to := entityLabel(end, p.EntityIDs[len(p.EntityIDs)-1])

	steps := make([]string, 0, len(p.Edges)+1)
	steps = append(steps, fmt.Sprintf("found a %d-hop path from %s to %s", p.HopCount, from, to))
	var caveats []string
	var examples []string
	for i, edge := range p.Edges {
		steps = append(steps, fmt.Sprintf("hop %d: %s connects to %s via %s with weight %s",
			i+1, edge.SourceID, edge.TargetID, edge.RelType, score(edge.Weight)))
		if edge.Weight < lowConfidenceThreshold {
			caveats = append(caveats, fmt.Sprintf("hop %d (%s -> %s) carries a low weight of %s",
				i+1, edge.SourceID, edge.TargetID, score(edge.Weight)))
		}
		examples = append(examples, edge.Examples()...)
	}
	steps = append(steps, fmt.Sprintf("accumulated confidence is the product of edge weights: %s", score(p.Confidence)))

	if p.HopCount > longPathHops {
		caveats = append(caveats, fmt.Sprintf("path spans %d hops; confidence decays multiplicatively with length", p.HopCount))
	}

	summary := fmt.Sprintf("%s reaches %s in %d hops with confidence %s", from, to, p.HopCount, score(p.Confidence))

	return models.Explanation{
		Summary:        summary,
		DetailedText:   detail(summary, steps, caveats),
		Confidence:     p.Confidence,
		ReasoningSteps: steps,
		Caveats:        caveats,
		Examples:       examples,
		NextSteps: []string{
			"chain the listed hops in order to integrate the two building blocks",
			fmt.Sprintf("use entity %s as a new traversal start to extend the chain", p.EntityIDs[len(p.EntityIDs)-1]),
		},
	}
}

func entityLabel(ent *models.Entity, fallback string) string {
	if ent != nil && ent.Label != "" {
		return ent.Label
	}
	return fallback
}

// score renders a confidence value with fixed precision so that equal
// inputs always produce identical text.
func score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func detail(summary string, steps, caveats []string) string {
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString(".")
	for _, s := range steps {
		b.WriteString(" ")
		b.WriteString(s)
		b.WriteString(".")
	}
	for _, c := range caveats {
		b.WriteString(" Caveat: ")
		b.WriteString(c)
		b.WriteString(".")
	}
	return b.String()
}
