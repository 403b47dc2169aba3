package models

// SearchResult is one ranked match from semantic search.
// Degraded marks results produced by the lexical fallback rather than
// vector similarity; their scores are capped below true vector matches.
type SearchResult struct {
	EntityID string  `json:"entity_id"`
	Score    float64 `json:"score"`
	Category string  `json:"category,omitempty"`
	Degraded bool    `json:"degraded,omitempty"`
}

// Path is an ordered multi-hop route through the graph. Confidence is the
// raw product of the traversed edge weights; no normalization is applied,
// so long low-weight paths decay toward zero.
type Path struct {
	EntityIDs  []string `json:"entity_ids"`
	Edges      []Edge   `json:"edges,omitempty"`
	Confidence float64  `json:"confidence"`
	HopCount   int      `json:"hop_count"`
}

// IsEmpty reports whether the path carries no route at all, the valid
// "no path within max hops" outcome.
func (p Path) IsEmpty() bool {
	return len(p.EntityIDs) == 0
}

// Explanation is a deterministic, template-built justification for a search
// result or path. Identical input always yields byte-identical output.
type Explanation struct {
	Summary        string   `json:"summary"`
	DetailedText   string   `json:"detailed_text"`
	Confidence     float64  `json:"confidence"`
	ReasoningSteps []string `json:"reasoning_steps"`
	Caveats        []string `json:"caveats,omitempty"`
	Examples       []string `json:"examples,omitempty"`
	NextSteps      []string `json:"next_steps,omitempty"`
}

// QueryStats is accumulated per orchestrator invocation and reset per call.
type QueryStats struct {
	QueryID        string `json:"query_id"`
	Sequence       uint64 `json:"sequence"`
	ElapsedMicros  int64  `json:"elapsed_us"`
	CandidateCount int    `json:"candidate_count"`
	CacheHit       bool   `json:"cache_hit"`
	BudgetExceeded bool   `json:"budget_exceeded,omitempty"`
}
