package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

func TestForSearchResult(t *testing.T) {
	ent := &models.Entity{
		ID:       "slack",
		Label:    "Slack Post Message",
		Category: "action",
		Metadata: map[string]any{"examples": []string{"post a message to #alerts"}},
	}
	res := models.SearchResult{EntityID: "slack", Score: 0.87, Category: "action"}

	exp := ForSearchResult(res, ent)

	assert.Equal(t, "Slack Post Message matches the query with score 0.87", exp.Summary)
	assert.Equal(t, 0.87, exp.Confidence)
	assert.Contains(t, exp.ReasoningSteps, "matched query with similarity 0.87")
	assert.Contains(t, exp.ReasoningSteps, "belongs to category action")
	assert.Empty(t, exp.Caveats)
	assert.Equal(t, []string{"post a message to #alerts"}, exp.Examples)
	require.Len(t, exp.NextSteps, 2)
	assert.Contains(t, exp.NextSteps[0], "INTEGRATE")
}

func TestForSearchResultLowConfidenceCaveat(t *testing.T) {
	res := models.SearchResult{EntityID: "x", Score: 0.31}

	exp := ForSearchResult(res, nil)

	require.Len(t, exp.Caveats, 1)
	assert.Contains(t, exp.Caveats[0], "0.31 is below 0.50")
	// No entity: the id stands in for the label.
	assert.Contains(t, exp.Summary, "x matches the query")
}

func TestForSearchResultDegraded(t *testing.T) {
	res := models.SearchResult{EntityID: "x", Score: 0.5, Degraded: true}

	exp := ForSearchResult(res, nil)

	require.NotEmpty(t, exp.Caveats)
	assert.Contains(t, exp.Caveats[0], "lexical fallback")
	assert.Contains(t, exp.ReasoningSteps[0], "lexically")
}

func TestForPath(t *testing.T) {
	p := models.Path{
		EntityIDs: []string{"a", "b", "c"},
		Edges: []models.Edge{
			{SourceID: "a", TargetID: "b", RelType: models.RelationTriggers, Weight: 0.9},
			{SourceID: "b", TargetID: "c", RelType: models.RelationCompatibleWith, Weight: 0.8},
		},
		Confidence: 0.72,
		HopCount:   2,
	}
	start := &models.Entity{ID: "a", Label: "Webhook"}
	end := &models.Entity{ID: "c", Label: "Slack"}

	exp := ForPath(p, start, end)

	assert.Equal(t, "Webhook reaches Slack in 2 hops with confidence 0.72", exp.Summary)
	assert.Equal(t, 0.72, exp.Confidence)
	require.Len(t, exp.ReasoningSteps, 4)
	assert.Equal(t, "hop 1: a connects to b via TRIGGERS with weight 0.90", exp.ReasoningSteps[1])
	assert.Equal(t, "hop 2: b connects to c via COMPATIBLE_WITH with weight 0.80", exp.ReasoningSteps[2])
	assert.Contains(t, exp.ReasoningSteps[3], "product of edge weights: 0.72")
	assert.Empty(t, exp.Caveats)
}

func TestForPathCaveats(t *testing.T) {
	p := models.Path{
		EntityIDs: []string{"a", "b", "c", "d", "e"},
		Edges: []models.Edge{
			{SourceID: "a", TargetID: "b", RelType: models.RelationRequires, Weight: 0.9},
			{SourceID: "b", TargetID: "c", RelType: models.RelationRequires, Weight: 0.3},
			{SourceID: "c", TargetID: "d", RelType: models.RelationRequires, Weight: 0.9},
			{SourceID: "d", TargetID: "e", RelType: models.RelationRequires, Weight: 0.9},
		},
		Confidence: 0.2187,
		HopCount:   4,
	}

	exp := ForPath(p, nil, nil)

	require.Len(t, exp.Caveats, 2)
	assert.Contains(t, exp.Caveats[0], "hop 2 (b -> c) carries a low weight of 0.30")
	assert.Contains(t, exp.Caveats[1], "4 hops")
}

func TestForPathEmpty(t *testing.T) {
	exp := ForPath(models.Path{}, nil, nil)

	assert.Contains(t, exp.Summary, "no integration path")
	assert.Zero(t, exp.Confidence)
	require.Len(t, exp.NextSteps, 2)
	assert.Contains(t, exp.NextSteps[0], "max_hops")
}

func TestExplanationsAreDeterministic(t *testing.T) {
	res := models.SearchResult{EntityID: "x", Score: 0.42, Category: "action", Degraded: true}
	ent := &models.Entity{ID: "x", Label: "X"}

	first := ForSearchResult(res, ent)
	second := ForSearchResult(res, ent)
	assert.Equal(t, first, second)

	p := models.Path{
		EntityIDs:  []string{"a", "b"},
		Edges:      []models.Edge{{SourceID: "a", TargetID: "b", RelType: models.RelationRequires, Weight: 0.7}},
		Confidence: 0.7,
		HopCount:   1,
	}
	assert.Equal(t, ForPath(p, nil, nil), ForPath(p, nil, nil))
}
