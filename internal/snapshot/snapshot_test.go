package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

func testData() *Data {
	return &Data{
		Version: "2026-08-01",
		Entities: []models.Entity{
			{ID: "a", Label: "Webhook Trigger", Category: "trigger", Embedding: []float32{1, 0, 0}},
			{ID: "b", Label: "HTTP Request", Category: "action", Embedding: []float32{0, 1, 0}},
			{ID: "c", Label: "Slack Post", Category: "action", Embedding: []float32{0, 0, 1}},
		},
		Edges: []models.Edge{
			{SourceID: "a", TargetID: "b", RelType: models.RelationTriggers, Weight: 0.9},
			{SourceID: "b", TargetID: "c", RelType: models.RelationCompatibleWith, Weight: 0.8},
		},
	}
}

func TestBuild(t *testing.T) {
	snap, err := Build(testData(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, 2, snap.EdgeCount())
	assert.Equal(t, 3, snap.Dimension())
	assert.Equal(t, "2026-08-01", snap.Version())
	assert.NotEmpty(t, snap.ID())

	ent, ok := snap.Entity("b")
	require.True(t, ok)
	assert.Equal(t, "HTTP Request", ent.Label)

	_, ok = snap.Entity("zz")
	assert.False(t, ok)
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	data := testData()
	data.Entities = append(data.Entities, models.Entity{ID: "a", Label: "dup"})

	_, err := Build(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate entity id")
}

func TestBuildRejectsMixedDimensions(t *testing.T) {
	data := testData()
	data.Entities = append(data.Entities, models.Entity{ID: "d", Embedding: []float32{1, 2}})

	_, err := Build(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestBuildClampsWeights(t *testing.T) {
	data := testData()
	data.Edges = append(data.Edges,
		models.Edge{SourceID: "a", TargetID: "c", RelType: models.RelationRequires, Weight: 1.7},
		models.Edge{SourceID: "c", TargetID: "a", RelType: models.RelationRequires, Weight: -0.2},
	)

	snap, err := Build(data, nil)
	require.NoError(t, err)
	require.Equal(t, 4, snap.EdgeCount())

	for i := 0; i < snap.EdgeCount(); i++ {
		w := snap.EdgeAt(i).Weight
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
	}
}

func TestBuildDropsDanglingEdges(t *testing.T) {
	data := testData()
	data.Edges = append(data.Edges,
		models.Edge{SourceID: "a", TargetID: "ghost", RelType: models.RelationRequires, Weight: 0.5},
		models.Edge{SourceID: "ghost", TargetID: "a", RelType: models.RelationRequires, Weight: 0.5},
	)

	snap, err := Build(data, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.EdgeCount())
}

func TestAdjacencyOrderIndependentOfInput(t *testing.T) {
	data := testData()
	data.Edges = append(data.Edges,
		models.Edge{SourceID: "a", TargetID: "c", RelType: models.RelationRequires, Weight: 0.5},
	)

	reversed := testData()
	reversed.Edges = []models.Edge{
		{SourceID: "a", TargetID: "c", RelType: models.RelationRequires, Weight: 0.5},
		{SourceID: "b", TargetID: "c", RelType: models.RelationCompatibleWith, Weight: 0.8},
		{SourceID: "a", TargetID: "b", RelType: models.RelationTriggers, Weight: 0.9},
	}

	s1, err := Build(data, nil)
	require.NoError(t, err)
	s2, err := Build(reversed, nil)
	require.NoError(t, err)

	idx1, _ := s1.Index("a")
	idx2, _ := s2.Index("a")

	targets1 := make([]string, 0)
	for _, ei := range s1.Out(idx1) {
		targets1 = append(targets1, s1.EdgeAt(int(ei)).TargetID)
	}
	targets2 := make([]string, 0)
	for _, ei := range s2.Out(idx2) {
		targets2 = append(targets2, s2.EdgeAt(int(ei)).TargetID)
	}
	assert.Equal(t, targets1, targets2)
}

func TestStoreSwapIsAtomic(t *testing.T) {
	first, err := Build(testData(), nil)
	require.NoError(t, err)

	store := NewStore(first)
	assert.Same(t, first, store.Current())

	// A query holding the old reference keeps it across a swap.
	held := store.Current()

	second, err := Build(&Data{
		Entities: []models.Entity{{ID: "only", Label: "Only"}},
	}, nil)
	require.NoError(t, err)

	old := store.Swap(second)
	assert.Same(t, first, old)
	assert.Same(t, second, store.Current())
	assert.Equal(t, 3, held.Len())
}

func TestEmptyStore(t *testing.T) {
	store := NewStore(nil)
	assert.Nil(t, store.Current())
}
