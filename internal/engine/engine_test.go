package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
)

func testStore(t *testing.T) *snapshot.Store {
	t.Helper()
	snap, err := snapshot.Build(&snapshot.Data{
		Entities: []models.Entity{
			{ID: "webhook", Label: "Webhook Trigger", Category: "trigger", Embedding: []float32{1, 0, 0}},
			{ID: "http", Label: "HTTP Request", Category: "action", Embedding: []float32{0.9, 0.1, 0}},
			{ID: "slack", Label: "Slack Post Message", Category: "action", Embedding: []float32{0, 1, 0}},
		},
		Edges: []models.Edge{
			{SourceID: "webhook", TargetID: "http", RelType: models.RelationTriggers, Weight: 0.9},
			{SourceID: "http", TargetID: "slack", RelType: models.RelationCompatibleWith, Weight: 0.8},
		},
	}, nil)
	require.NoError(t, err)
	return snapshot.NewStore(snap)
}

// normalize zeroes the per-call stats fields so envelopes from separate
// calls can be compared for payload equality.
func normalize(env models.Envelope) models.Envelope {
	env.Stats.QueryID = ""
	env.Stats.Sequence = 0
	env.Stats.ElapsedMicros = 0
	env.Stats.BudgetExceeded = false
	return env
}

func TestQuerySearch(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{
		Type:    models.QuerySearch,
		Vector:  []float32{1, 0, 0},
		Explain: true,
	})

	assert.Equal(t, models.StatusOK, env.Status)
	assert.Equal(t, models.QuerySearch, env.QueryType)
	assert.NotEmpty(t, env.SnapshotID)
	require.NotEmpty(t, env.Results)
	assert.Equal(t, "webhook", env.Results[0].EntityID)
	assert.Equal(t, "Webhook Trigger", env.Results[0].Label)
	require.NotNil(t, env.Results[0].Explanation)
	assert.Equal(t, 3, env.Stats.CandidateCount)
	assert.NotEmpty(t, env.Stats.QueryID)
}

func TestQueryIsDeterministic(t *testing.T) {
	eng := New(testStore(t))
	req := models.Request{
		Type:    models.QuerySearch,
		Vector:  []float32{0.5, 0.5, 0},
		Explain: true,
	}

	first := eng.Query(context.Background(), req)
	second := eng.Query(context.Background(), req)

	assert.NotEqual(t, first.Stats.QueryID, second.Stats.QueryID)
	assert.Equal(t, normalize(first), normalize(second))
}

func TestQuerySequenceIsMonotonic(t *testing.T) {
	eng := New(testStore(t))
	req := models.Request{Type: models.QuerySearch, Text: "slack"}

	a := eng.Query(context.Background(), req)
	b := eng.Query(context.Background(), req)
	assert.Greater(t, b.Stats.Sequence, a.Stats.Sequence)
}

func TestQueryIntegrate(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{
		Type:    models.QueryIntegrate,
		FromID:  "webhook",
		ToID:    "slack",
		Explain: true,
	})

	require.Equal(t, models.StatusOK, env.Status)
	require.Len(t, env.Paths, 1)
	assert.Equal(t, []string{"webhook", "http", "slack"}, env.Paths[0].EntityIDs)
	assert.InDelta(t, 0.72, env.Paths[0].Confidence, 1e-9)
	require.NotNil(t, env.Paths[0].Explanation)
	assert.Contains(t, env.Paths[0].Explanation.Summary, "confidence 0.72")
}

func TestQueryIntegrateMissingEndpoints(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{
		Type:   models.QueryIntegrate,
		FromID: "webhook",
	})

	require.Equal(t, models.StatusError, env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.CodeInvalidQuery, env.Error.Code)
	assert.Contains(t, env.Error.Message, "from_id and to_id")
}

func TestQueryIntegrateUnknownEntity(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{
		Type:   models.QueryIntegrate,
		FromID: "webhook",
		ToID:   "ghost",
	})

	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeNotFound, env.Error.Code)
}

func TestQueryIntegrateExpiredDeadline(t *testing.T) {
	eng := New(testStore(t))

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	env := eng.Query(ctx, models.Request{
		Type:   models.QueryIntegrate,
		FromID: "webhook",
		ToID:   "slack",
	})

	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeTimeout, env.Error.Code)
	assert.Empty(t, env.Paths)
}

func TestQuerySuggest(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{
		Type:   models.QuerySuggest,
		FromID: "webhook",
		Depth:  2,
	})

	require.Equal(t, models.StatusOK, env.Status)
	require.Len(t, env.Results, 2)
	assert.Equal(t, "http", env.Results[0].EntityID)
	assert.InDelta(t, 0.9, env.Results[0].Score, 1e-9)
	assert.Equal(t, 1, env.Results[0].Hops)
	assert.Equal(t, "slack", env.Results[1].EntityID)
	assert.Equal(t, 2, env.Results[1].Hops)
}

func TestQuerySuggestRequiresFromID(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{Type: models.QuerySuggest})
	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeInvalidQuery, env.Error.Code)
}

func TestQueryDimensionMismatch(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{
		Type:   models.QuerySearch,
		Vector: []float32{1, 0},
	})

	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeDimensionMismatch, env.Error.Code)
	assert.Contains(t, env.Error.NextAction, "lexical fallback")
}

func TestQueryUnknownType(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{Type: "EXPLODE"})
	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeInvalidQuery, env.Error.Code)
}

func TestQueryNoSnapshot(t *testing.T) {
	eng := New(snapshot.NewStore(nil))

	env := eng.Query(context.Background(), models.Request{Type: models.QuerySearch, Text: "x"})
	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeInternal, env.Error.Code)
}

type stubValidator struct {
	result models.ValidationResult
	err    error
	gotReq models.Request
}

func (s *stubValidator) Validate(_ context.Context, req models.Request) (models.ValidationResult, error) {
	s.gotReq = req
	return s.result, s.err
}

func TestQueryValidateForwardsToCollaborator(t *testing.T) {
	stub := &stubValidator{
		result: models.ValidationResult{Valid: false, Issues: []string{"missing credential"}, Checked: 3},
	}
	eng := New(testStore(t), WithValidator(stub))

	payload := map[string]any{"workflow": "wf-1"}
	env := eng.Query(context.Background(), models.Request{
		Type:    models.QueryValidate,
		Payload: payload,
	})

	require.Equal(t, models.StatusOK, env.Status)
	require.NotNil(t, env.Validation)
	assert.False(t, env.Validation.Valid)
	assert.Equal(t, []string{"missing credential"}, env.Validation.Issues)
	assert.Equal(t, 3, env.Validation.Checked)
	assert.Equal(t, payload, stub.gotReq.Payload)
}

func TestQueryValidateCollaboratorError(t *testing.T) {
	stub := &stubValidator{err: errors.New("validator down")}
	eng := New(testStore(t), WithValidator(stub))

	env := eng.Query(context.Background(), models.Request{Type: models.QueryValidate})
	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeInternal, env.Error.Code)
}

func TestQueryValidateWithoutValidator(t *testing.T) {
	eng := New(testStore(t))

	env := eng.Query(context.Background(), models.Request{Type: models.QueryValidate})
	require.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.CodeInvalidQuery, env.Error.Code)
	assert.Contains(t, env.Error.Message, "no validator")
}

func TestRuleValidator(t *testing.T) {
	store := testStore(t)
	v := NewRuleValidator(store)

	result, err := v.Validate(context.Background(), models.Request{
		Payload: map[string]any{
			"entity_ids":     []any{"webhook", "ghost"},
			"relation_types": []any{"TRIGGERS", "FRIENDS_WITH"},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, 4, result.Checked)
	assert.Contains(t, result.Issues, "unknown entity id: ghost")
	assert.Contains(t, result.Issues, "unknown relation type: FRIENDS_WITH")

	result, err = v.Validate(context.Background(), models.Request{
		Payload: map[string]any{"entity_ids": []string{"webhook"}},
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Checked)
}

func TestQueryCacheHit(t *testing.T) {
	eng := New(testStore(t), WithCacheSize(8))
	req := models.Request{Type: models.QuerySearch, Vector: []float32{1, 0, 0}}

	first := eng.Query(context.Background(), req)
	require.False(t, first.Stats.CacheHit)

	second := eng.Query(context.Background(), req)
	assert.True(t, second.Stats.CacheHit)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.Stats.CandidateCount, second.Stats.CandidateCount)
}

func TestQueryCacheInvalidatedOnSwap(t *testing.T) {
	store := testStore(t)
	eng := New(store, WithCacheSize(8))
	req := models.Request{Type: models.QuerySearch, Vector: []float32{1, 0, 0}}

	eng.Query(context.Background(), req)

	fresh, err := snapshot.Build(&snapshot.Data{
		Entities: []models.Entity{{ID: "webhook", Label: "Webhook Trigger", Embedding: []float32{1, 0, 0}}},
	}, nil)
	require.NoError(t, err)
	store.Swap(fresh)

	env := eng.Query(context.Background(), req)
	assert.False(t, env.Stats.CacheHit)
	assert.Equal(t, fresh.ID(), env.SnapshotID)
	assert.Len(t, env.Results, 1)
}

func TestQueryCacheSkipsValidate(t *testing.T) {
	calls := 0
	stub := &countingValidator{calls: &calls}
	eng := New(testStore(t), WithValidator(stub), WithCacheSize(8))
	req := models.Request{Type: models.QueryValidate, Payload: map[string]any{"entity_ids": []string{"webhook"}}}

	eng.Query(context.Background(), req)
	eng.Query(context.Background(), req)
	assert.Equal(t, 2, calls)
}

type countingValidator struct {
	calls *int
}

func (c *countingValidator) Validate(_ context.Context, _ models.Request) (models.ValidationResult, error) {
	*c.calls++
	return models.ValidationResult{Valid: true}, nil
}

func TestQueryLatencyBudgetFlag(t *testing.T) {
	eng := New(testStore(t), WithLatencyBudget(time.Nanosecond))

	env := eng.Query(context.Background(), models.Request{Type: models.QuerySearch, Text: "slack"})
	assert.True(t, env.Stats.BudgetExceeded)
	assert.Equal(t, models.StatusOK, env.Status)
}

func TestQueryFormatted(t *testing.T) {
	eng := New(testStore(t))

	out, err := eng.QueryFormatted(context.Background(), models.Request{
		Type:   models.QuerySearch,
		Vector: []float32{0, 1, 0},
		Format: models.FormatCompact,
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":"slack"`)

	_, err = eng.QueryFormatted(context.Background(), models.Request{
		Type:   models.QuerySearch,
		Text:   "slack",
		Format: "BOGUS",
	})
	assert.ErrorIs(t, err, models.ErrInvalidQuery)
}

func TestCollectorRecordsOperations(t *testing.T) {
	eng := New(testStore(t))

	eng.Query(context.Background(), models.Request{Type: models.QuerySearch, Text: "slack"})
	eng.Query(context.Background(), models.Request{Type: models.QuerySuggest, FromID: "webhook"})

	snap := eng.Collector().Snapshot()
	require.NotNil(t, snap.Search)
	assert.Equal(t, int64(1), snap.Search.Count)
	require.NotNil(t, snap.Suggest)
	assert.Equal(t, int64(1), snap.Suggest.Count)
	assert.Nil(t, snap.Traverse)
}
