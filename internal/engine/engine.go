// Package engine orchestrates query serving: it classifies a request by
// its caller-declared type, dispatches to search or traversal, optionally
// attaches explanations, and assembles the response envelope with per-call
// stats. The engine is a pure read path over the current snapshot; the
// only cross-query state is a monotonic counter and the bounded result
// cache keyed per snapshot.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/blockgraph-io/blockgraph/internal/embedding"
	"github.com/blockgraph-io/blockgraph/internal/explain"
	"github.com/blockgraph-io/blockgraph/internal/format"
	"github.com/blockgraph-io/blockgraph/internal/metrics"
	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/search"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
	"github.com/blockgraph-io/blockgraph/internal/traverse"
)

// Engine is the query orchestrator. Safe for concurrent use.
type Engine struct {
	store     *snapshot.Store
	embedder  embedding.Embedder
	validator Validator
	logger    *slog.Logger
	collector *metrics.Collector
	budget    time.Duration
	cache     *resultCache
	counter   atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmbedder wires the external embedding function used for SEARCH
// queries that arrive with text but no vector.
func WithEmbedder(e embedding.Embedder) Option {
	return func(eng *Engine) { eng.embedder = e }
}

// WithValidator wires the external validator consulted for VALIDATE queries.
func WithValidator(v Validator) Option {
	return func(eng *Engine) { eng.validator = v }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(eng *Engine) { eng.logger = l }
}

// WithCollector sets the per-operation timing collector.
func WithCollector(c *metrics.Collector) Option {
	return func(eng *Engine) { eng.collector = c }
}

// WithLatencyBudget sets the soft latency budget. Calls exceeding it are
// flagged in their stats and logged, never aborted.
func WithLatencyBudget(d time.Duration) Option {
	return func(eng *Engine) { eng.budget = d }
}

// WithCacheSize bounds the per-snapshot result cache. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(eng *Engine) { eng.cache = newResultCache(n) }
}

// New creates an engine serving queries from the given snapshot store.
func New(store *snapshot.Store, opts ...Option) *Engine {
	eng := &Engine{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.collector == nil {
		eng.collector = metrics.NewCollector()
	}
	return eng
}

// Collector exposes the timing collector for the stats surface.
func (e *Engine) Collector() *metrics.Collector { return e.collector }

// Query runs one typed request and returns the response envelope. Domain
// failures never surface as Go errors; they become error envelopes with a
// typed code so callers can pattern-match deterministically.
func (e *Engine) Query(ctx context.Context, req models.Request) models.Envelope {
	start := time.Now()
	seq := e.counter.Add(1)
	snap := e.store.Current()

	env := e.dispatch(ctx, snap, req)

	env.QueryType = req.Type
	if snap != nil {
		env.SnapshotID = snap.ID()
	}
	env.Stats.QueryID = uuid.NewString()
	env.Stats.Sequence = seq

	elapsed := time.Since(start)
	env.Stats.ElapsedMicros = elapsed.Microseconds()
	if e.budget > 0 && elapsed > e.budget {
		env.Stats.BudgetExceeded = true
		e.logger.Warn("query exceeded latency budget",
			"query_type", req.Type, "elapsed_ms", elapsed.Milliseconds(), "budget_ms", e.budget.Milliseconds())
	}

	e.collector.RecordTiming(opFor(req.Type), elapsed)
	metrics.Default().IncQueryTotal(string(req.Type), env.Status == models.StatusOK)
	metrics.Default().ObserveQuerySeconds(string(req.Type), env.Status == models.StatusOK, elapsed.Seconds())

	return env
}

// QueryFormatted runs one request and renders the envelope in the shape the
// request asks for (FULL when unset).
func (e *Engine) QueryFormatted(ctx context.Context, req models.Request) ([]byte, error) {
	env := e.Query(ctx, req)
	return format.Render(env, req.Format)
}

func (e *Engine) dispatch(ctx context.Context, snap *snapshot.Snapshot, req models.Request) models.Envelope {
	if snap == nil {
		return errorEnvelope(errors.New("no snapshot loaded"))
	}

	// VALIDATE delegates to the external collaborator and bypasses the
	// cache; its result is not a pure function of the snapshot.
	if req.Type == models.QueryValidate {
		return e.runValidate(ctx, req)
	}

	if e.cache != nil {
		if cached, ok := e.cache.get(snap.ID(), req); ok {
			cached.Stats = models.QueryStats{CacheHit: true, CandidateCount: cached.Stats.CandidateCount}
			return cached
		}
	}

	var env models.Envelope
	switch req.Type {
	case models.QuerySearch:
		env = e.runSearch(ctx, snap, req)
	case models.QueryIntegrate:
		env = e.runIntegrate(ctx, snap, req)
	case models.QuerySuggest:
		env = e.runSuggest(ctx, snap, req)
	default:
		env = errorEnvelope(wrapInvalid("unknown query type %q", string(req.Type)))
	}

	if e.cache != nil {
		e.cache.put(snap.ID(), req, env)
	}
	return env
}

func (e *Engine) runSearch(ctx context.Context, snap *snapshot.Snapshot, req models.Request) models.Envelope {
	vector := req.Vector
	if vector == nil && req.Text != "" && e.embedder != nil {
		embedStart := time.Now()
		vec, err := e.embedder.Embed(ctx, req.Text)
		e.collector.RecordTiming(metrics.OpEmbedding, time.Since(embedStart))
		if err != nil {
			// Unavailability is equivalent to an absent vector: degrade to
			// the lexical fallback instead of failing the query.
			e.logger.Warn("embedder unavailable, degrading to lexical search", "error", err)
		} else {
			vector = vec
		}
	}

	results, candidates, err := search.Run(snap, search.Params{
		Vector:   vector,
		Query:    req.Text,
		Limit:    req.Limit,
		MinScore: req.MinScore,
		Category: req.Category,
	})
	if err != nil {
		return errorEnvelope(err)
	}

	items := make([]models.ResultItem, len(results))
	for i, res := range results {
		item := models.ResultItem{SearchResult: res}
		if ent, ok := snap.Entity(res.EntityID); ok {
			item.Label = ent.Label
			item.Metadata = ent.Metadata
			if req.Explain {
				exp := explain.ForSearchResult(res, ent)
				item.Explanation = &exp
			}
		}
		items[i] = item
	}

	return models.Envelope{
		Status:  models.StatusOK,
		Results: items,
		Stats:   models.QueryStats{CandidateCount: candidates},
	}
}

func (e *Engine) runIntegrate(ctx context.Context, snap *snapshot.Snapshot, req models.Request) models.Envelope {
	if req.FromID == "" || req.ToID == "" {
		return errorEnvelope(wrapInvalid("INTEGRATE requires both from_id and to_id"))
	}

	paths, err := traverse.AllPaths(ctx, snap, req.FromID, req.ToID, req.MaxHops, req.MaxPaths)
	if err != nil {
		return errorEnvelope(err)
	}

	startEnt, _ := snap.Entity(req.FromID)
	endEnt, _ := snap.Entity(req.ToID)

	items := make([]models.PathItem, len(paths))
	for i, p := range paths {
		item := models.PathItem{Path: p}
		if req.Explain {
			exp := explain.ForPath(p, startEnt, endEnt)
			item.Explanation = &exp
		}
		items[i] = item
	}

	return models.Envelope{
		Status: models.StatusOK,
		Paths:  items,
		Stats:  models.QueryStats{CandidateCount: len(paths)},
	}
}

func (e *Engine) runSuggest(ctx context.Context, snap *snapshot.Snapshot, req models.Request) models.Envelope {
	if req.FromID == "" {
		return errorEnvelope(wrapInvalid("SUGGEST requires from_id"))
	}

	neighbors, err := traverse.WeightedNeighbors(ctx, snap, req.FromID, req.Depth, req.RelationFilter)
	if err != nil {
		return errorEnvelope(err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}

	items := make([]models.ResultItem, len(neighbors))
	for i, n := range neighbors {
		item := models.ResultItem{
			SearchResult: models.SearchResult{EntityID: n.EntityID, Score: n.Weight},
			Hops:         n.Hops,
		}
		if ent, ok := snap.Entity(n.EntityID); ok {
			item.Label = ent.Label
			item.Category = ent.Category
			item.Metadata = ent.Metadata
			if req.Explain {
				exp := explain.ForSearchResult(item.SearchResult, ent)
				item.Explanation = &exp
			}
		}
		items[i] = item
	}

	return models.Envelope{
		Status:  models.StatusOK,
		Results: items,
		Stats:   models.QueryStats{CandidateCount: len(neighbors)},
	}
}

func (e *Engine) runValidate(ctx context.Context, req models.Request) models.Envelope {
	if e.validator == nil {
		return models.Envelope{
			Status: models.StatusError,
			Error: &models.ErrorInfo{
				Code:       models.CodeInvalidQuery,
				Message:    "invalid query: no validator is configured for VALIDATE queries",
				NextAction: "Configure a validator collaborator or use a different query type",
			},
		}
	}

	result, err := e.validator.Validate(ctx, req)
	if err != nil {
		return errorEnvelope(err)
	}
	return models.Envelope{
		Status:     models.StatusOK,
		Validation: &result,
	}
}

func errorEnvelope(err error) models.Envelope {
	return models.Envelope{
		Status: models.StatusError,
		Error:  models.ErrorInfoFor(err),
	}
}

func opFor(t models.QueryType) string {
	switch t {
	case models.QuerySearch:
		return metrics.OpSearch
	case models.QueryIntegrate:
		return metrics.OpTraverse
	case models.QuerySuggest:
		return metrics.OpSuggest
	case models.QueryValidate:
		return metrics.OpValidate
	default:
		return metrics.OpSearch
	}
}
