// Package search ranks entities by vector similarity to a query embedding,
// with category filtering and a lexical fallback for queries that arrive
// without a usable vector.
package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
)

// Params configures one search call.
type Params struct {
	// Vector is the query embedding. When nil, the lexical fallback over
	// Query is used instead.
	Vector []float32

	// Query is the raw query text, consumed only by the lexical fallback.
	Query string

	// Limit caps the number of returned results. Values <= 0 mean DefaultLimit.
	Limit int

	// MinScore drops vector matches below this similarity.
	MinScore float64

	// Category restricts the candidate set before any comparison.
	Category string
}

// DefaultLimit applies when Params.Limit is unset.
const DefaultLimit = 10

// Run scans every candidate entity and returns results ordered by score
// descending, ties broken by ascending entity id. The returned candidate
// count is the size of the set actually compared, for query stats.
//
// A provided vector whose dimension does not match the snapshot is rejected
// with models.ErrDimensionMismatch; an absent vector degrades to the lexical
// fallback, as does a vector scan that yields nothing above MinScore.
func Run(snap *snapshot.Snapshot, p Params) ([]models.SearchResult, int, error) {
	if snap == nil || snap.Len() == 0 {
		return []models.SearchResult{}, 0, nil
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := candidateIndexes(snap, p.Category)

	if p.Vector != nil {
		if len(p.Vector) != snap.Dimension() {
			return nil, len(candidates), fmt.Errorf("%w: got %d, snapshot has %d",
				models.ErrDimensionMismatch, len(p.Vector), snap.Dimension())
		}

		results := vectorScan(snap, candidates, p.Vector, p.MinScore)
		if len(results) > 0 {
			sortResults(results)
			return truncate(results, limit), len(candidates), nil
		}
		// Zero vector matches above threshold: fall through to lexical.
	}

	results := lexicalScan(snap, candidates, p.Query)
	sortResults(results)
	return truncate(results, limit), len(candidates), nil
}

// candidateIndexes applies the category pre-filter, reducing the number of
// similarity comparisons before any vector math happens.
func candidateIndexes(snap *snapshot.Snapshot, category string) []int {
	idxs := make([]int, 0, snap.Len())
	for i := 0; i < snap.Len(); i++ {
		if category != "" && snap.EntityAt(i).Category != category {
			continue
		}
		idxs = append(idxs, i)
	}
	return idxs
}

func vectorScan(snap *snapshot.Snapshot, candidates []int, query []float32, minScore float64) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(candidates))
	for _, i := range candidates {
		ent := snap.EntityAt(i)
		if len(ent.Embedding) == 0 {
			continue
		}
		score := Cosine(query, ent.Embedding)
		if score < minScore {
			continue
		}
		results = append(results, models.SearchResult{
			EntityID: ent.ID,
			Score:    score,
			Category: ent.Category,
		})
	}
	return results
}

// Cosine computes cosine similarity between two equal-length vectors in
// float64, returning 0 for zero-norm inputs.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// sortResults orders by score descending, then ascending entity id so that
// equal scores always serialize in the same order.
func sortResults(results []models.SearchResult) {
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].EntityID < results[b].EntityID
	})
}

func truncate(results []models.SearchResult, limit int) []models.SearchResult {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}
