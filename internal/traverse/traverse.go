// Package traverse finds multi-hop integration paths between entities with
// confidence accumulation and cycle avoidance. All operations are bounded
// by the hop/depth cutoff and check the caller's deadline at every
// expansion step; on expiry they return models.ErrTimeout with no partial
// result, because a silently truncated path would misrepresent confidence.
package traverse

import (
	"context"
	"fmt"
	"sort"

	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
)

// Limits applied when callers pass zero values.
const (
	DefaultMaxHops  = 5
	DefaultMaxPaths = 5
	MaxHopsCeiling  = 20
	DepthCeiling    = 10
)

// partial is a path under construction: the id sequence so far, the edges
// traversed, and the accumulated confidence product.
type partial struct {
	ids   []string
	edges []int32
	conf  float64
}

// better orders partials by confidence descending, then by the
// lexicographically smaller id sequence. The second criterion makes every
// choice deterministic and independent of edge enumeration order.
func better(a, b partial) bool {
	if a.conf != b.conf {
		return a.conf > b.conf
	}
	return lessIDs(a.ids, b.ids)
}

func lessIDs(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (p partial) toPath(snap *snapshot.Snapshot) models.Path {
	edges := make([]models.Edge, len(p.edges))
	for i, idx := range p.edges {
		edges[i] = *snap.EdgeAt(int(idx))
	}
	return models.Path{
		EntityIDs:  p.ids,
		Edges:      edges,
		Confidence: p.conf,
		HopCount:   len(p.edges),
	}
}

func checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrTimeout, err)
	}
	return nil
}

// ShortestPath finds the minimal-hop path from start to end. When several
// paths reach end at the same minimal hop count, the one with the highest
// accumulated confidence wins; remaining ties break on the smallest id
// sequence. start == end yields a trivial zero-hop path with confidence
// 1.0. No path within maxHops yields an empty path, not an error.
func ShortestPath(ctx context.Context, snap *snapshot.Snapshot, start, end string, maxHops int) (models.Path, error) {
	startIdx, ok := snap.Index(start)
	if !ok {
		return models.Path{}, fmt.Errorf("%w: %s", models.ErrNotFound, start)
	}
	endIdx, ok := snap.Index(end)
	if !ok {
		return models.Path{}, fmt.Errorf("%w: %s", models.ErrNotFound, end)
	}
	if err := checkDeadline(ctx); err != nil {
		return models.Path{}, err
	}

	if startIdx == endIdx {
		return models.Path{EntityIDs: []string{start}, Confidence: 1.0}, nil
	}
	maxHops = clampHops(maxHops)

	// Layered BFS. Per layer, keep one best partial per node: confidence
	// multiplies monotonically along a path, so the best full path through a
	// node extends the best prefix reaching that node at its BFS distance.
	// All candidates reaching end within a layer are compared before one is
	// chosen, as required for the confidence tie-break at minimal hop count.
	dist := map[int]int{startIdx: 0}
	best := map[int]partial{startIdx: {ids: []string{start}, conf: 1.0}}
	frontier := []int{startIdx}

	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		layer := make(map[int]partial)
		for _, u := range frontier {
			if err := checkDeadline(ctx); err != nil {
				return models.Path{}, err
			}
			prefix := best[u]
			for _, ei := range snap.Out(u) {
				edge := snap.EdgeAt(int(ei))
				v, _ := snap.Index(edge.TargetID)
				if d, seen := dist[v]; seen && d < hop {
					continue // reached on an earlier layer; cannot be on a minimal path here
				}
				cand := extend(prefix, edge.TargetID, ei, edge.Weight)
				if cur, ok := layer[v]; !ok || better(cand, cur) {
					layer[v] = cand
				}
			}
		}

		if winner, ok := layer[endIdx]; ok {
			return winner.toPath(snap), nil
		}

		frontier = frontier[:0]
		for v, p := range layer {
			dist[v] = hop
			best[v] = p
			frontier = append(frontier, v)
		}
		sort.Ints(frontier)
	}

	return models.Path{}, nil
}

func extend(p partial, targetID string, edgeIdx int32, weight float64) partial {
	ids := make([]string, len(p.ids)+1)
	copy(ids, p.ids)
	ids[len(p.ids)] = targetID
	edges := make([]int32, len(p.edges)+1)
	copy(edges, p.edges)
	edges[len(p.edges)] = edgeIdx
	return partial{ids: ids, edges: edges, conf: p.conf * weight}
}

// AllPaths enumerates simple paths from start to end up to maxHops via
// depth-first search. The visited set is tracked per path under
// construction: no entity repeats within a single path, but different
// paths may reuse the same entity. Results are ranked by confidence
// descending with deterministic tie-breaks and truncated to maxPaths.
func AllPaths(ctx context.Context, snap *snapshot.Snapshot, start, end string, maxHops, maxPaths int) ([]models.Path, error) {
	startIdx, ok := snap.Index(start)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, start)
	}
	endIdx, ok := snap.Index(end)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, end)
	}
	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	maxHops = clampHops(maxHops)
	if maxPaths <= 0 {
		maxPaths = DefaultMaxPaths
	}

	if startIdx == endIdx {
		return []models.Path{{EntityIDs: []string{start}, Confidence: 1.0}}, nil
	}

	var found []models.Path
	visited := map[int]bool{startIdx: true}
	cur := partial{ids: []string{start}, conf: 1.0}

	var dfs func(u int) error
	dfs = func(u int) error {
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		if len(cur.edges) >= maxHops {
			return nil
		}
		for _, ei := range snap.Out(u) {
			edge := snap.EdgeAt(int(ei))
			v, _ := snap.Index(edge.TargetID)
			if visited[v] {
				continue
			}
			next := extend(cur, edge.TargetID, ei, edge.Weight)
			if v == endIdx {
				found = append(found, next.toPath(snap))
				continue
			}
			visited[v] = true
			prev := cur
			cur = next
			err := dfs(v)
			cur = prev
			visited[v] = false
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := dfs(startIdx); err != nil {
		return nil, err
	}

	// Rank by confidence, then fewer hops, then smallest id sequence. The
	// full ordering depends only on path content, so permuting the input
	// edge enumeration cannot change the top-ranked path.
	sort.Slice(found, func(a, b int) bool {
		if found[a].Confidence != found[b].Confidence {
			return found[a].Confidence > found[b].Confidence
		}
		if found[a].HopCount != found[b].HopCount {
			return found[a].HopCount < found[b].HopCount
		}
		return lessIDs(found[a].EntityIDs, found[b].EntityIDs)
	})
	if len(found) > maxPaths {
		found = found[:maxPaths]
	}
	if found == nil {
		found = []models.Path{}
	}
	return found, nil
}

// Neighbor is one entity reachable from the expansion origin.
type Neighbor struct {
	EntityID string  `json:"entity_id"`
	Hops     int     `json:"hops"`
	Weight   float64 `json:"weight"`
}

// Neighbors expands breadth-first up to depth hops, returning the neighbor
// ids grouped by hop distance. Each entity appears only at its shortest
// distance. relFilter, when non-empty, restricts which edges are followed.
func Neighbors(ctx context.Context, snap *snapshot.Snapshot, id string, depth int, relFilter []models.RelationType) (map[int][]string, error) {
	weighted, err := WeightedNeighbors(ctx, snap, id, depth, relFilter)
	if err != nil {
		return nil, err
	}
	byHop := make(map[int][]string)
	for _, n := range weighted {
		byHop[n.Hops] = append(byHop[n.Hops], n.EntityID)
	}
	for _, ids := range byHop {
		sort.Strings(ids)
	}
	return byHop, nil
}

// WeightedNeighbors is the ranked form used for suggestions: the same BFS
// expansion, with each neighbor carrying the best accumulated edge-weight
// product along any shortest route from the origin. Results are ordered by
// weight descending, then hop count, then id.
func WeightedNeighbors(ctx context.Context, snap *snapshot.Snapshot, id string, depth int, relFilter []models.RelationType) ([]Neighbor, error) {
	origin, ok := snap.Index(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}
	depth = clampDepth(depth)

	allowed := make(map[models.RelationType]bool, len(relFilter))
	for _, rt := range relFilter {
		allowed[rt] = true
	}

	type state struct {
		hops   int
		weight float64
	}
	seen := map[int]state{origin: {0, 1.0}}
	frontier := []int{origin}
	var out []Neighbor

	for hop := 1; hop <= depth && len(frontier) > 0; hop++ {
		layer := make(map[int]float64)
		for _, u := range frontier {
			if err := checkDeadline(ctx); err != nil {
				return nil, err
			}
			from := seen[u]
			for _, ei := range snap.Out(u) {
				edge := snap.EdgeAt(int(ei))
				if len(allowed) > 0 && !allowed[edge.RelType] {
					continue
				}
				v, _ := snap.Index(edge.TargetID)
				if s, ok := seen[v]; ok && s.hops < hop {
					continue
				}
				w := from.weight * edge.Weight
				if cur, ok := layer[v]; !ok || w > cur {
					layer[v] = w
				}
			}
		}

		frontier = frontier[:0]
		for v, w := range layer {
			seen[v] = state{hop, w}
			frontier = append(frontier, v)
			out = append(out, Neighbor{EntityID: snap.EntityAt(v).ID, Hops: hop, Weight: w})
		}
		sort.Ints(frontier)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Weight != out[b].Weight {
			return out[a].Weight > out[b].Weight
		}
		if out[a].Hops != out[b].Hops {
			return out[a].Hops < out[b].Hops
		}
		return out[a].EntityID < out[b].EntityID
	})
	return out, nil
}

func clampHops(maxHops int) int {
	if maxHops <= 0 {
		return DefaultMaxHops
	}
	if maxHops > MaxHopsCeiling {
		return MaxHopsCeiling
	}
	return maxHops
}

func clampDepth(depth int) int {
	if depth <= 0 {
		return 1
	}
	if depth > DepthCeiling {
		return DepthCeiling
	}
	return depth
}
