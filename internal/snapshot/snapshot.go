// Package snapshot provides the immutable, point-in-time graph bundle the
// engine serves queries from. Entities and edges live in contiguous arenas
// with an adjacency index built once at load; query serving never mutates
// a snapshot.
package snapshot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

// Data is the language-neutral serialized form produced by the external
// ETL pipeline.
type Data struct {
	Version  string          `json:"version,omitempty"`
	Entities []models.Entity `json:"entities"`
	Edges    []models.Edge   `json:"edges"`
}

// Snapshot is the built, immutable bundle. All exported accessors are safe
// for concurrent use without locking.
type Snapshot struct {
	id       string
	version  string
	entities []models.Entity
	edges    []models.Edge
	byID     map[string]int
	out      [][]int32 // entity index -> indexes into edges, sorted for determinism
	dim      int
}

// Build validates the serialized data and constructs the arena-and-index
// bundle. Malformed edges are repaired or dropped with a log line rather
// than failing the whole load: out-of-range weights are clamped to [0,1],
// edges referencing unknown entities are discarded. Duplicate entity ids
// and inconsistent embedding dimensions violate snapshot invariants and
// fail the build.
func Build(data *Data, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Snapshot{
		id:       uuid.NewString(),
		version:  data.Version,
		entities: data.Entities,
		byID:     make(map[string]int, len(data.Entities)),
	}

	for i, e := range data.Entities {
		if e.ID == "" {
			return nil, fmt.Errorf("entity at index %d has empty id", i)
		}
		if _, dup := s.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", e.ID)
		}
		s.byID[e.ID] = i

		if len(e.Embedding) > 0 {
			if s.dim == 0 {
				s.dim = len(e.Embedding)
			} else if len(e.Embedding) != s.dim {
				return nil, fmt.Errorf("entity %q embedding dimension %d differs from snapshot dimension %d",
					e.ID, len(e.Embedding), s.dim)
			}
		}
	}

	s.edges = make([]models.Edge, 0, len(data.Edges))
	s.out = make([][]int32, len(data.Entities))
	for _, edge := range data.Edges {
		src, ok := s.byID[edge.SourceID]
		if !ok {
			logger.Warn("dropping edge with unknown source", "source", edge.SourceID, "target", edge.TargetID)
			continue
		}
		if _, ok := s.byID[edge.TargetID]; !ok {
			logger.Warn("dropping edge with unknown target", "source", edge.SourceID, "target", edge.TargetID)
			continue
		}
		if edge.Weight < 0 || edge.Weight > 1 {
			logger.Warn("clamping out-of-range edge weight",
				"source", edge.SourceID, "target", edge.TargetID, "weight", edge.Weight)
			if edge.Weight < 0 {
				edge.Weight = 0
			} else {
				edge.Weight = 1
			}
		}
		s.out[src] = append(s.out[src], int32(len(s.edges)))
		s.edges = append(s.edges, edge)
	}

	// Sort each adjacency list so traversal order never depends on how the
	// ETL step enumerated edges.
	for _, adj := range s.out {
		sort.Slice(adj, func(a, b int) bool {
			ea, eb := s.edges[adj[a]], s.edges[adj[b]]
			if ea.TargetID != eb.TargetID {
				return ea.TargetID < eb.TargetID
			}
			return ea.RelType < eb.RelType
		})
	}

	return s, nil
}

// ID is the unique identifier assigned to this build of the snapshot.
// Cache entries are scoped to it.
func (s *Snapshot) ID() string { return s.id }

// Version is the ETL-supplied version string, if any.
func (s *Snapshot) Version() string { return s.version }

// Dimension is the uniform embedding dimension, 0 if no entity carries one.
func (s *Snapshot) Dimension() int { return s.dim }

// Len returns the number of entities.
func (s *Snapshot) Len() int { return len(s.entities) }

// EdgeCount returns the number of retained edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Entity looks up an entity by id in O(1).
func (s *Snapshot) Entity(id string) (*models.Entity, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.entities[i], true
}

// Index returns the arena index for an entity id.
func (s *Snapshot) Index(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// EntityAt returns the entity at an arena index. Callers must not mutate it.
func (s *Snapshot) EntityAt(i int) *models.Entity { return &s.entities[i] }

// EdgeAt returns the edge at an arena index. Callers must not mutate it.
func (s *Snapshot) EdgeAt(i int) *models.Edge { return &s.edges[i] }

// Out returns the outgoing edge indexes for the entity at arena index i,
// in deterministic order. Callers must not mutate the slice.
func (s *Snapshot) Out(i int) []int32 { return s.out[i] }
