// Package models defines the data structures served by the blockgraph engine.
package models

// RelationType tags an edge with its semantic meaning. The vocabulary is
// fixed; edges carrying unknown tags are kept but never match a typed filter.
type RelationType string

const (
	RelationHasOperation   RelationType = "HAS_OPERATION"
	RelationCompatibleWith RelationType = "COMPATIBLE_WITH"
	RelationRequires       RelationType = "REQUIRES"
	RelationTriggers       RelationType = "TRIGGERS"
	RelationSimilarTo      RelationType = "SIMILAR_TO"
)

// KnownRelationTypes lists the fixed relation vocabulary.
var KnownRelationTypes = []RelationType{
	RelationHasOperation,
	RelationCompatibleWith,
	RelationRequires,
	RelationTriggers,
	RelationSimilarTo,
}

// IsKnownRelationType reports whether t belongs to the fixed vocabulary.
func IsKnownRelationType(t RelationType) bool {
	for _, k := range KnownRelationTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Entity is one automation building block in the catalog.
type Entity struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Embedding   []float32      `json:"embedding,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Examples extracts usage examples from entity metadata, if present.
// Supports both []string and []any (the shape JSON decoding produces).
func (e *Entity) Examples() []string {
	if e.Metadata == nil {
		return nil
	}
	switch v := e.Metadata["examples"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Edge is a typed, weighted, directed relationship between two entities.
type Edge struct {
	SourceID string         `json:"source_id"`
	TargetID string         `json:"target_id"`
	RelType  RelationType   `json:"rel_type"`
	Weight   float64        `json:"weight"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Examples extracts usage examples from edge metadata, if present.
func (e *Edge) Examples() []string {
	if e.Metadata == nil {
		return nil
	}
	switch v := e.Metadata["examples"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
