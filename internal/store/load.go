package store

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
)

// blockRecord is the stored shape of an entity in the graph store.
type blockRecord struct {
	ID          surrealmodels.RecordID `json:"id"`
	Label       string                 `json:"label"`
	Category    string                 `json:"category,omitempty"`
	Description string                 `json:"description,omitempty"`
	Embedding   []float32              `json:"embedding,omitempty"`
	Metadata    map[string]any         `json:"metadata,omitempty"`
}

// connectsRecord is the stored shape of a relation in the graph store.
type connectsRecord struct {
	In       surrealmodels.RecordID `json:"in"`
	Out      surrealmodels.RecordID `json:"out"`
	RelType  string                 `json:"rel_type"`
	Weight   float64                `json:"weight"`
	Metadata map[string]any         `json:"metadata,omitempty"`
}

// versionRecord carries the ETL run version, when the store records one.
type versionRecord struct {
	Version string `json:"version"`
}

// LoadSnapshot bulk-enumerates blocks and relations from the graph store
// and returns the serialized snapshot data, ready for snapshot.Build.
func (c *Client) LoadSnapshot(ctx context.Context) (*snapshot.Data, error) {
	blocks, err := surrealdb.Query[[]blockRecord](ctx, c.db,
		"SELECT id, label, category, description, embedding, metadata FROM block", nil)
	if err != nil {
		return nil, fmt.Errorf("enumerate blocks: %w", err)
	}

	relations, err := surrealdb.Query[[]connectsRecord](ctx, c.db,
		"SELECT in, out, rel_type, weight, metadata FROM connects", nil)
	if err != nil {
		return nil, fmt.Errorf("enumerate relations: %w", err)
	}

	data := &snapshot.Data{}

	if blocks != nil && len(*blocks) > 0 {
		for _, rec := range (*blocks)[0].Result {
			id, err := recordIDString(rec.ID)
			if err != nil {
				return nil, fmt.Errorf("block id: %w", err)
			}
			data.Entities = append(data.Entities, models.Entity{
				ID:          id,
				Label:       rec.Label,
				Category:    rec.Category,
				Description: rec.Description,
				Embedding:   rec.Embedding,
				Metadata:    rec.Metadata,
			})
		}
	}

	if relations != nil && len(*relations) > 0 {
		for _, rec := range (*relations)[0].Result {
			src, err := recordIDString(rec.In)
			if err != nil {
				return nil, fmt.Errorf("relation source id: %w", err)
			}
			dst, err := recordIDString(rec.Out)
			if err != nil {
				return nil, fmt.Errorf("relation target id: %w", err)
			}
			data.Edges = append(data.Edges, models.Edge{
				SourceID: src,
				TargetID: dst,
				RelType:  models.RelationType(rec.RelType),
				Weight:   rec.Weight,
				Metadata: rec.Metadata,
			})
		}
	}

	versions, err := surrealdb.Query[[]versionRecord](ctx, c.db,
		"SELECT version FROM snapshot_meta ORDER BY version DESC LIMIT 1", nil)
	if err == nil && versions != nil && len(*versions) > 0 && len((*versions)[0].Result) > 0 {
		data.Version = (*versions)[0].Result[0].Version
	}

	return data, nil
}

// recordIDString safely extracts the string ID from a SurrealDB RecordID.
func recordIDString(id surrealmodels.RecordID) (string, error) {
	s, ok := id.ID.(string)
	if !ok {
		return "", fmt.Errorf("unexpected ID type: %T (expected string)", id.ID)
	}
	return s, nil
}
