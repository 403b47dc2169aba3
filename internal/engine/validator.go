package engine

import (
	"context"
	"fmt"

	"github.com/blockgraph-io/blockgraph/internal/models"
	"github.com/blockgraph-io/blockgraph/internal/snapshot"
)

// Validator is the external collaborator consulted for VALIDATE queries.
// The engine's contract with it is limited to forwarding the request and
// relaying its typed result.
type Validator interface {
	Validate(ctx context.Context, req models.Request) (models.ValidationResult, error)
}

// wrapInvalid builds an ErrInvalidQuery with context.
func wrapInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// RuleValidator is a static, rule-based reference validator: it checks that
// entity ids named in the request payload exist in the current snapshot and
// that relation types belong to the fixed vocabulary. It lets the VALIDATE
// wire path run without an external process; deployments replace it with
// their own collaborator.
type RuleValidator struct {
	store *snapshot.Store
}

// NewRuleValidator creates a validator backed by the given store.
func NewRuleValidator(store *snapshot.Store) *RuleValidator {
	return &RuleValidator{store: store}
}

var _ Validator = (*RuleValidator)(nil)

// Validate applies the static rules to the request payload.
func (v *RuleValidator) Validate(_ context.Context, req models.Request) (models.ValidationResult, error) {
	snap := v.store.Current()
	if snap == nil {
		return models.ValidationResult{}, fmt.Errorf("no snapshot loaded")
	}

	var issues []string
	checked := 0

	for _, id := range payloadStrings(req.Payload, "entity_ids") {
		checked++
		if _, ok := snap.Entity(id); !ok {
			issues = append(issues, fmt.Sprintf("unknown entity id: %s", id))
		}
	}

	for _, rt := range payloadStrings(req.Payload, "relation_types") {
		checked++
		if !models.IsKnownRelationType(models.RelationType(rt)) {
			issues = append(issues, fmt.Sprintf("unknown relation type: %s", rt))
		}
	}

	return models.ValidationResult{
		Valid:   len(issues) == 0,
		Issues:  issues,
		Checked: checked,
	}, nil
}

func payloadStrings(payload map[string]any, key string) []string {
	if payload == nil {
		return nil
	}
	switch v := payload[key].(type) {
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
