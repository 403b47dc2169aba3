package models

// QueryType classifies a request. It is always declared explicitly by the
// caller; the engine never infers intent from query text.
type QueryType string

const (
	QuerySearch    QueryType = "SEARCH"
	QueryIntegrate QueryType = "INTEGRATE"
	QuerySuggest   QueryType = "SUGGEST"
	QueryValidate  QueryType = "VALIDATE"
)

// FormatType selects the output shape of a response envelope.
type FormatType string

const (
	FormatFull          FormatType = "FULL"
	FormatCompact       FormatType = "COMPACT"
	FormatHumanReadable FormatType = "HUMAN_READABLE"
)

// Status is carried by every response envelope.
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Request is one typed query against the engine. The caller's deadline
// travels on the context, not in the request body.
type Request struct {
	Type QueryType `json:"type"`

	// SEARCH inputs. Vector takes precedence when present; Text feeds the
	// embedding function and the lexical fallback.
	Text     string    `json:"text,omitempty"`
	Vector   []float32 `json:"vector,omitempty"`
	Limit    int       `json:"limit,omitempty"`
	MinScore float64   `json:"min_score,omitempty"`
	Category string    `json:"category,omitempty"`

	// INTEGRATE / SUGGEST inputs.
	FromID         string         `json:"from_id,omitempty"`
	ToID           string         `json:"to_id,omitempty"`
	MaxHops        int            `json:"max_hops,omitempty"`
	MaxPaths       int            `json:"max_paths,omitempty"`
	Depth          int            `json:"depth,omitempty"`
	RelationFilter []RelationType `json:"relation_filter,omitempty"`

	// Explain requests per-result explanation generation.
	Explain bool `json:"explain,omitempty"`

	// Format selects the response shape; defaults to FULL.
	Format FormatType `json:"format,omitempty"`

	// Payload is forwarded opaquely to the external validator for
	// VALIDATE queries.
	Payload map[string]any `json:"payload,omitempty"`
}

// ResultItem is a search result or suggestion enriched for the envelope.
type ResultItem struct {
	SearchResult
	Label       string         `json:"label,omitempty"`
	Hops        int            `json:"hops,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Explanation *Explanation   `json:"explanation,omitempty"`
}

// PathItem is a discovered path plus its optional explanation.
type PathItem struct {
	Path
	Explanation *Explanation `json:"explanation,omitempty"`
}

// ValidationResult is relayed verbatim from the external validator.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Issues  []string `json:"issues,omitempty"`
	Checked int      `json:"checked"`
}

// Envelope is the single response shape for every query type. Exactly one
// of the payload sections is populated depending on the query type; Error
// is set when Status is ERROR.
type Envelope struct {
	Status     Status            `json:"status"`
	QueryType  QueryType         `json:"query_type"`
	SnapshotID string            `json:"snapshot_id,omitempty"`
	Results    []ResultItem      `json:"results,omitempty"`
	Paths      []PathItem        `json:"paths,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty"`
	Error      *ErrorInfo        `json:"error,omitempty"`
	Stats      QueryStats        `json:"stats"`
}
