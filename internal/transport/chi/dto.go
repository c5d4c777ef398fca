package chi

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "catalog_not_found"
	codeInternal     = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CatalogSummary describes one catalog visible to the caller.
type CatalogSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Capability  string `json:"capability"`
	Partition   string `json:"partition,omitempty"`
	RecordCount int    `json:"record_count"`
}

// CatalogListResponse is the body of GET /catalogs.
type CatalogListResponse struct {
	Items []CatalogSummary `json:"items"`
	Role  string           `json:"role"`
}

// PartitionItem is the match count of one partition value.
type PartitionItem struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// RecordListResponse is the body of GET /catalogs/{catalog}/records.
type RecordListResponse struct {
	Items      []map[string]any `json:"items"`
	Total      int              `json:"total"`
	Options    map[string][]any `json:"options"`
	Partitions []PartitionItem  `json:"partitions,omitempty"`
	HasMore    bool             `json:"has_more"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// FacetItem describes one facet of a catalog.
type FacetItem struct {
	Field      string   `json:"field"`
	Kind       string   `json:"kind"`
	TextFields []string `json:"text_fields,omitempty"`
	Order      string   `json:"order,omitempty"`
	Options    []any    `json:"options,omitempty"`
}

// FacetListResponse is the body of GET /catalogs/{catalog}/facets.
type FacetListResponse struct {
	Catalog string      `json:"catalog"`
	Facets  []FacetItem `json:"facets"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
