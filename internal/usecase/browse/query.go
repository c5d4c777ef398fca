package browse

import (
	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/record"
)

// Query is a browse request as it arrives from the UI: raw string selections per facet.
type Query struct {
	// Text maps text facets to their search string.
	Text map[string]string
	// Selections maps select facets to raw values. Single-select facets use the first value.
	Selections map[string][]string
	// Partition restricts the page to one partition value (e.g. solved papers).
	Partition string
	Cursor    string
	Limit     int
}

// PartitionCount is the number of matched records carrying one partition value.
type PartitionCount struct {
	Value any
	Count int
}

// Page is one page of a filtered catalog.
type Page struct {
	Items      []record.Record
	Total      int
	Options    map[string][]any
	Partitions []PartitionCount
	HasMore    bool
	NextCursor string
}

// FacetOptions describes one facet and, for select facets, its options.
type FacetOptions struct {
	Definition facet.Definition
	Options    []any
}

// resolveValue maps a raw query value onto the option with the same canonical form.
// Unknown values stay strings: they match nothing, which is not an error.
func resolveValue(raw string, options []any) any {
	for _, o := range options {
		if record.Format(o) == raw {
			return o
		}
	}
	return raw
}
