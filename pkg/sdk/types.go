package eduhub

import "github.com/campuscrew/eduhub/internal/config"

// FacetKind selects how a facet restricts records.
type FacetKind string

// Facet kinds.
const (
	FacetText         FacetKind = "text"
	FacetSingleSelect FacetKind = "single-select"
	FacetMultiSelect  FacetKind = "multi-select"
)

// FacetSpec declares one facet of a catalog.
type FacetSpec struct {
	Field string
	Kind  FacetKind
	// TextFields are the record fields searched by a text facet. Default: Field.
	TextFields []string
	// Source is the record field read by a select facet. Default: Field.
	Source string
	// Order of derived options: "asc" (default) or "desc".
	Order string
}

// CatalogSpec declares a catalog and its facets.
type CatalogSpec struct {
	Name  string
	Title string
	// Capability required to read the catalog: browse (default), marketplace, upload or moderate.
	Capability string
	// Partition names a field whose values split results into groups (e.g. solved/unsolved).
	Partition string
	Facets    []FacetSpec
}

func (s CatalogSpec) toConfig() config.CatalogConfig {
	cc := config.CatalogConfig{
		Name:       s.Name,
		Title:      s.Title,
		Capability: s.Capability,
		Partition:  s.Partition,
		Facets:     make([]config.FacetConfig, len(s.Facets)),
	}
	if cc.Capability == "" {
		cc.Capability = "browse"
	}
	for i, f := range s.Facets {
		cc.Facets[i] = config.FacetConfig{
			Field:      f.Field,
			Kind:       string(f.Kind),
			TextFields: f.TextFields,
			Source:     f.Source,
			Order:      f.Order,
		}
	}
	return cc
}

// Catalog describes a catalog visible to the client's role.
type Catalog struct {
	Name       string
	Title      string
	Capability string
	Partition  string
	Records    int
}

// Facet describes one facet with its options. Text facets have no options.
type Facet struct {
	Field      string
	Kind       FacetKind
	TextFields []string
	Order      string
	Options    []any
}

// PartitionCount is the number of matched records carrying one partition value.
type PartitionCount struct {
	Value any
	Count int
}

// Page is one page of a filtered catalog.
type Page struct {
	// Items are record fields, including "id".
	Items []map[string]any
	// Total is the number of matched records across all pages.
	Total int
	// Options are the derivable values of every select facet, independent of the query.
	Options    map[string][]any
	Partitions []PartitionCount
	HasMore    bool
	NextCursor string
}
