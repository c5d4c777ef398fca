package catalog

import (
	"fmt"
	"regexp"

	"github.com/campuscrew/eduhub/internal/domain/facet"
	"github.com/campuscrew/eduhub/internal/domain/record"
	"github.com/campuscrew/eduhub/internal/domain/role"
)

var nameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Catalog is a named, read-only record collection with its facet configuration.
type Catalog struct {
	name       string
	title      string
	capability role.Capability
	partition  string
	facets     *facet.Set
	records    []record.Record
}

// New validates and creates a Catalog.
// Name: ^[a-z0-9_-]+$, 1-64 chars. Record IDs must be unique.
// partition (optional) names a field whose values split results into groups.
func New(
	name, title string, capability role.Capability, partition string,
	facets *facet.Set, records []record.Record,
) (Catalog, error) {
	if name == "" {
		return Catalog{}, fmt.Errorf("catalog name is required")
	}
	if len(name) > 64 {
		return Catalog{}, fmt.Errorf("catalog name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return Catalog{}, fmt.Errorf("catalog name must be lowercase alphanumeric with underscores and hyphens")
	}
	if _, err := role.ParseCapability(string(capability)); err != nil {
		return Catalog{}, fmt.Errorf("catalog %q: %w", name, err)
	}
	if facets == nil {
		return Catalog{}, fmt.Errorf("catalog %q: facets are required", name)
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID()] {
			return Catalog{}, fmt.Errorf("catalog %q: duplicate record ID %q", name, r.ID())
		}
		seen[r.ID()] = true
	}

	if title == "" {
		title = name
	}
	return Catalog{
		name:       name,
		title:      title,
		capability: capability,
		partition:  partition,
		facets:     facets,
		records:    append([]record.Record(nil), records...),
	}, nil
}

// Name returns the catalog name.
func (c Catalog) Name() string { return c.name }

// Title returns the human-readable catalog title.
func (c Catalog) Title() string { return c.title }

// Capability returns the capability required to read the catalog.
func (c Catalog) Capability() role.Capability { return c.capability }

// Partition returns the partition field, or "" if results are not grouped.
func (c Catalog) Partition() string { return c.partition }

// Facets returns the facet set.
func (c Catalog) Facets() *facet.Set { return c.facets }

// Records returns the records in catalog order. Callers must not modify the slice.
func (c Catalog) Records() []record.Record { return c.records }

// Len returns the number of records.
func (c Catalog) Len() int { return len(c.records) }
