// Package facet filters in-memory record collections by a declarative set of facets:
// free-text search, single-select and multi-select fields.
//
// Facets are AND-combined; values within a multi-select facet are OR-combined.
// Everything here is pure and synchronous: the same records and State always
// produce the same Result.
package facet

import (
	"fmt"

	"github.com/campuscrew/eduhub/internal/domain"
	"github.com/campuscrew/eduhub/internal/domain/record"
)

// Kind is how a facet's selection is matched against a record.
type Kind string

// Facet kinds.
const (
	Text         Kind = "text"
	SingleSelect Kind = "single-select"
	MultiSelect  Kind = "multi-select"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool {
	return k == Text || k == SingleSelect || k == MultiSelect
}

// All is the single-select sentinel meaning "no restriction".
const All = "all"

// Order selects the direction of the default option comparator.
type Order string

// Option orders.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Accessor extracts a facet value from a record. ok=false means the value is missing.
type Accessor func(r record.Record) (value any, ok bool)

// FieldAccessor returns an Accessor reading a single record field.
func FieldAccessor(field string) Accessor {
	return func(r record.Record) (any, bool) {
		return r.Get(field)
	}
}

// Definition describes one filterable dimension.
// Text facets search TextFields (default: Field). Select facets read Accessor (default: Field).
// Comparator overrides the option ordering; Order flips the default one.
type Definition struct {
	Field      string
	Kind       Kind
	TextFields []string
	Accessor   Accessor
	Order      Order
	Comparator Comparator
}

func (d Definition) accessor() Accessor {
	if d.Accessor != nil {
		return d.Accessor
	}
	return FieldAccessor(d.Field)
}

// Set is an immutable, validated collection of facet definitions.
type Set struct {
	defs  []Definition
	index map[string]int
}

// NewSet validates definitions and creates a Set.
// Field names must be non-empty and unique; kinds must be valid.
func NewSet(defs ...Definition) (*Set, error) {
	s := &Set{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Field == "" {
			return nil, fmt.Errorf("%w: facet field is required", domain.ErrConfiguration)
		}
		if !d.Kind.IsValid() {
			return nil, fmt.Errorf("%w: invalid kind %q for facet %q", domain.ErrConfiguration, d.Kind, d.Field)
		}
		if _, dup := s.index[d.Field]; dup {
			return nil, fmt.Errorf("%w: duplicate facet %q", domain.ErrConfiguration, d.Field)
		}
		switch d.Order {
		case "":
			d.Order = Asc
		case Asc, Desc:
		default:
			return nil, fmt.Errorf("%w: invalid order %q for facet %q", domain.ErrConfiguration, d.Order, d.Field)
		}
		if d.Kind == Text && len(d.TextFields) == 0 && d.Accessor == nil {
			d.TextFields = []string{d.Field}
		}
		d.TextFields = append([]string(nil), d.TextFields...)
		s.index[d.Field] = len(s.defs)
		s.defs = append(s.defs, d)
	}
	return s, nil
}

// Definitions returns the facet definitions in declaration order.
func (s *Set) Definitions() []Definition {
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Definition returns the definition of a facet by field name.
func (s *Set) Definition(field string) (Definition, bool) {
	i, ok := s.index[field]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// lookup returns the named facet, checking its kind.
func (s *Set) lookup(field string, kind Kind) (Definition, error) {
	d, ok := s.Definition(field)
	if !ok {
		return Definition{}, domain.NewUnknownFacet(field)
	}
	if d.Kind != kind {
		return Definition{}, domain.NewFacetKindMismatch(field, string(kind), string(d.Kind))
	}
	return d, nil
}

// DefaultState returns the unrestricted state: empty text, All, empty selections.
func (s *Set) DefaultState() State {
	return State{set: s}
}

// Reset is DefaultState under the name view code uses for a "clear filters" action.
func (s *Set) Reset() State {
	return s.DefaultState()
}
