package facet

import (
	"fmt"
	"maps"

	"github.com/campuscrew/eduhub/internal/domain"
	"github.com/campuscrew/eduhub/internal/domain/record"
)

// State holds the current selections of one facet Set.
// It is a value: mutators return a new State and never touch the receiver.
// Missing entries mean default (empty text, All, no selection).
type State struct {
	set    *Set
	text   map[string]string
	single map[string]any
	multi  map[string][]any
}

// Set returns the facet set this state belongs to.
func (st State) Set() *Set { return st.set }

// SetText replaces the query of a text facet.
func (st State) SetText(field, query string) (State, error) {
	if _, err := st.checked(field, Text); err != nil {
		return st, err
	}
	next := st
	next.text = maps.Clone(st.text)
	if next.text == nil {
		next.text = make(map[string]string, 1)
	}
	if query == "" {
		delete(next.text, field)
	} else {
		next.text[field] = query
	}
	return next, nil
}

// SetSingleSelect replaces the chosen value of a single-select facet.
// Membership in the derivable options is not checked; an unknown value matches nothing.
func (st State) SetSingleSelect(field string, value any) (State, error) {
	if _, err := st.checked(field, SingleSelect); err != nil {
		return st, err
	}
	v, err := selectionValue(field, value)
	if err != nil {
		return st, err
	}
	next := st
	next.single = maps.Clone(st.single)
	if next.single == nil {
		next.single = make(map[string]any, 1)
	}
	if s, ok := v.(string); ok && s == All {
		delete(next.single, field)
	} else {
		next.single[field] = v
	}
	return next, nil
}

// ToggleMultiSelect adds value to a multi-select facet if absent, removes it if present.
func (st State) ToggleMultiSelect(field string, value any) (State, error) {
	if _, err := st.checked(field, MultiSelect); err != nil {
		return st, err
	}
	v, err := selectionValue(field, value)
	if err != nil {
		return st, err
	}

	cur := st.multi[field]
	updated := make([]any, 0, len(cur)+1)
	found := false
	for _, sel := range cur {
		if record.Equal(sel, v) {
			found = true
			continue
		}
		updated = append(updated, sel)
	}
	if !found {
		updated = append(updated, v)
	}

	next := st
	next.multi = maps.Clone(st.multi)
	if next.multi == nil {
		next.multi = make(map[string][]any, 1)
	}
	if len(updated) == 0 {
		delete(next.multi, field)
	} else {
		next.multi[field] = updated
	}
	return next, nil
}

// Text returns the query of a text facet ("" by default).
func (st State) Text(field string) string { return st.text[field] }

// Single returns the chosen value of a single-select facet (All by default).
func (st State) Single(field string) any {
	if v, ok := st.single[field]; ok {
		return v
	}
	return All
}

// Selected returns the selected values of a multi-select facet in toggle order.
func (st State) Selected(field string) []any {
	return append([]any(nil), st.multi[field]...)
}

// IsDefault reports whether no facet restricts the result.
func (st State) IsDefault() bool {
	return len(st.text) == 0 && len(st.single) == 0 && len(st.multi) == 0
}

// Active returns the number of facets currently restricting the result.
func (st State) Active() int {
	return len(st.text) + len(st.single) + len(st.multi)
}

// Equal reports whether two states select the same thing on the same facet set.
// Multi-select selections compare as sets.
func (st State) Equal(o State) bool {
	if st.set != o.set {
		return false
	}
	if !maps.Equal(st.text, o.text) {
		return false
	}
	if len(st.single) != len(o.single) || len(st.multi) != len(o.multi) {
		return false
	}
	for k, v := range st.single {
		ov, ok := o.single[k]
		if !ok || !record.Equal(v, ov) {
			return false
		}
	}
	for k, vs := range st.multi {
		if !sameSet(vs, o.multi[k]) {
			return false
		}
	}
	return true
}

func (st State) checked(field string, kind Kind) (Definition, error) {
	if st.set == nil {
		return Definition{}, fmt.Errorf("%w: state has no facet set", domain.ErrConfiguration)
	}
	return st.set.lookup(field, kind)
}

// selectionValue normalizes a selection to a primitive.
func selectionValue(field string, value any) (any, error) {
	v, err := record.Normalize(value)
	if err != nil || v == nil {
		return nil, fmt.Errorf("%w: unsupported selection %T for facet %q", domain.ErrConfiguration, value, field)
	}
	if _, isArr := v.([]any); isArr {
		return nil, fmt.Errorf("%w: selection for facet %q must be a single value", domain.ErrConfiguration, field)
	}
	return v, nil
}

func sameSet(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if record.Equal(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
