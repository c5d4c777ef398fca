package facet

import (
	"fmt"
	"strings"

	"github.com/campuscrew/eduhub/internal/domain"
	"github.com/campuscrew/eduhub/internal/domain/record"
)

// Result is the outcome of Filter.
type Result struct {
	// Records matching every active facet, in input order.
	Records []record.Record
	// Options holds the distinct values of each select facet over the full collection.
	Options map[string][]any
}

// predicate reports whether a record satisfies one active facet.
type predicate func(r record.Record) bool

// Filter returns the records satisfying every active facet of st, plus option lists.
// A zero State is treated as the default state of s.
func (s *Set) Filter(records []record.Record, st State) (Result, error) {
	preds, err := s.predicates(st)
	if err != nil {
		return Result{}, err
	}

	matched := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchesAll(r, preds) {
			matched = append(matched, r)
		}
	}

	return Result{Records: matched, Options: s.Options(records)}, nil
}

// Options derives the option list of every select facet from the full collection.
func (s *Set) Options(records []record.Record) map[string][]any {
	out := make(map[string][]any)
	for _, d := range s.defs {
		if d.Kind == Text {
			continue
		}
		out[d.Field] = DeriveOptions(records, d, d.Comparator)
	}
	return out
}

func matchesAll(r record.Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// predicates compiles the active facets of st. Inactive facets produce no predicate.
func (s *Set) predicates(st State) ([]predicate, error) {
	if st.set != nil && st.set != s {
		return nil, fmt.Errorf("%w: state belongs to another facet set", domain.ErrConfiguration)
	}

	preds := make([]predicate, 0, len(s.defs))
	for _, d := range s.defs {
		switch d.Kind {
		case Text:
			if q := st.text[d.Field]; q != "" {
				preds = append(preds, textPredicate(d, strings.ToLower(q)))
			}
		case SingleSelect:
			if v, ok := st.single[d.Field]; ok {
				preds = append(preds, singlePredicate(d.accessor(), v))
			}
		case MultiSelect:
			if sel := st.multi[d.Field]; len(sel) > 0 {
				preds = append(preds, multiPredicate(d.accessor(), sel))
			}
		}
	}

	for field := range st.text {
		if _, ok := s.index[field]; !ok {
			return nil, domain.NewUnknownFacet(field)
		}
	}
	for field := range st.single {
		if _, ok := s.index[field]; !ok {
			return nil, domain.NewUnknownFacet(field)
		}
	}
	for field := range st.multi {
		if _, ok := s.index[field]; !ok {
			return nil, domain.NewUnknownFacet(field)
		}
	}
	return preds, nil
}

// textPredicate matches when any designated field contains the lowercased query.
// Missing fields read as "".
func textPredicate(d Definition, query string) predicate {
	return func(r record.Record) bool {
		for _, v := range textValues(d, r) {
			if containsFold(v, query) {
				return true
			}
		}
		return false
	}
}

func textValues(d Definition, r record.Record) []any {
	if len(d.TextFields) == 0 {
		v, _ := read(d.accessor(), r)
		return []any{v}
	}
	out := make([]any, 0, len(d.TextFields))
	for _, f := range d.TextFields {
		v, _ := r.Get(f)
		out = append(out, v)
	}
	return out
}

func containsFold(v any, lowerQuery string) bool {
	if arr, ok := v.([]any); ok {
		for _, item := range arr {
			if containsFold(item, lowerQuery) {
				return true
			}
		}
		return false
	}
	return strings.Contains(strings.ToLower(record.Format(v)), lowerQuery)
}

func singlePredicate(acc Accessor, want any) predicate {
	key := valueKey(want)
	return func(r record.Record) bool {
		v, ok := read(acc, r)
		if !ok {
			return false
		}
		return anyValue(v, func(item any) bool { return valueKey(item) == key })
	}
}

func multiPredicate(acc Accessor, selected []any) predicate {
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[valueKey(s)] = struct{}{}
	}
	return func(r record.Record) bool {
		v, ok := read(acc, r)
		if !ok {
			return false
		}
		return anyValue(v, func(item any) bool {
			_, hit := set[valueKey(item)]
			return hit
		})
	}
}

// anyValue applies fn to v, or to each element when v is an array.
func anyValue(v any, fn func(any) bool) bool {
	if arr, ok := v.([]any); ok {
		for _, item := range arr {
			if fn(item) {
				return true
			}
		}
		return false
	}
	return fn(v)
}

// valueKey is a type-tagged lookup key, so 3 and "3" stay distinct.
func valueKey(v any) string {
	if record.IsNumber(v) {
		return "n:" + record.Format(v)
	}
	switch v.(type) {
	case bool:
		return "b:" + record.Format(v)
	case string:
		return "s:" + record.Format(v)
	}
	return "?:" + record.Format(v)
}

// read applies acc and normalizes its output; unsupported values read as missing.
func read(acc Accessor, r record.Record) (any, bool) {
	v, ok := acc(r)
	if !ok {
		return nil, false
	}
	nv, err := record.Normalize(v)
	if err != nil || nv == nil {
		return nil, false
	}
	return nv, true
}
