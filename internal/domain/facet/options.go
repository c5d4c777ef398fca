package facet

import (
	"cmp"
	"slices"

	"github.com/campuscrew/eduhub/internal/domain/record"
)

// Comparator orders option values: negative when a < b, zero when equal, positive when a > b.
type Comparator func(a, b any) int

// DeriveOptions collects the distinct values of a facet across records, flattening
// arrays, and sorts them with cmpFn. A nil cmpFn selects NaturalOrder, reversed for Desc.
func DeriveOptions(records []record.Record, d Definition, cmpFn Comparator) []any {
	acc := d.accessor()
	seen := make(map[string]struct{})
	values := make([]any, 0)

	add := func(v any) {
		k := valueKey(v)
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		values = append(values, v)
	}

	for _, r := range records {
		v, ok := read(acc, r)
		if !ok {
			continue
		}
		if arr, isArr := v.([]any); isArr {
			for _, item := range arr {
				add(item)
			}
			continue
		}
		add(v)
	}

	if cmpFn == nil {
		cmpFn = NaturalOrder(values)
		if d.Order == Desc {
			asc := cmpFn
			cmpFn = func(a, b any) int { return asc(b, a) }
		}
	}
	slices.SortStableFunc(values, cmpFn)
	return values
}

// NaturalOrder returns the default comparator for values: ascending numeric when
// every value is a number, ascending lexicographic on the canonical string otherwise.
func NaturalOrder(values []any) Comparator {
	for _, v := range values {
		if !record.IsNumber(v) {
			return Lexicographic
		}
	}
	return Numeric
}

// Numeric compares two numbers. Non-numbers sort after numbers.
func Numeric(a, b any) int {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	switch {
	case okA && okB:
		return cmp.Compare(fa, fb)
	case okA:
		return -1
	case okB:
		return 1
	}
	return Lexicographic(a, b)
}

// Lexicographic compares the canonical string forms of two values.
func Lexicographic(a, b any) int {
	return cmp.Compare(record.Format(a), record.Format(b))
}

func toFloat(v any) (float64, bool) {
	nv, err := record.Normalize(v)
	if err != nil {
		return 0, false
	}
	f, ok := nv.(float64)
	return f, ok
}
