package record

import (
	"fmt"
	"math"
	"strconv"
)

// IDField is the field name under which a record exposes its identifier.
const IDField = "id"

// Record is one item of a browsable collection (immutable value object).
// Field values are normalized: numbers are float64, arrays are []any of primitives.
type Record struct {
	id     string
	fields map[string]any
}

// New validates and creates a Record.
// ID must be non-empty. Values must be strings, numbers, bools or arrays of those.
func New(id string, fields map[string]any) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record ID is required")
	}
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == IDField {
			continue
		}
		nv, err := Normalize(v)
		if err != nil {
			return Record{}, fmt.Errorf("record %q field %q: %w", id, k, err)
		}
		normalized[k] = nv
	}
	return Record{id: id, fields: normalized}, nil
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Get returns the value stored under field. The id is reachable as IDField.
func (r Record) Get(field string) (any, bool) {
	if field == IDField {
		return r.id, r.id != ""
	}
	v, ok := r.fields[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Fields returns a copy of all fields, including the id.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields)+1)
	for k, v := range r.fields {
		if arr, ok := v.([]any); ok {
			v = append([]any(nil), arr...)
		}
		out[k] = v
	}
	out[IDField] = r.id
	return out
}

// Normalize converts a decoded value into its canonical record form.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			if _, nested := item.([]any); nested {
				return nil, fmt.Errorf("nested arrays are not supported")
			}
			nv, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			if nv != nil {
				out = append(out, nv)
			}
		}
		return out, nil
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	}
	if p, ok := normalizePrimitive(v); ok {
		return p, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func normalizePrimitive(v any) (any, bool) {
	switch x := v.(type) {
	case string, bool, float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return nil, false
}

// Equal reports value equality of two primitives after normalization.
// Arrays are never equal to anything; callers flatten them first.
func Equal(a, b any) bool {
	na, ok := normalizePrimitive(a)
	if !ok {
		return false
	}
	nb, ok := normalizePrimitive(b)
	if !ok {
		return false
	}
	return na == nb
}

// Format returns the canonical string form of a primitive value.
func Format(v any) string {
	p, ok := normalizePrimitive(v)
	if !ok {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	switch x := p.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprint(p)
}

// IsNumber reports whether v is a numeric primitive.
func IsNumber(v any) bool {
	p, ok := normalizePrimitive(v)
	if !ok {
		return false
	}
	_, isNum := p.(float64)
	return isNum
}
