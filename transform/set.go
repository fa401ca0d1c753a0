package transform

import (
	"fmt"

	typewire "github.com/typewire/typewire"
)

// Set is an ordered unique-value collection: insertion order is preserved and
// a later duplicate of an earlier value is dropped. Uniqueness is judged on
// the value's printed representation, which is deterministic for wire trees
// and the native types the built-in transformers produce.
type Set struct {
	items []any
	index map[string]struct{}
}

// NewSet builds a set from values in order, dropping duplicates.
func NewSet(values ...any) *Set {
	s := &Set{index: map[string]struct{}{}}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add appends v unless an equal value is already present; it reports whether
// the set grew.
func (s *Set) Add(v any) bool {
	k := valueKey(v)
	if _, dup := s.index[k]; dup {
		return false
	}
	s.index[k] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports whether an equal value is present.
func (s *Set) Has(v any) bool {
	_, ok := s.index[valueKey(v)]
	return ok
}

// Values returns the items in insertion order.
func (s *Set) Values() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Set) Len() int { return len(s.items) }

func valueKey(v any) string { return fmt.Sprintf("%T|%v", v, v) }

// setTransformer converts between *Set and the canonical
// {"type":"Set","values":[...]} wire form. A bare array also decodes.
type setTransformer struct{}

func (setTransformer) Kind() typewire.Kind { return typewire.KindSet }

func (setTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *Set:
		return t, nil
	case []any:
		return NewSet(t...), nil
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok || tag != "Set" {
			return nil, conversionErr(typewire.KindSet, "expected Set wire object")
		}
		values, ok := m["values"].([]any)
		if !ok {
			return nil, conversionErr(typewire.KindSet, "Set values must be an array")
		}
		return NewSet(values...), nil
	default:
		return nil, conversionErr(typewire.KindSet, "cannot decode %T as Set", v)
	}
}

func (setTransformer) ToWire(v any) (any, error) {
	s, ok := v.(*Set)
	if !ok {
		return nil, conversionErr(typewire.KindSet, "cannot encode %T as Set", v)
	}
	return map[string]any{"type": "Set", "values": s.Values()}, nil
}

func (setTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok || tag != "Set" {
		return false
	}
	_, ok = m["values"].([]any)
	return ok
}

func (setTransformer) RecognizeNative(v any) bool {
	_, ok := v.(*Set)
	return ok
}
