package transform

import (
	typewire "github.com/typewire/typewire"
)

// MapEntry is one ordered key-value pair. Keys may be any wire value, not
// only strings, which is why the wire form is an entry list rather than a
// JSON object.
type MapEntry struct {
	Key   any
	Value any
}

// Map is a key-value map preserving insertion order. Setting an existing key
// updates the value in place without moving the entry.
type Map struct {
	entries []MapEntry
	index   map[string]int
}

// NewMap builds an ordered map from entries in order.
func NewMap(entries ...MapEntry) *Map {
	m := &Map{index: map[string]int{}}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set inserts or updates the value for key.
func (m *Map) Set(key, value any) {
	k := valueKey(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	i, ok := m.index[valueKey(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Entries returns the pairs in insertion order.
func (m *Map) Entries() []MapEntry {
	out := make([]MapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// mapTransformer converts between *Map and the canonical
// {"type":"Map","entries":[[k,v],...]} wire form. A bare array of pairs also
// decodes.
type mapTransformer struct{}

func (mapTransformer) Kind() typewire.Kind { return typewire.KindMap }

func (mapTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *Map:
		return t, nil
	case []any:
		return mapFromPairs(t)
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok || tag != "Map" {
			return nil, conversionErr(typewire.KindMap, "expected Map wire object")
		}
		entries, ok := m["entries"].([]any)
		if !ok {
			return nil, conversionErr(typewire.KindMap, "Map entries must be an array of pairs")
		}
		return mapFromPairs(entries)
	default:
		return nil, conversionErr(typewire.KindMap, "cannot decode %T as Map", v)
	}
}

func (mapTransformer) ToWire(v any) (any, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, conversionErr(typewire.KindMap, "cannot encode %T as Map", v)
	}
	entries := make([]any, 0, m.Len())
	for _, e := range m.entries {
		entries = append(entries, []any{e.Key, e.Value})
	}
	return map[string]any{"type": "Map", "entries": entries}, nil
}

func (mapTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok || tag != "Map" {
		return false
	}
	_, ok = m["entries"].([]any)
	return ok
}

func (mapTransformer) RecognizeNative(v any) bool {
	_, ok := v.(*Map)
	return ok
}

func mapFromPairs(pairs []any) (any, error) {
	m := NewMap()
	for i, p := range pairs {
		pair, ok := p.([]any)
		if !ok || len(pair) != 2 {
			return nil, conversionErr(typewire.KindMap, "entry %d is not a [key, value] pair", i)
		}
		m.Set(pair[0], pair[1])
	}
	return m, nil
}
