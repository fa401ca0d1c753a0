package typewire

import "strings"

// getPath walks a dotted path through plain string-keyed maps.
func getPath(m map[string]any, path string) (any, bool) {
	segs := strings.Split(path, ".")
	cur := any(m)
	for i, s := range segs {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := obj[s]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		cur = v
	}
	return nil, false
}

// setPath writes v at a dotted path, creating intermediate maps as needed.
// It reports false when an intermediate level exists but is not an object.
func setPath(m map[string]any, path string, v any) bool {
	segs := strings.Split(path, ".")
	cur := m
	for i, s := range segs {
		if i == len(segs)-1 {
			cur[s] = v
			return true
		}
		next, ok := cur[s]
		if !ok || next == nil {
			child := map[string]any{}
			cur[s] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return false
		}
		cur = child
	}
	return false
}

// pointerPath renders a dotted field path as a JSON Pointer for Issue paths.
func pointerPath(path string) string {
	return "/" + strings.ReplaceAll(path, ".", "/")
}

// deepCopyValue clones JSON-compatible trees. Values that are neither maps
// nor slices are assumed immutable and shared.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
