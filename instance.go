package typewire

import "strings"

// Instance carries a decoded model's current field values together with a
// frozen snapshot of the original wire-derived values. The snapshot lets
// preserving encodes recover the exact input form (wrapper object vs bare
// primitive) for any field the caller never explicitly wrote.
type Instance struct {
	mt      *ModelType
	values  map[string]any
	origin  map[string]any
	written map[string]struct{}
}

// Type returns the model type that constructed the instance.
func (in *Instance) Type() *ModelType { return in.mt }

// Get reads the current value at a dotted field path.
func (in *Instance) Get(path string) (any, bool) {
	return getPath(in.values, path)
}

// Set writes v at a dotted field path and marks the field explicitly written,
// so subsequent preserving encodes emit the new value canonically instead of
// falling back to the decode-time snapshot.
func (in *Instance) Set(path string, v any) bool {
	if !setPath(in.values, path, v) {
		return false
	}
	if in.written == nil {
		in.written = map[string]struct{}{}
	}
	in.written[path] = struct{}{}
	return true
}

// Values returns the live field-value tree. Mutating it bypasses write
// tracking; prefer Set.
func (in *Instance) Values() map[string]any { return in.values }

// Origin returns the frozen wire snapshot taken at decode time.
func (in *Instance) Origin() map[string]any { return in.origin }

// wasWritten reports whether path, an ancestor of it, or anything beneath it
// was explicitly Set. A write anywhere in a field's subtree disqualifies the
// snapshot for that field.
func (in *Instance) wasWritten(path string) bool {
	if _, ok := in.written[path]; ok {
		return true
	}
	for w := range in.written {
		if len(w) > len(path) && strings.HasPrefix(w, path) && w[len(path)] == '.' {
			return true
		}
		if len(path) > len(w) && strings.HasPrefix(path, w) && path[len(w)] == '.' {
			return true
		}
	}
	return false
}

// newInstance freezes the origin snapshot and adopts values as the live tree.
func newInstance(mt *ModelType, values, origin map[string]any) *Instance {
	return &Instance{mt: mt, values: values, origin: origin}
}
