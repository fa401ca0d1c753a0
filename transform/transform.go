// Package transform implements the built-in bidirectional transformers and a
// registry constructor that pre-registers all of them.
//
// Each transformer converts between one native Go representation and its
// canonical wire form, accepting the listed legacy input forms on decode.
// Registration order below is also the shape-recognition scan order.
package transform

import (
	"fmt"

	json "github.com/goccy/go-json"

	typewire "github.com/typewire/typewire"
)

// NewRegistry returns a transformer registry with every built-in
// pre-registered, ready to validate model types against.
func NewRegistry() *typewire.Registry {
	r := typewire.NewRegistry()
	for _, t := range Builtins() {
		r.MustRegister(t)
	}
	return r
}

// Builtins lists the built-in transformers in canonical registration order.
func Builtins() []typewire.Transformer {
	return []typewire.Transformer{
		bigintTransformer{},
		timeTransformer{},
		regexpTransformer{},
		symbolTransformer{},
		setTransformer{},
		mapTransformer{},
		binaryTransformer{},
		errorTransformer{},
		numberArrayTransformer{},
		urlTransformer{},
		urlQueryTransformer{},
	}
}

// tagOf extracts the "type" marker from a tagged wire object.
func tagOf(v any) (string, map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", nil, false
	}
	tag, ok := m["type"].(string)
	if !ok || tag == "" {
		return "", nil, false
	}
	return tag, m, true
}

func conversionErr(kind typewire.Kind, format string, args ...any) error {
	return typewire.Issues{typewire.Issue{
		Path:    "/",
		Code:    typewire.CodeConversion,
		Message: fmt.Sprintf(format, args...),
		Params:  map[string]any{"kind": string(kind)},
	}}
}

// asInt64 widens the numeric representations the wire layer produces
// (json.Number from JSON, int/int64/float64 from YAML) into int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), n <= 1<<63-1
	case float64:
		i := int64(n)
		return i, float64(i) == n
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
