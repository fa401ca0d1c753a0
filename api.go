package typewire

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// JSONBytes decodes raw JSON into the wire representation (string-keyed maps,
// []any, json.Number, string, bool, nil). Numbers stay textual so large
// integers survive the trip into transformers untouched.
func JSONBytes(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid JSON", Cause: err}}
	}
	return v, nil
}

// YAMLBytes decodes a YAML document into the wire representation. YAML maps
// with non-string keys are rejected; the wire format is string-keyed only.
func YAMLBytes(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "invalid YAML", Cause: err}}
	}
	return normalizeYAML(v)
}

func normalizeYAML(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			nv, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, singleIssue(CodeInvalidType, fmt.Sprintf("non-string map key %v", k))
			}
			nv, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			nv, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}

// DecodeJSON constructs an Instance of mt from a JSON document.
func DecodeJSON(ctx context.Context, mt *ModelType, data []byte, opts ...DecodeOpt) (*Instance, error) {
	if mt == nil {
		return nil, singleIssue(CodeParseError, "nil model type")
	}
	v, err := JSONBytes(data)
	if err != nil {
		return nil, err
	}
	return mt.Decode(ctx, v, opts...)
}

// DecodeYAML constructs an Instance of mt from a YAML document.
func DecodeYAML(ctx context.Context, mt *ModelType, data []byte, opts ...DecodeOpt) (*Instance, error) {
	if mt == nil {
		return nil, singleIssue(CodeParseError, "nil model type")
	}
	v, err := YAMLBytes(data)
	if err != nil {
		return nil, err
	}
	return mt.Decode(ctx, v, opts...)
}

// EncodeJSON serializes an Instance to a JSON document in canonical form.
func EncodeJSON(ctx context.Context, mt *ModelType, inst *Instance, opts ...EncodeOpt) ([]byte, error) {
	if mt == nil {
		return nil, singleIssue(CodeParseError, "nil model type")
	}
	wire, err := mt.Encode(ctx, inst, opts...)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "marshal failed", Cause: err}}
	}
	return data, nil
}

// EncodeWithMode encodes using the given mode at the call site.
func EncodeWithMode(ctx context.Context, mt *ModelType, inst *Instance, mode EncodeMode) (map[string]any, error) {
	return mt.Encode(ctx, inst, EncodeOpt{Mode: mode})
}
