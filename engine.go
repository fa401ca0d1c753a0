package typewire

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
)

// Decode constructs a typed Instance from a raw wire object, walking the
// model's field-descriptor table. It accepts canonical wire forms as well as
// every legacy input form a transformer lists.
//
// The call either yields a fully typed Instance or fails with Issues; there
// is no partial-success channel. Conversion failures are the only hard
// failure class at leaves; values that merely do not match a descriptor's
// expectation pass through unmodified.
func (mt *ModelType) Decode(ctx context.Context, raw any, opts ...DecodeOpt) (*Instance, error) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return nil, singleIssue(CodeInvalidType, "expected object")
	}
	e := &engine{reg: mt.registry, opt: lastDecodeOpt(opts)}
	return e.decodeModel(ctx, mt, obj)
}

type engine struct {
	reg *Registry
	opt DecodeOpt
}

// decodeModel copies the raw object twice (frozen origin snapshot plus the
// live value tree), coerces every declared field in place, then runs the
// shape-inference pass over positions no descriptor covers.
func (e *engine) decodeModel(ctx context.Context, mt *ModelType, obj map[string]any) (*Instance, error) {
	origin, err := copyTree(obj, nil)
	if err != nil {
		return nil, err
	}
	live, _ := copyTree(obj, nil) // obj proved acyclic above
	values := live.(map[string]any)

	var iss Issues
	covered := make(map[string]struct{}, len(mt.fields))
	for i := range mt.fields {
		fd := &mt.fields[i]
		covered[fd.Path] = struct{}{}
		v, ok := getPath(values, fd.Path)
		if !ok {
			if fd.ArrayDepth > 0 {
				setPath(values, fd.Path, []any{})
			}
			continue
		}
		dv, err := e.decodeField(ctx, fd, v, fd.ArrayDepth)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues(pointerPath(fd.Path), err)...)
			if e.opt.FailFast {
				return nil, iss
			}
			continue
		}
		setPath(values, fd.Path, dv)
	}
	if !e.opt.DisableInference {
		iss = AppendIssues(iss, e.inferTree(values, "", covered)...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return newInstance(mt, values, origin.(map[string]any)), nil
}

// decodeField applies the leaf rule under depth levels of list unwrapping.
func (e *engine) decodeField(ctx context.Context, fd *FieldDescriptor, v any, depth int) (any, error) {
	if depth > 0 {
		return e.decodeArray(ctx, fd, v, depth)
	}
	if v == nil {
		return nil, nil // null leaves round-trip as null
	}
	switch {
	case fd.Union != nil:
		obj, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		variant, err := ResolveVariant(fd.Union.Candidates, fd.Union.Config, obj)
		if err != nil {
			return nil, err
		}
		return e.decodeModel(ctx, variant, obj)
	case fd.Model != nil:
		obj, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		return e.decodeModel(ctx, fd.Model, obj)
	case fd.Kind != "":
		return e.decodeLeaf(fd.Kind, v)
	default:
		return v, nil
	}
}

func (e *engine) decodeArray(ctx context.Context, fd *FieldDescriptor, v any, depth int) (any, error) {
	if v == nil {
		return []any{}, nil // missing and null lists become empty lists
	}
	arr, ok := v.([]any)
	if !ok {
		return v, nil
	}
	modelLeaf := fd.Model != nil || fd.Union != nil
	atLeaf := depth == 1
	out := make([]any, 0, len(arr))
	var iss Issues
	for i, el := range arr {
		// Elements that are not object-shaped (including null) under a model
		// leaf never reach construction: filtered by default, kept as nil
		// placeholders under PreserveNullElements.
		if atLeaf && modelLeaf {
			if _, isObj := el.(map[string]any); !isObj {
				if e.opt.NullElements == PreserveNullElements {
					out = append(out, nil)
				}
				continue
			}
		} else if el == nil {
			out = append(out, nil)
			continue
		}
		dv, err := e.decodeField(ctx, fd, el, depth-1)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
			if e.opt.FailFast {
				return nil, iss
			}
			continue
		}
		out = append(out, dv)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// decodeLeaf converts a scalar through its declared transformer. An
// already-native value returns unchanged (idempotence law); inside compound
// payloads, tagged child shapes decode first so container transformers build
// over native elements.
func (e *engine) decodeLeaf(kind Kind, v any) (any, error) {
	tr, ok := e.reg.Lookup(kind)
	if !ok {
		return nil, singleIssue(CodeRegistrationUnknownKind, fmt.Sprintf("transformer kind %q not registered", kind))
	}
	if tr.RecognizeNative(v) {
		return v, nil
	}
	if !e.opt.DisableInference {
		pv, err := e.inferPayload(v)
		if err != nil {
			return nil, err
		}
		v = pv
	}
	nv, err := tr.FromWire(v)
	if err != nil {
		return nil, issuesFromErr("/", err)
	}
	return nv, nil
}

// inferTree walks positions the descriptor table does not cover and applies
// shape-based fallback. Explicit descriptors always win (their subtrees are
// skipped); recognized shapes convert; everything else passes through.
func (e *engine) inferTree(m map[string]any, prefix string, covered map[string]struct{}) Issues {
	var iss Issues
	for k, v := range m {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}
		if _, ok := covered[p]; ok {
			continue
		}
		switch t := v.(type) {
		case map[string]any:
			if _, ok := e.reg.RecognizeWire(t); ok {
				nv, err := e.inferValue(t)
				if err != nil {
					iss = AppendIssues(iss, rebaseIssues(pointerPath(p), err)...)
					continue
				}
				m[k] = nv
				continue
			}
			iss = AppendIssues(iss, e.inferTree(t, p, covered)...)
		case []any:
			nv, err := e.inferValue(t)
			if err != nil {
				iss = AppendIssues(iss, rebaseIssues(pointerPath(p), err)...)
				continue
			}
			m[k] = nv
		default:
			if _, ok := e.reg.RecognizeWire(v); !ok {
				continue
			}
			nv, err := e.inferValue(v)
			if err != nil {
				iss = AppendIssues(iss, rebaseIssues(pointerPath(p), err)...)
				continue
			}
			m[k] = nv
		}
	}
	return iss
}

// inferValue decodes recognized tagged shapes bottom-up: children first, so a
// wrapper's payload is native before its own transformer runs.
func (e *engine) inferValue(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			nv, err := e.inferValue(el)
			if err != nil {
				return nil, rebaseIssues("/"+strconv.Itoa(i), err)
			}
			out[i] = nv
		}
		return out, nil
	case map[string]any:
		inner := make(map[string]any, len(t))
		for k, el := range t {
			nv, err := e.inferValue(el)
			if err != nil {
				return nil, rebaseIssues("/"+k, err)
			}
			inner[k] = nv
		}
		if tr, ok := e.reg.RecognizeWire(inner); ok {
			nv, err := tr.FromWire(inner)
			if err != nil {
				return nil, issuesFromErr("/", err)
			}
			return nv, nil
		}
		return inner, nil
	default:
		// Self-describing scalar shapes (strict ISO timestamp strings) convert
		// too; everything else passes through.
		if tr, ok := e.reg.RecognizeWire(v); ok {
			nv, err := tr.FromWire(v)
			if err != nil {
				return nil, issuesFromErr("/", err)
			}
			return nv, nil
		}
		return v, nil
	}
}

// inferPayload decodes tagged shapes inside a compound wire value while
// leaving the outer shape for the field's declared transformer.
func (e *engine) inferPayload(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		return e.inferValue(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			nv, err := e.inferValue(el)
			if err != nil {
				return nil, rebaseIssues("/"+k, err)
			}
			out[k] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}

// copyTree clones a JSON-compatible tree, failing on self-referencing graphs
// instead of recursing until resource exhaustion.
func copyTree(v any, seen map[uintptr]struct{}) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if seen == nil {
			seen = map[uintptr]struct{}{}
		}
		ptr := reflect.ValueOf(t).Pointer()
		if _, cyc := seen[ptr]; cyc {
			return nil, singleIssue(CodeCycleDetected, "self-referencing object graph")
		}
		seen[ptr] = struct{}{}
		out := make(map[string]any, len(t))
		for k, e := range t {
			nv, err := copyTree(e, seen)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		delete(seen, ptr)
		return out, nil
	case []any:
		if seen == nil {
			seen = map[uintptr]struct{}{}
		}
		ptr := reflect.ValueOf(t).Pointer()
		if len(t) > 0 {
			if _, cyc := seen[ptr]; cyc {
				return nil, singleIssue(CodeCycleDetected, "self-referencing object graph")
			}
			seen[ptr] = struct{}{}
		}
		out := make([]any, len(t))
		for i, e := range t {
			nv, err := copyTree(e, seen)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		if len(t) > 0 {
			delete(seen, ptr)
		}
		return out, nil
	default:
		return v, nil
	}
}
