package typewire

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
)

// Encode serializes an Instance back to a wire object by walking the same
// descriptor table in the opposite direction. Canonical mode always emits
// each transformer's canonical form regardless of the input form decoded.
func (mt *ModelType) Encode(ctx context.Context, inst *Instance, opts ...EncodeOpt) (map[string]any, error) {
	opt := lastEncodeOpt(opts)
	if inst == nil {
		return nil, singleIssue(CodeInvalidType, "nil instance")
	}
	if inst.mt != mt {
		return nil, singleIssue(CodeInvalidType, fmt.Sprintf("instance of %q encoded through %q", inst.mt.name, mt.name))
	}
	enc := &encoder{
		reg:      mt.registry,
		mode:     opt.Mode,
		seen:     map[uintptr]struct{}{},
		instSeen: map[*Instance]struct{}{},
	}
	return enc.encodeInstance(ctx, inst)
}

// EncodePreserving serializes with snapshot fallback: a field never
// explicitly written re-emits its decode-time wire fragment verbatim, so the
// original wrapper-vs-bare input nuance survives; written fields encode
// canonically.
func (mt *ModelType) EncodePreserving(ctx context.Context, inst *Instance) (map[string]any, error) {
	return mt.Encode(ctx, inst, EncodeOpt{Mode: EncodePreserve})
}

type encoder struct {
	reg      *Registry
	mode     EncodeMode
	seen     map[uintptr]struct{}
	instSeen map[*Instance]struct{}
}

func (enc *encoder) encodeInstance(ctx context.Context, inst *Instance) (map[string]any, error) {
	if _, cyc := enc.instSeen[inst]; cyc {
		return nil, singleIssue(CodeCycleDetected, "self-referencing instance graph")
	}
	enc.instSeen[inst] = struct{}{}
	defer delete(enc.instSeen, inst)

	mt := inst.mt
	out := map[string]any{}
	var iss Issues
	covered := make(map[string]struct{}, len(mt.fields))
	for i := range mt.fields {
		fd := &mt.fields[i]
		covered[fd.Path] = struct{}{}
		v, ok := getPath(inst.values, fd.Path)
		if !ok {
			continue
		}
		if enc.mode == EncodePreserve && !inst.wasWritten(fd.Path) && !holdsInstance(v) {
			if ov, hasOrig := getPath(inst.origin, fd.Path); hasOrig {
				setPath(out, fd.Path, deepCopyValue(ov))
				continue
			}
		}
		wv, err := enc.encodeField(ctx, fd, v, fd.ArrayDepth)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues(pointerPath(fd.Path), err)...)
			continue
		}
		setPath(out, fd.Path, wv)
	}
	if i2 := enc.encodeRest(ctx, inst.values, out, "", covered); len(i2) > 0 {
		iss = AppendIssues(iss, i2...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (enc *encoder) encodeField(ctx context.Context, fd *FieldDescriptor, v any, depth int) (any, error) {
	if depth > 0 {
		if v == nil {
			return []any{}, nil
		}
		arr, ok := v.([]any)
		if !ok {
			return enc.encodeAny(ctx, v)
		}
		out := make([]any, 0, len(arr))
		var iss Issues
		for i, el := range arr {
			if el == nil {
				out = append(out, nil)
				continue
			}
			wv, err := enc.encodeField(ctx, fd, el, depth-1)
			if err != nil {
				iss = AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
				continue
			}
			out = append(out, wv)
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}
	if v == nil {
		return nil, nil
	}
	if nested, ok := v.(*Instance); ok {
		return enc.encodeInstance(ctx, nested)
	}
	if fd.Kind != "" {
		return enc.encodeLeaf(ctx, fd.Kind, v)
	}
	return enc.encodeAny(ctx, v)
}

// encodeLeaf emits the canonical form of a declared leaf. A value still in
// some accepted wire form is normalized through FromWire first; a value the
// transformer rejects outright is a conversion error, same as on decode.
func (enc *encoder) encodeLeaf(ctx context.Context, kind Kind, v any) (any, error) {
	tr, ok := enc.reg.Lookup(kind)
	if !ok {
		return nil, singleIssue(CodeRegistrationUnknownKind, fmt.Sprintf("transformer kind %q not registered", kind))
	}
	if !tr.RecognizeNative(v) {
		nv, err := tr.FromWire(v)
		if err != nil {
			return nil, issuesFromErr("/", err)
		}
		v = nv
	}
	w, err := tr.ToWire(v)
	if err != nil {
		return nil, issuesFromErr("/", err)
	}
	// Container wire forms may still hold native children.
	return enc.encodeAny(ctx, w)
}

// encodeRest mirrors decode-side inference: positions no descriptor covers
// re-encode any native values they hold and pass everything else through.
func (enc *encoder) encodeRest(ctx context.Context, values, out map[string]any, prefix string, covered map[string]struct{}) Issues {
	var iss Issues
	for k, v := range values {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}
		if _, ok := covered[p]; ok {
			continue
		}
		if coversBelow(covered, p) {
			child, ok := v.(map[string]any)
			if !ok {
				continue
			}
			sub, okOut := out[k].(map[string]any)
			if !okOut {
				sub = map[string]any{}
				out[k] = sub
			}
			iss = AppendIssues(iss, enc.encodeRest(ctx, child, sub, p, covered)...)
			continue
		}
		wv, err := enc.encodeAny(ctx, v)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues(pointerPath(p), err)...)
			continue
		}
		out[k] = wv
	}
	return iss
}

// coversBelow reports whether some descriptor path lies strictly under p.
func coversBelow(covered map[string]struct{}, p string) bool {
	pref := p + "."
	for c := range covered {
		if len(c) > len(pref) && c[:len(pref)] == pref {
			return true
		}
	}
	return false
}

// encodeAny converts arbitrary values to wire-safe form: nested instances
// encode through their own tables, recognized natives through their
// transformer, containers recursively, everything else verbatim.
func (enc *encoder) encodeAny(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Instance:
		return enc.encodeInstance(ctx, t)
	case map[string]any:
		ptr := reflect.ValueOf(t).Pointer()
		if _, cyc := enc.seen[ptr]; cyc {
			return nil, singleIssue(CodeCycleDetected, "self-referencing object graph")
		}
		enc.seen[ptr] = struct{}{}
		defer delete(enc.seen, ptr)
		out := make(map[string]any, len(t))
		for k, el := range t {
			wv, err := enc.encodeAny(ctx, el)
			if err != nil {
				return nil, rebaseIssues("/"+k, err)
			}
			out[k] = wv
		}
		return out, nil
	case []any:
		if len(t) == 0 {
			return []any{}, nil
		}
		ptr := reflect.ValueOf(t).Pointer()
		if _, cyc := enc.seen[ptr]; cyc {
			return nil, singleIssue(CodeCycleDetected, "self-referencing object graph")
		}
		enc.seen[ptr] = struct{}{}
		defer delete(enc.seen, ptr)
		out := make([]any, len(t))
		for i, el := range t {
			wv, err := enc.encodeAny(ctx, el)
			if err != nil {
				return nil, rebaseIssues("/"+strconv.Itoa(i), err)
			}
			out[i] = wv
		}
		return out, nil
	default:
		if tr, ok := enc.reg.RecognizeNative(v); ok {
			w, err := tr.ToWire(v)
			if err != nil {
				return nil, issuesFromErr("/", err)
			}
			return enc.encodeAny(ctx, w)
		}
		return v, nil
	}
}

// holdsInstance reports whether v is, or contains, a decoded nested Instance.
// Preserving encodes recurse into such values so writes inside nested models
// are not masked by the parent's snapshot.
func holdsInstance(v any) bool {
	switch t := v.(type) {
	case *Instance:
		return true
	case []any:
		for _, el := range t {
			if holdsInstance(el) {
				return true
			}
		}
	}
	return false
}
