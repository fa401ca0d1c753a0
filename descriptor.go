package typewire

import (
	"fmt"
	"sort"
	"strings"
)

// FieldDescriptor is the static per-field metadata a ModelType walks during
// coercion. Descriptors are owned by exactly one ModelType and are immutable
// after NewModelType returns.
type FieldDescriptor struct {
	// Path addresses the field; dotted segments reach into plain nested
	// objects without requiring intermediate levels to be registered models.
	Path string
	// Kind names the leaf transformer ("" when the leaf is a model, a union,
	// or deliberate pass-through).
	Kind Kind
	// ArrayDepth is the number of list levels wrapping the leaf (0 = scalar).
	ArrayDepth int
	// Model points at the nested model type the leaf constructs.
	Model *ModelType
	// Union describes a polymorphic leaf over several candidate model types.
	Union *UnionDescriptor
}

// UnionDescriptor pairs the candidate model types of a polymorphic field with
// the rule that selects one per element.
type UnionDescriptor struct {
	Candidates []*ModelType
	Config     DiscriminatorConfig
}

// DiscriminatorConfig selects one candidate model type for a union element.
// When several signals are set, priority is Resolve, then Mapping, then the
// candidates' own discriminant tags under Field; each is terminal on failure.
type DiscriminatorConfig struct {
	// Field names the element key holding the discriminant value.
	Field string
	// Mapping is an explicit discriminant value -> model type table.
	Mapping map[string]*ModelType
	// Resolve is a caller-supplied resolver. It must return one of the
	// declared candidates; anything else is a contract violation.
	Resolve func(element map[string]any) *ModelType
}

// ModelType is a registered type's immutable field-descriptor table bound to
// the transformer registry it was validated against.
type ModelType struct {
	name     string
	fields   []FieldDescriptor
	byPath   map[string]*FieldDescriptor
	tags     map[string]string
	registry *Registry
}

// ModelOpt mutates a ModelType under construction.
type ModelOpt func(*ModelType)

// WithTag declares the model's own discriminant value for field: when this
// type is a union candidate resolved by field matching, an element whose
// field equals value selects this type.
func WithTag(field, value string) ModelOpt {
	return func(mt *ModelType) {
		if mt.tags == nil {
			mt.tags = map[string]string{}
		}
		mt.tags[field] = value
	}
}

// WithDefaultKinds installs a class-level default transformer map applied
// before per-field overrides: a descriptor with no Kind picks up the default
// for its path, and paths with no descriptor at all gain a plain one.
// Declared descriptors are filled in by index before anything is appended, so
// growing the table cannot strand a write in a stale backing array; the
// synthesized descriptors append in path order to keep the table stable.
func WithDefaultKinds(defaults map[string]Kind) ModelOpt {
	return func(mt *ModelType) {
		declared := make(map[string]struct{}, len(mt.fields))
		for i := range mt.fields {
			fd := &mt.fields[i]
			declared[fd.Path] = struct{}{}
			if k, ok := defaults[fd.Path]; ok && fd.Kind == "" {
				fd.Kind = k
			}
		}
		missing := make([]string, 0, len(defaults))
		for path := range defaults {
			if _, ok := declared[path]; !ok {
				missing = append(missing, path)
			}
		}
		sort.Strings(missing)
		for _, path := range missing {
			mt.fields = append(mt.fields, FieldDescriptor{Path: path, Kind: defaults[path]})
		}
	}
}

// NewModelType validates and freezes a field-descriptor table. Validation is
// the fail-fast registration phase: every referenced Kind must exist in reg,
// array depths must be non-negative, a field may target at most one of
// transformer/model/union, and every discriminated field's discriminant must
// exist on all candidates. The returned ModelType never changes.
func NewModelType(name string, reg *Registry, fields []FieldDescriptor, opts ...ModelOpt) (*ModelType, error) {
	if name == "" {
		return nil, singleIssue(CodeRegistrationInvalidField, "model type name must not be empty")
	}
	if reg == nil {
		return nil, singleIssue(CodeRegistrationInvalidField, "nil registry")
	}
	mt := &ModelType{
		name:     name,
		fields:   make([]FieldDescriptor, len(fields)),
		byPath:   make(map[string]*FieldDescriptor, len(fields)),
		registry: reg,
	}
	copy(mt.fields, fields)
	// Options run before validation so defaults-added descriptors are checked
	// like declared ones.
	for _, opt := range opts {
		opt(mt)
	}
	var iss Issues
	for i := range mt.fields {
		fd := &mt.fields[i]
		base := "/" + strings.ReplaceAll(fd.Path, ".", "/")
		if fd.Path == "" {
			iss = AppendIssues(iss, Issue{Path: "/", Code: CodeRegistrationInvalidField, Message: "field path must not be empty"})
			continue
		}
		if _, dup := mt.byPath[fd.Path]; dup {
			iss = AppendIssues(iss, Issue{Path: base, Code: CodeRegistrationDuplicate, Message: fmt.Sprintf("field %q declared twice", fd.Path)})
			continue
		}
		mt.byPath[fd.Path] = fd
		if fd.ArrayDepth < 0 {
			iss = AppendIssues(iss, Issue{Path: base, Code: CodeRegistrationArrayDepth, Message: fmt.Sprintf("array depth %d is negative", fd.ArrayDepth)})
		}
		targets := 0
		if fd.Kind != "" {
			targets++
			if _, ok := reg.Lookup(fd.Kind); !ok {
				iss = AppendIssues(iss, Issue{Path: base, Code: CodeRegistrationUnknownKind, Message: fmt.Sprintf("transformer kind %q not registered", fd.Kind)})
			}
		}
		if fd.Model != nil {
			targets++
		}
		if fd.Union != nil {
			targets++
			iss = AppendIssues(iss, validateUnion(base, fd.Union)...)
		}
		if targets > 1 {
			iss = AppendIssues(iss, Issue{Path: base, Code: CodeRegistrationInvalidField, Message: "field may target only one of transformer, model, union"})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return mt, nil
}

// MustModelType panics when NewModelType fails. Intended for start-up wiring.
func MustModelType(name string, reg *Registry, fields []FieldDescriptor, opts ...ModelOpt) *ModelType {
	mt, err := NewModelType(name, reg, fields, opts...)
	if err != nil {
		panic(err)
	}
	return mt
}

func validateUnion(base string, u *UnionDescriptor) Issues {
	var iss Issues
	if len(u.Candidates) == 0 {
		return Issues{Issue{Path: base, Code: CodeRegistrationInvalidField, Message: "union declares no candidate model types"}}
	}
	for i, c := range u.Candidates {
		if c == nil {
			iss = AppendIssues(iss, Issue{Path: base, Code: CodeRegistrationInvalidField, Message: fmt.Sprintf("union candidate %d is nil", i)})
		}
	}
	if len(iss) > 0 {
		return iss
	}
	cfg := u.Config
	if cfg.Resolve != nil {
		return nil // caller-supplied resolver carries its own contract
	}
	if cfg.Field == "" {
		return Issues{Issue{Path: base, Code: CodeRegistrationInvalidField, Message: "union requires a discriminator field or resolver"}}
	}
	for val, mt := range cfg.Mapping {
		if !containsModel(u.Candidates, mt) {
			iss = AppendIssues(iss, Issue{Path: base, Code: CodeRegistrationDiscriminant, Message: fmt.Sprintf("mapping value %q targets a type outside the candidate list", val)})
		}
	}
	// The discriminant must exist on every candidate: either as a declared
	// tag or as a field the candidate's table knows about.
	for _, c := range u.Candidates {
		if !c.hasDiscriminant(cfg.Field, cfg.Mapping == nil) {
			iss = AppendIssues(iss, Issue{
				Path:    base,
				Code:    CodeRegistrationDiscriminant,
				Message: fmt.Sprintf("candidate %q lacks discriminant field %q", c.name, cfg.Field),
			})
		}
	}
	return iss
}

func containsModel(list []*ModelType, mt *ModelType) bool {
	for _, c := range list {
		if c == mt {
			return true
		}
	}
	return false
}

// hasDiscriminant reports whether field is known to the model: by a declared
// tag, or (when tag matching is not required) by a field descriptor.
func (mt *ModelType) hasDiscriminant(field string, needTag bool) bool {
	if _, ok := mt.tags[field]; ok {
		return true
	}
	if needTag {
		return false
	}
	_, ok := mt.byPath[field]
	return ok
}

// Name returns the registered type name.
func (mt *ModelType) Name() string { return mt.name }

// Fields returns a copy of the descriptor table in declaration order.
func (mt *ModelType) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(mt.fields))
	copy(out, mt.fields)
	return out
}

// Registry returns the transformer registry the type was validated against.
func (mt *ModelType) Registry() *Registry { return mt.registry }

// Tag returns the model's declared discriminant value for field.
func (mt *ModelType) Tag(field string) (string, bool) {
	v, ok := mt.tags[field]
	return v, ok
}
