// Package dsl provides the code-visible schema builder that populates a
// model type's field-descriptor table. It replaces annotation capture with
// an explicit declaration read top to bottom:
//
//	account := dsl.Model("Account").
//	    Field("balance").Kind(typewire.KindBigInt).
//	    Field("history").Kind(typewire.KindTime).Array(1).
//	    Field("owner").Model(owner).
//	    MustBuild(reg)
package dsl

import (
	typewire "github.com/typewire/typewire"
)

// ModelBuilder accumulates field descriptors until Build freezes them into a
// ModelType validated against a transformer registry.
type ModelBuilder struct {
	name     string
	fields   []typewire.FieldDescriptor
	opts     []typewire.ModelOpt
	defaults map[string]typewire.Kind
}

// Model starts a builder for a named model type.
func Model(name string) *ModelBuilder {
	return &ModelBuilder{name: name}
}

// Field declares a descriptor at a dotted path and returns a step for
// configuring it. An unconfigured field passes its value through verbatim.
func (b *ModelBuilder) Field(path string) *FieldStep {
	b.fields = append(b.fields, typewire.FieldDescriptor{Path: path})
	return &FieldStep{b: b, idx: len(b.fields) - 1}
}

// Tag declares this model's own discriminant value for field, used when the
// model is a union candidate resolved by field matching.
func (b *ModelBuilder) Tag(field, value string) *ModelBuilder {
	b.opts = append(b.opts, typewire.WithTag(field, value))
	return b
}

// Defaults installs the class-level default transformer map, applied before
// per-field overrides.
func (b *ModelBuilder) Defaults(m map[string]typewire.Kind) *ModelBuilder {
	if b.defaults == nil {
		b.defaults = map[string]typewire.Kind{}
	}
	for k, v := range m {
		b.defaults[k] = v
	}
	return b
}

// Build validates the accumulated table against reg and freezes it.
func (b *ModelBuilder) Build(reg *typewire.Registry) (*typewire.ModelType, error) {
	opts := b.opts
	if b.defaults != nil {
		opts = append(opts[:len(opts):len(opts)], typewire.WithDefaultKinds(b.defaults))
	}
	return typewire.NewModelType(b.name, reg, b.fields, opts...)
}

// MustBuild panics when Build fails. Intended for start-up wiring.
func (b *ModelBuilder) MustBuild(reg *typewire.Registry) *typewire.ModelType {
	mt, err := b.Build(reg)
	if err != nil {
		panic(err)
	}
	return mt
}

// FieldStep configures the most recently declared field.
type FieldStep struct {
	b   *ModelBuilder
	idx int
}

func (f *FieldStep) fd() *typewire.FieldDescriptor { return &f.b.fields[f.idx] }

// Kind sets the leaf transformer.
func (f *FieldStep) Kind(k typewire.Kind) *FieldStep {
	f.fd().Kind = k
	return f
}

// Array wraps the leaf in depth list levels.
func (f *FieldStep) Array(depth int) *FieldStep {
	f.fd().ArrayDepth = depth
	return f
}

// Model makes the leaf construct a nested model type.
func (f *FieldStep) Model(mt *typewire.ModelType) *FieldStep {
	f.fd().Model = mt
	return f
}

// OneOf makes the leaf a union over candidate model types. Combine with
// DiscriminatedBy, MappedBy or ResolvedBy to configure selection.
func (f *FieldStep) OneOf(candidates ...*typewire.ModelType) *FieldStep {
	f.fd().Union = &typewire.UnionDescriptor{Candidates: candidates}
	return f
}

// DiscriminatedBy selects the union variant whose declared tag for field
// equals the element's value.
func (f *FieldStep) DiscriminatedBy(field string) *FieldStep {
	f.union().Config.Field = field
	return f
}

// MappedBy selects the union variant through an explicit value -> type table.
func (f *FieldStep) MappedBy(field string, mapping map[string]*typewire.ModelType) *FieldStep {
	u := f.union()
	u.Config.Field = field
	u.Config.Mapping = mapping
	return f
}

// ResolvedBy installs a caller-supplied resolver. It must return one of the
// declared candidates.
func (f *FieldStep) ResolvedBy(fn func(element map[string]any) *typewire.ModelType) *FieldStep {
	f.union().Config.Resolve = fn
	return f
}

func (f *FieldStep) union() *typewire.UnionDescriptor {
	if f.fd().Union == nil {
		f.fd().Union = &typewire.UnionDescriptor{}
	}
	return f.fd().Union
}

// Field starts the next field, committing this one.
func (f *FieldStep) Field(path string) *FieldStep { return f.b.Field(path) }

// Tag forwards to the builder.
func (f *FieldStep) Tag(field, value string) *ModelBuilder { return f.b.Tag(field, value) }

// Defaults forwards to the builder.
func (f *FieldStep) Defaults(m map[string]typewire.Kind) *ModelBuilder { return f.b.Defaults(m) }

// Build forwards to the builder.
func (f *FieldStep) Build(reg *typewire.Registry) (*typewire.ModelType, error) { return f.b.Build(reg) }

// MustBuild forwards to the builder.
func (f *FieldStep) MustBuild(reg *typewire.Registry) *typewire.ModelType { return f.b.MustBuild(reg) }
