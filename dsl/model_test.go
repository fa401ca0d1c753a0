package dsl_test

import (
	"context"
	"testing"
	"time"

	typewire "github.com/typewire/typewire"
	"github.com/typewire/typewire/dsl"
	"github.com/typewire/typewire/transform"
)

func TestModel_BuildHappyPath(t *testing.T) {
	reg := transform.NewRegistry()
	mt, err := dsl.Model("Account").
		Field("balance").Kind(typewire.KindBigInt).
		Field("stamps").Kind(typewire.KindTime).Array(1).
		Build(reg)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if mt.Name() != "Account" {
		t.Fatalf("unexpected name %q", mt.Name())
	}
	if len(mt.Fields()) != 2 {
		t.Fatalf("unexpected table: %#v", mt.Fields())
	}
}

func TestModel_UnknownTransformerKindFails(t *testing.T) {
	reg := transform.NewRegistry()
	_, err := dsl.Model("Account").
		Field("balance").Kind("decimal128").
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	if !typewire.IsRegistrationError(err) {
		t.Fatalf("wrong class: %v", err)
	}
	iss, _ := typewire.AsIssues(err)
	if iss[0].Code != typewire.CodeRegistrationUnknownKind {
		t.Fatalf("wrong code: %#v", iss[0])
	}
}

func TestModel_NegativeArrayDepthFails(t *testing.T) {
	reg := transform.NewRegistry()
	_, err := dsl.Model("Log").
		Field("stamps").Kind(typewire.KindTime).Array(-1).
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	iss, _ := typewire.AsIssues(err)
	if iss[0].Code != typewire.CodeRegistrationArrayDepth {
		t.Fatalf("wrong code: %#v", iss[0])
	}
}

func TestModel_DuplicateFieldFails(t *testing.T) {
	reg := transform.NewRegistry()
	_, err := dsl.Model("Doc").
		Field("a").Kind(typewire.KindTime).
		Field("a").Kind(typewire.KindBigInt).
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	iss, _ := typewire.AsIssues(err)
	if iss[0].Code != typewire.CodeRegistrationDuplicate {
		t.Fatalf("wrong code: %#v", iss[0])
	}
}

func TestModel_UnionCandidateWithoutDiscriminantFails(t *testing.T) {
	reg := transform.NewRegistry()
	tagged := dsl.Model("Tagged").Tag("kind", "t").MustBuild(reg)
	untagged := dsl.Model("Untagged").MustBuild(reg)

	_, err := dsl.Model("Doc").
		Field("u").OneOf(tagged, untagged).DiscriminatedBy("kind").
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	iss, _ := typewire.AsIssues(err)
	if iss[0].Code != typewire.CodeRegistrationDiscriminant {
		t.Fatalf("wrong code: %#v", iss[0])
	}
}

func TestModel_MappingOutsideCandidatesFails(t *testing.T) {
	reg := transform.NewRegistry()
	a := dsl.Model("A").Tag("kind", "a").MustBuild(reg)
	b := dsl.Model("B").Tag("kind", "b").MustBuild(reg)
	c := dsl.Model("C").Tag("kind", "c").MustBuild(reg)

	_, err := dsl.Model("Doc").
		Field("u").OneOf(a, b).MappedBy("kind", map[string]*typewire.ModelType{"c": c}).
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	iss, _ := typewire.AsIssues(err)
	if iss[0].Code != typewire.CodeRegistrationDiscriminant {
		t.Fatalf("wrong code: %#v", iss[0])
	}
}

func TestModel_FieldTargetsMustBeExclusive(t *testing.T) {
	reg := transform.NewRegistry()
	nested := dsl.Model("Nested").MustBuild(reg)

	_, err := dsl.Model("Doc").
		Field("x").Kind(typewire.KindTime).Model(nested).
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	iss, _ := typewire.AsIssues(err)
	if iss[0].Code != typewire.CodeRegistrationInvalidField {
		t.Fatalf("wrong code: %#v", iss[0])
	}
}

func TestModel_DefaultsApplyBeforeOverrides(t *testing.T) {
	ctx := context.Background()
	reg := transform.NewRegistry()
	mt, err := dsl.Model("Event").
		Field("when").
		Defaults(map[string]typewire.Kind{
			"when":  typewire.KindTime, // fills the declared field's empty kind
			"extra": typewire.KindBigInt,
		}).
		Build(reg)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	inst, err := mt.Decode(ctx, map[string]any{
		"when":  "2024-01-01T00:00:00.000Z",
		"extra": "7",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v, _ := inst.Get("when"); v == nil {
		t.Fatalf("default kind not applied")
	} else if _, ok := v.(time.Time); !ok {
		t.Fatalf("expected time.Time, got %T", v)
	}
	if v, _ := inst.Get("extra"); v == nil {
		t.Fatalf("synthesized descriptor not applied")
	}
}

func TestModel_DefaultsStableAcrossRebuilds(t *testing.T) {
	// Map iteration order must not decide whether a declared field picks up
	// its default kind; every build yields the same table.
	reg := transform.NewRegistry()
	defaults := map[string]typewire.Kind{
		"when":  typewire.KindTime,
		"extra": typewire.KindBigInt,
		"more":  typewire.KindSet,
		"also":  typewire.KindMap,
	}
	for i := 0; i < 100; i++ {
		mt, err := dsl.Model("Event").
			Field("when").
			Defaults(defaults).
			Build(reg)
		if err != nil {
			t.Fatalf("build %d: unexpected err: %v", i, err)
		}
		fields := mt.Fields()
		if fields[0].Path != "when" || fields[0].Kind != typewire.KindTime {
			t.Fatalf("build %d: declared field lost its default: %#v", i, fields[0])
		}
		for _, fd := range fields[1:] {
			if fd.Kind != defaults[fd.Path] {
				t.Fatalf("build %d: synthesized descriptor broken: %#v", i, fd)
			}
		}
	}
}

func TestModel_DefaultsWithUnknownKindFail(t *testing.T) {
	reg := transform.NewRegistry()
	_, err := dsl.Model("Event").
		Defaults(map[string]typewire.Kind{"x": "nope"}).
		Build(reg)
	if err == nil {
		t.Fatalf("expected registration error")
	}
	if !typewire.IsRegistrationError(err) {
		t.Fatalf("wrong class: %v", err)
	}
}
