package typewire_test

import (
	"testing"

	typewire "github.com/typewire/typewire"
	"github.com/typewire/typewire/transform"
)

// stubTransformer is a minimal custom transformer for registry tests.
type stubTransformer struct {
	kind typewire.Kind
}

func (s stubTransformer) Kind() typewire.Kind         { return s.kind }
func (s stubTransformer) FromWire(v any) (any, error) { return v, nil }
func (s stubTransformer) ToWire(v any) (any, error)   { return v, nil }
func (s stubTransformer) RecognizeWire(v any) bool    { return false }
func (s stubTransformer) RecognizeNative(v any) bool  { return false }

func TestRegistry_DuplicateRegisterFails(t *testing.T) {
	r := typewire.NewRegistry()
	if err := r.Register(stubTransformer{kind: "money"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := r.Register(stubTransformer{kind: "money"})
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	if !typewire.IsRegistrationError(err) {
		t.Fatalf("wrong class: %v", err)
	}
}

func TestRegistry_OverrideAndUnregister(t *testing.T) {
	r := typewire.NewRegistry()
	r.MustRegister(stubTransformer{kind: "money"})
	r.Override(stubTransformer{kind: "money"}) // replace in place

	if _, ok := r.Lookup("money"); !ok {
		t.Fatalf("lookup after override failed")
	}
	if !r.Unregister("money") {
		t.Fatalf("unregister reported absent")
	}
	if r.Unregister("money") {
		t.Fatalf("second unregister must report absent")
	}
	if _, ok := r.Lookup("money"); ok {
		t.Fatalf("lookup after unregister must fail")
	}
}

func TestRegistry_KindsKeepRegistrationOrder(t *testing.T) {
	r := typewire.NewRegistry()
	for _, k := range []typewire.Kind{"c", "a", "b"} {
		r.MustRegister(stubTransformer{kind: k})
	}
	kinds := r.Kinds()
	want := []typewire.Kind{"c", "a", "b"}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("order broken: %v", kinds)
		}
	}
}

func TestRegistry_BuiltinsAllPresent(t *testing.T) {
	r := transform.NewRegistry()
	for _, k := range []typewire.Kind{
		typewire.KindBigInt, typewire.KindTime, typewire.KindPattern,
		typewire.KindSymbol, typewire.KindSet, typewire.KindMap,
		typewire.KindBinary, typewire.KindError, typewire.KindNumberArray,
		typewire.KindURL, typewire.KindURLQuery,
	} {
		if _, ok := r.Lookup(k); !ok {
			t.Fatalf("built-in %q missing", k)
		}
	}
}

func TestTypeSet_ReregistrationErrors(t *testing.T) {
	reg := transform.NewRegistry()
	mt := typewire.MustModelType("User", reg, nil)
	ts := typewire.NewTypeSet()

	if err := ts.Register(mt); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	other := typewire.MustModelType("User", reg, nil)
	err := ts.Register(other)
	if err == nil {
		t.Fatalf("expected re-registration error")
	}
	if !typewire.IsRegistrationError(err) {
		t.Fatalf("wrong class: %v", err)
	}
	if got, ok := ts.Lookup("User"); !ok || got != mt {
		t.Fatalf("first registration must win")
	}
}
