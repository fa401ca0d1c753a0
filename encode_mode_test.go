package typewire_test

import (
	"context"
	"math/big"
	"testing"

	typewire "github.com/typewire/typewire"
	"github.com/typewire/typewire/dsl"
	"github.com/typewire/typewire/transform"
)

func TestEncodePreserving_UnwrittenFieldKeepsInputForm(t *testing.T) {
	ctx := context.Background()
	reg := transform.NewRegistry()
	account := dsl.Model("Account").
		Field("balance").Kind(typewire.KindBigInt).
		MustBuild(reg)

	// legacy bare-string input form
	inst, err := account.Decode(ctx, map[string]any{"balance": "42"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	preserved, err := account.EncodePreserving(ctx, inst)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if preserved["balance"] != "42" {
		t.Fatalf("snapshot fallback lost the bare form: %#v", preserved["balance"])
	}

	// canonical mode ignores the snapshot
	canonical, err := account.Encode(ctx, inst)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m, ok := canonical["balance"].(map[string]any); !ok || m["value"] != "42" {
		t.Fatalf("canonical mode must emit the wrapper: %#v", canonical["balance"])
	}
}

func TestEncodePreserving_WrittenFieldIsCanonical(t *testing.T) {
	ctx := context.Background()
	reg := transform.NewRegistry()
	account := dsl.Model("Account").
		Field("balance").Kind(typewire.KindBigInt).
		MustBuild(reg)

	inst, err := account.Decode(ctx, map[string]any{"balance": "42"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	inst.Set("balance", big.NewInt(43))

	preserved, err := account.EncodePreserving(ctx, inst)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := preserved["balance"].(map[string]any)
	if !ok || m["type"] != "bigint" || m["value"] != "43" {
		t.Fatalf("written field must encode canonically: %#v", preserved["balance"])
	}
}

func TestEncodePreserving_NestedInstanceWritesSurvive(t *testing.T) {
	ctx := context.Background()
	reg := transform.NewRegistry()
	owner := dsl.Model("Owner").
		Field("since").Kind(typewire.KindBigInt).
		MustBuild(reg)
	account := dsl.Model("Account").
		Field("owner").Model(owner).
		MustBuild(reg)

	inst, err := account.Decode(ctx, map[string]any{
		"owner": map[string]any{"since": "1999"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ownerInst := mustGet(t, inst, "owner").(*typewire.Instance)
	ownerInst.Set("since", big.NewInt(2024))

	preserved, err := account.EncodePreserving(ctx, inst)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	since := preserved["owner"].(map[string]any)["since"]
	m, ok := since.(map[string]any)
	if !ok || m["value"] != "2024" {
		t.Fatalf("nested write masked by parent snapshot: %#v", since)
	}
}

func TestEncodeWithMode_SelectsMode(t *testing.T) {
	ctx := context.Background()
	reg := transform.NewRegistry()
	account := dsl.Model("Account").
		Field("balance").Kind(typewire.KindBigInt).
		MustBuild(reg)

	inst, err := account.Decode(ctx, map[string]any{"balance": "42"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wire, err := typewire.EncodeWithMode(ctx, account, inst, typewire.EncodePreserve)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if wire["balance"] != "42" {
		t.Fatalf("mode not honored: %#v", wire["balance"])
	}
}

func mustGet(t *testing.T, inst *typewire.Instance, path string) any {
	t.Helper()
	v, ok := inst.Get(path)
	if !ok {
		t.Fatalf("missing field %q", path)
	}
	return v
}
