package typewire

// Package typewire converts between a JSON-compatible wire representation and
// richly typed in-memory model instances:
//
// - A Transformer registry of bidirectional converters for values with no
//   native JSON form (big integers, timestamps, patterns, symbols, ordered
//   sets and maps, binary buffers, error values, typed number arrays, URLs).
// - A per-model field-descriptor table (dotted paths, array nesting depth,
//   nested model references, discriminated unions).
// - A recursive coercion engine that walks descriptor tables in both
//   directions, with shape-based fallback for fields the schema omits.
// - A stable error model via Issues (JSON Pointer, code, message).
//
// Design policy:
// - Keep only public APIs in the root package; builders live under dsl/ and
//   built-in transformers under transform/.
// - Registries and model types are explicit values injected at call sites,
//   never ambient singletons.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  reg := transform.NewRegistry()
//  account := dsl.Model("Account").
//      Field("balance").Kind(typewire.KindBigInt).
//      Field("createdAt").Kind(typewire.KindTime).
//      MustBuild(reg)
//
//  inst, err := typewire.DecodeJSON(ctx, account, data)
//  wire, err := account.Encode(ctx, inst)
