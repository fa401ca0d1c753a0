package transform

import (
	"math/big"

	json "github.com/goccy/go-json"

	typewire "github.com/typewire/typewire"
)

// bigintTransformer converts between *big.Int and the canonical
// {"type":"bigint","value":"<decimal digits>"} wire form. A bare decimal
// string (and the textual number a UseNumber decode yields) also decodes.
type bigintTransformer struct{}

func (bigintTransformer) Kind() typewire.Kind { return typewire.KindBigInt }

func (bigintTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *big.Int:
		return t, nil
	case string:
		return parseBigInt(t)
	case json.Number:
		return parseBigInt(t.String())
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok || tag != "bigint" {
			return nil, conversionErr(typewire.KindBigInt, "expected bigint wire object")
		}
		s, ok := m["value"].(string)
		if !ok {
			return nil, conversionErr(typewire.KindBigInt, "bigint value must be a decimal string")
		}
		return parseBigInt(s)
	default:
		return nil, conversionErr(typewire.KindBigInt, "cannot decode %T as bigint", v)
	}
}

func (bigintTransformer) ToWire(v any) (any, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, conversionErr(typewire.KindBigInt, "cannot encode %T as bigint", v)
	}
	return map[string]any{"type": "bigint", "value": n.String()}, nil
}

func (bigintTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok || tag != "bigint" {
		return false
	}
	_, ok = m["value"].(string)
	return ok
}

func (bigintTransformer) RecognizeNative(v any) bool {
	_, ok := v.(*big.Int)
	return ok
}

func parseBigInt(s string) (any, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, conversionErr(typewire.KindBigInt, "non-numeric text %q", s)
	}
	return n, nil
}
