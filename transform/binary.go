package transform

import (
	typewire "github.com/typewire/typewire"
)

// binaryTransformer converts between []byte and a flat array of byte
// integers (0-255). The array form carries no type marker, so the shape is
// never claimed for fallback inference; only an explicit descriptor reaches
// this transformer.
type binaryTransformer struct{}

func (binaryTransformer) Kind() typewire.Kind { return typewire.KindBinary }

func (binaryTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case []any:
		out := make([]byte, len(t))
		for i, el := range t {
			n, ok := asInt64(el)
			if !ok || n < 0 || n > 255 {
				return nil, conversionErr(typewire.KindBinary, "element %d is not a byte integer", i)
			}
			out[i] = byte(n)
		}
		return out, nil
	default:
		return nil, conversionErr(typewire.KindBinary, "cannot decode %T as binary buffer", v)
	}
}

func (binaryTransformer) ToWire(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, conversionErr(typewire.KindBinary, "cannot encode %T as binary buffer", v)
	}
	out := make([]any, len(b))
	for i, by := range b {
		out[i] = int(by)
	}
	return out, nil
}

func (binaryTransformer) RecognizeWire(v any) bool { return false }

func (binaryTransformer) RecognizeNative(v any) bool {
	_, ok := v.([]byte)
	return ok
}
