package transform

import (
	"strings"

	typewire "github.com/typewire/typewire"
)

// numberArrayElems lists the element kinds a typed number array may carry.
// The wire "type" marker is the element kind plus the "Array" suffix.
var numberArrayElems = map[string]bool{
	"Int8": true, "Uint8": true, "Int16": true, "Uint16": true,
	"Int32": true, "Uint32": true, "Float32": true, "Float64": true,
}

// NumberArray is the native representation of a typed number array: the
// element kind plus the values widened to float64.
type NumberArray struct {
	Elem   string
	Values []float64
}

func integerElem(elem string) bool {
	return !strings.HasPrefix(elem, "Float")
}

// numberArrayTransformer converts between *NumberArray and the canonical
// {"type":"<Elem>Array","values":[...]} wire form.
type numberArrayTransformer struct{}

func (numberArrayTransformer) Kind() typewire.Kind { return typewire.KindNumberArray }

func (numberArrayTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *NumberArray:
		return t, nil
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok {
			return nil, conversionErr(typewire.KindNumberArray, "expected typed array wire object")
		}
		elem, ok := strings.CutSuffix(tag, "Array")
		if !ok || !numberArrayElems[elem] {
			return nil, conversionErr(typewire.KindNumberArray, "unknown typed array %q", tag)
		}
		raw, ok := m["values"].([]any)
		if !ok {
			return nil, conversionErr(typewire.KindNumberArray, "typed array values must be an array")
		}
		values := make([]float64, len(raw))
		for i, el := range raw {
			f, ok := asFloat64(el)
			if !ok {
				return nil, conversionErr(typewire.KindNumberArray, "element %d is not numeric", i)
			}
			values[i] = f
		}
		return &NumberArray{Elem: elem, Values: values}, nil
	default:
		return nil, conversionErr(typewire.KindNumberArray, "cannot decode %T as typed array", v)
	}
}

func (numberArrayTransformer) ToWire(v any) (any, error) {
	na, ok := v.(*NumberArray)
	if !ok {
		return nil, conversionErr(typewire.KindNumberArray, "cannot encode %T as typed array", v)
	}
	if !numberArrayElems[na.Elem] {
		return nil, conversionErr(typewire.KindNumberArray, "unknown element kind %q", na.Elem)
	}
	values := make([]any, len(na.Values))
	for i, f := range na.Values {
		if integerElem(na.Elem) {
			values[i] = int64(f)
		} else {
			values[i] = f
		}
	}
	return map[string]any{"type": na.Elem + "Array", "values": values}, nil
}

func (numberArrayTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok {
		return false
	}
	elem, ok := strings.CutSuffix(tag, "Array")
	if !ok || !numberArrayElems[elem] {
		return false
	}
	_, ok = m["values"].([]any)
	return ok
}

func (numberArrayTransformer) RecognizeNative(v any) bool {
	_, ok := v.(*NumberArray)
	return ok
}
