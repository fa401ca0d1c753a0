package transform

import (
	"strings"

	typewire "github.com/typewire/typewire"
)

// ErrorValue is the native representation of a wire error object. The wire
// form "<Name>: <message>" is lossy: no stack trace survives the trip.
type ErrorValue struct {
	Name    string
	Message string
}

// Error renders the canonical "<Name>: <message>" form.
func (e *ErrorValue) Error() string { return e.Name + ": " + e.Message }

// errorTransformer converts between *ErrorValue and the "<Name>: <message>"
// string. Arbitrary error values encode under the generic "Error" name. The
// string form carries no marker, so fallback inference never claims it.
type errorTransformer struct{}

func (errorTransformer) Kind() typewire.Kind { return typewire.KindError }

func (errorTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *ErrorValue:
		return t, nil
	case string:
		name, msg, found := strings.Cut(t, ": ")
		if !found {
			return &ErrorValue{Name: "Error", Message: t}, nil
		}
		return &ErrorValue{Name: name, Message: msg}, nil
	default:
		return nil, conversionErr(typewire.KindError, "cannot decode %T as error object", v)
	}
}

func (errorTransformer) ToWire(v any) (any, error) {
	switch t := v.(type) {
	case *ErrorValue:
		return t.Error(), nil
	case error:
		return "Error: " + t.Error(), nil
	default:
		return nil, conversionErr(typewire.KindError, "cannot encode %T as error object", v)
	}
}

func (errorTransformer) RecognizeWire(v any) bool { return false }

func (errorTransformer) RecognizeNative(v any) bool {
	switch v.(type) {
	case *ErrorValue, error:
		return v != nil
	default:
		return false
	}
}
