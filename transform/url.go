package transform

import (
	"net/url"

	typewire "github.com/typewire/typewire"
)

// urlTransformer converts between *url.URL and its string form. A bare
// string is ambiguous, so fallback inference never claims it; only explicit
// descriptors reach this transformer.
type urlTransformer struct{}

func (urlTransformer) Kind() typewire.Kind { return typewire.KindURL }

func (urlTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *url.URL:
		return t, nil
	case string:
		u, err := url.Parse(t)
		if err != nil {
			return nil, conversionErr(typewire.KindURL, "invalid URL %q", t)
		}
		return u, nil
	default:
		return nil, conversionErr(typewire.KindURL, "cannot decode %T as URL", v)
	}
}

func (urlTransformer) ToWire(v any) (any, error) {
	u, ok := v.(*url.URL)
	if !ok {
		return nil, conversionErr(typewire.KindURL, "cannot encode %T as URL", v)
	}
	return u.String(), nil
}

func (urlTransformer) RecognizeWire(v any) bool { return false }

func (urlTransformer) RecognizeNative(v any) bool {
	_, ok := v.(*url.URL)
	return ok
}

// urlQueryTransformer converts between url.Values and the canonical
// {"type":"URLSearchParams","value":"a=1&b=2"} wire form. A bare query
// string also decodes. Canonical output uses Encode(), which sorts keys.
type urlQueryTransformer struct{}

func (urlQueryTransformer) Kind() typewire.Kind { return typewire.KindURLQuery }

func (urlQueryTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case url.Values:
		return t, nil
	case string:
		return parseQuery(t)
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok || tag != "URLSearchParams" {
			return nil, conversionErr(typewire.KindURLQuery, "expected URLSearchParams wire object")
		}
		s, ok := m["value"].(string)
		if !ok {
			return nil, conversionErr(typewire.KindURLQuery, "URLSearchParams value must be a string")
		}
		return parseQuery(s)
	default:
		return nil, conversionErr(typewire.KindURLQuery, "cannot decode %T as URLSearchParams", v)
	}
}

func (urlQueryTransformer) ToWire(v any) (any, error) {
	q, ok := v.(url.Values)
	if !ok {
		return nil, conversionErr(typewire.KindURLQuery, "cannot encode %T as URLSearchParams", v)
	}
	return map[string]any{"type": "URLSearchParams", "value": q.Encode()}, nil
}

func (urlQueryTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok || tag != "URLSearchParams" {
		return false
	}
	_, ok = m["value"].(string)
	return ok
}

func (urlQueryTransformer) RecognizeNative(v any) bool {
	_, ok := v.(url.Values)
	return ok
}

func parseQuery(s string) (any, error) {
	q, err := url.ParseQuery(s)
	if err != nil {
		return nil, conversionErr(typewire.KindURLQuery, "invalid query string %q", s)
	}
	return q, nil
}
