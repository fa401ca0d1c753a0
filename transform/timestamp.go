package transform

import (
	"regexp"
	"time"

	typewire "github.com/typewire/typewire"
)

// wireTimeLayout is the canonical point-in-time encoding: ISO-8601 extended,
// millisecond precision, Z suffix.
const wireTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// isoTimePattern recognizes ISO-8601 extended timestamp strings, the only
// wire shape a point in time has. It is deliberately strict so shape-based
// fallback does not claim ordinary strings.
var isoTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// timeTransformer converts between time.Time and the canonical millisecond
// ISO-8601 string. Any RFC3339 precision decodes.
type timeTransformer struct{}

func (timeTransformer) Kind() typewire.Kind { return typewire.KindTime }

func (timeTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return nil, conversionErr(typewire.KindTime, "invalid timestamp %q", t)
		}
		return ts, nil
	default:
		return nil, conversionErr(typewire.KindTime, "cannot decode %T as timestamp", v)
	}
}

func (timeTransformer) ToWire(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, conversionErr(typewire.KindTime, "cannot encode %T as timestamp", v)
	}
	return t.UTC().Format(wireTimeLayout), nil
}

func (timeTransformer) RecognizeWire(v any) bool {
	s, ok := v.(string)
	return ok && isoTimePattern.MatchString(s)
}

func (timeTransformer) RecognizeNative(v any) bool {
	_, ok := v.(time.Time)
	return ok
}
