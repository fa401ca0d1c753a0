package transform

import (
	"regexp"
	"strings"

	typewire "github.com/typewire/typewire"
)

// Pattern is the native representation of a pattern matcher: source and flags
// kept verbatim so they round-trip bit-exactly regardless of which flags the
// local regexp engine supports.
type Pattern struct {
	Source string
	Flags  string
}

// String renders the /source/flags form.
func (p Pattern) String() string { return "/" + p.Source + "/" + p.Flags }

// Compile builds a Go regexp, mapping the i, m and s flags to inline
// equivalents. Flags with no Go counterpart (g, u, y) are ignored.
func (p Pattern) Compile() (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range p.Flags {
		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		}
	}
	src := p.Source
	if inline.Len() > 0 {
		src = "(?" + inline.String() + ")" + src
	}
	return regexp.Compile(src)
}

// regexpTransformer converts between Pattern and the canonical
// {"type":"regexp","source":...,"flags":...} wire form. "/source/flags" and
// bare source strings also decode; output converges on the object form only.
type regexpTransformer struct{}

func (regexpTransformer) Kind() typewire.Kind { return typewire.KindPattern }

func (regexpTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case Pattern:
		return t, nil
	case *regexp.Regexp:
		return Pattern{Source: t.String()}, nil
	case string:
		return parsePatternString(t), nil
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok || tag != "regexp" {
			return nil, conversionErr(typewire.KindPattern, "expected regexp wire object")
		}
		src, ok := m["source"].(string)
		if !ok {
			return nil, conversionErr(typewire.KindPattern, "regexp source must be a string")
		}
		flags, _ := m["flags"].(string)
		return Pattern{Source: src, Flags: flags}, nil
	default:
		return nil, conversionErr(typewire.KindPattern, "cannot decode %T as regexp", v)
	}
}

func (regexpTransformer) ToWire(v any) (any, error) {
	p, ok := v.(Pattern)
	if !ok {
		if re, isRe := v.(*regexp.Regexp); isRe {
			p = Pattern{Source: re.String()}
		} else {
			return nil, conversionErr(typewire.KindPattern, "cannot encode %T as regexp", v)
		}
	}
	return map[string]any{"type": "regexp", "source": p.Source, "flags": p.Flags}, nil
}

func (regexpTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok || tag != "regexp" {
		return false
	}
	_, ok = m["source"].(string)
	return ok
}

func (regexpTransformer) RecognizeNative(v any) bool {
	switch v.(type) {
	case Pattern, *regexp.Regexp:
		return true
	default:
		return false
	}
}

// parsePatternString accepts "/source/flags" and bare source strings.
func parsePatternString(s string) Pattern {
	if len(s) >= 2 && s[0] == '/' {
		if i := strings.LastIndexByte(s[1:], '/'); i >= 0 {
			return Pattern{Source: s[1 : 1+i], Flags: s[i+2:]}
		}
	}
	return Pattern{Source: s}
}
