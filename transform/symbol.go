package transform

import (
	"sync"

	typewire "github.com/typewire/typewire"
)

// Symbol is an interned unique value identified by its description: decoding
// the same description twice yields the same pointer.
type Symbol struct {
	description string
}

// Description returns the symbol's description.
func (s *Symbol) Description() string { return s.description }

func (s *Symbol) String() string { return "Symbol(" + s.description + ")" }

var (
	symMu   sync.Mutex
	symPool = map[string]*Symbol{}
)

// SymbolFor returns the interned symbol for description.
func SymbolFor(description string) *Symbol {
	symMu.Lock()
	defer symMu.Unlock()
	if s, ok := symPool[description]; ok {
		return s
	}
	s := &Symbol{description: description}
	symPool[description] = s
	return s
}

// symbolTransformer converts between *Symbol and the canonical
// {"type":"symbol","description":...} wire form. A bare description string
// also decodes; identity is preserved through the intern pool.
type symbolTransformer struct{}

func (symbolTransformer) Kind() typewire.Kind { return typewire.KindSymbol }

func (symbolTransformer) FromWire(v any) (any, error) {
	switch t := v.(type) {
	case *Symbol:
		return t, nil
	case string:
		return SymbolFor(t), nil
	case map[string]any:
		tag, m, ok := tagOf(t)
		if !ok || tag != "symbol" {
			return nil, conversionErr(typewire.KindSymbol, "expected symbol wire object")
		}
		desc, ok := m["description"].(string)
		if !ok {
			return nil, conversionErr(typewire.KindSymbol, "symbol description must be a string")
		}
		return SymbolFor(desc), nil
	default:
		return nil, conversionErr(typewire.KindSymbol, "cannot decode %T as symbol", v)
	}
}

func (symbolTransformer) ToWire(v any) (any, error) {
	s, ok := v.(*Symbol)
	if !ok {
		return nil, conversionErr(typewire.KindSymbol, "cannot encode %T as symbol", v)
	}
	return map[string]any{"type": "symbol", "description": s.description}, nil
}

func (symbolTransformer) RecognizeWire(v any) bool {
	tag, m, ok := tagOf(v)
	if !ok || tag != "symbol" {
		return false
	}
	_, ok = m["description"].(string)
	return ok
}

func (symbolTransformer) RecognizeNative(v any) bool {
	_, ok := v.(*Symbol)
	return ok
}
