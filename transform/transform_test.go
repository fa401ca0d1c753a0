package transform_test

import (
	"math/big"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	typewire "github.com/typewire/typewire"
	"github.com/typewire/typewire/transform"
)

func lookup(t *testing.T, kind typewire.Kind) typewire.Transformer {
	t.Helper()
	tr, ok := transform.NewRegistry().Lookup(kind)
	require.True(t, ok, "built-in %q must be registered", kind)
	return tr
}

// Round-trip law: FromWire(ToWire(v)) == v for every built-in.
func TestBuiltins_RoundTrip(t *testing.T) {
	cases := []struct {
		kind   typewire.Kind
		native any
	}{
		{typewire.KindBigInt, mustBigInt("999999999999999999")},
		{typewire.KindTime, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{typewire.KindPattern, transform.Pattern{Source: "^a+$", Flags: "i"}},
		{typewire.KindSymbol, transform.SymbolFor("answer")},
		{typewire.KindSet, transform.NewSet("a", "b", "c")},
		{typewire.KindMap, transform.NewMap(
			transform.MapEntry{Key: "k1", Value: "v1"},
			transform.MapEntry{Key: "k2", Value: "v2"},
		)},
		{typewire.KindBinary, []byte{0, 127, 255}},
		{typewire.KindError, &transform.ErrorValue{Name: "RangeError", Message: "out of bounds"}},
		{typewire.KindNumberArray, &transform.NumberArray{Elem: "Float64", Values: []float64{1.5, -2.25}}},
		{typewire.KindURL, mustURL("https://example.com/a?b=1")},
		{typewire.KindURLQuery, url.Values{"a": {"1"}, "b": {"2"}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			tr := lookup(t, tc.kind)
			wire, err := tr.ToWire(tc.native)
			require.NoError(t, err)
			back, err := tr.FromWire(wire)
			require.NoError(t, err)
			assert.Equal(t, tc.native, back)
		})
	}
}

// Idempotence law: FromWire returns an already-native value unchanged.
func TestBuiltins_IdempotentDecode(t *testing.T) {
	natives := map[typewire.Kind]any{
		typewire.KindBigInt:      mustBigInt("42"),
		typewire.KindTime:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		typewire.KindPattern:     transform.Pattern{Source: "x"},
		typewire.KindSymbol:      transform.SymbolFor("idem"),
		typewire.KindSet:         transform.NewSet(1, 2),
		typewire.KindMap:         transform.NewMap(transform.MapEntry{Key: "a", Value: 1}),
		typewire.KindBinary:      []byte{1, 2, 3},
		typewire.KindError:       &transform.ErrorValue{Name: "Error", Message: "boom"},
		typewire.KindNumberArray: &transform.NumberArray{Elem: "Int32", Values: []float64{7}},
		typewire.KindURL:         mustURL("https://example.com"),
		typewire.KindURLQuery:    url.Values{"q": {"x"}},
	}
	for kind, v := range natives {
		t.Run(string(kind), func(t *testing.T) {
			tr := lookup(t, kind)
			require.True(t, tr.RecognizeNative(v))
			back, err := tr.FromWire(v)
			require.NoError(t, err)
			assert.Equal(t, v, back)
		})
	}
}

func TestBigInt_LegacyAndCanonicalForms(t *testing.T) {
	tr := lookup(t, typewire.KindBigInt)

	v, err := tr.FromWire("999999999999999999")
	require.NoError(t, err)
	assert.Zero(t, v.(*big.Int).Cmp(mustBigInt("999999999999999999")))

	v, err = tr.FromWire(map[string]any{"type": "bigint", "value": "-7"})
	require.NoError(t, err)
	assert.Zero(t, v.(*big.Int).Cmp(big.NewInt(-7)))

	_, err = tr.FromWire("not-a-number")
	require.Error(t, err)
	assert.True(t, typewire.IsConversionError(err))

	wire, err := tr.ToWire(mustBigInt("999999999999999999"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "bigint", "value": "999999999999999999"}, wire)
}

func TestTime_CanonicalMillisecondsZ(t *testing.T) {
	tr := lookup(t, typewire.KindTime)

	v, err := tr.FromWire("2024-01-01T00:00:00.000Z")
	require.NoError(t, err)
	wire, err := tr.ToWire(v)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", wire)

	// non-UTC input converges on the Z-suffixed canonical form
	v, err = tr.FromWire("2024-01-01T09:30:00+09:00")
	require.NoError(t, err)
	wire, err = tr.ToWire(v)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:30:00.000Z", wire)

	_, err = tr.FromWire("yesterday")
	assert.True(t, typewire.IsConversionError(err))
}

func TestPattern_AcceptsThreeInputForms(t *testing.T) {
	tr := lookup(t, typewire.KindPattern)

	for _, in := range []any{
		map[string]any{"type": "regexp", "source": "a+", "flags": "i"},
		"/a+/i",
	} {
		v, err := tr.FromWire(in)
		require.NoError(t, err)
		assert.Equal(t, transform.Pattern{Source: "a+", Flags: "i"}, v)
	}

	v, err := tr.FromWire("a+")
	require.NoError(t, err)
	assert.Equal(t, transform.Pattern{Source: "a+"}, v)

	re, err := v.(transform.Pattern).Compile()
	require.NoError(t, err)
	assert.True(t, re.MatchString("aaa"))
}

func TestSymbol_InternedIdentity(t *testing.T) {
	tr := lookup(t, typewire.KindSymbol)

	a, err := tr.FromWire(map[string]any{"type": "symbol", "description": "id"})
	require.NoError(t, err)
	b, err := tr.FromWire("id")
	require.NoError(t, err)
	assert.Same(t, a, b, "same description must decode to the same identity")
}

func TestSet_OrderPreservedAndUnique(t *testing.T) {
	tr := lookup(t, typewire.KindSet)

	v, err := tr.FromWire([]any{"b", "a", "b", "c"})
	require.NoError(t, err)
	s := v.(*transform.Set)
	assert.Equal(t, []any{"b", "a", "c"}, s.Values())

	wire, err := tr.ToWire(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "Set", "values": []any{"b", "a", "c"}}, wire)
}

func TestMap_OrderPreserved(t *testing.T) {
	tr := lookup(t, typewire.KindMap)

	v, err := tr.FromWire([]any{[]any{"z", 1}, []any{"a", 2}})
	require.NoError(t, err)
	m := v.(*transform.Map)
	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "z", entries[0].Key)
	assert.Equal(t, "a", entries[1].Key)

	_, err = tr.FromWire([]any{[]any{"only-key"}})
	assert.True(t, typewire.IsConversionError(err))
}

func TestBinary_RejectsOutOfRange(t *testing.T) {
	tr := lookup(t, typewire.KindBinary)

	_, err := tr.FromWire([]any{float64(0), float64(256)})
	assert.True(t, typewire.IsConversionError(err))

	v, err := tr.FromWire([]any{float64(1), float64(2)})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)
}

func TestError_LossyStringForm(t *testing.T) {
	tr := lookup(t, typewire.KindError)

	v, err := tr.FromWire("RangeError: out of bounds")
	require.NoError(t, err)
	assert.Equal(t, &transform.ErrorValue{Name: "RangeError", Message: "out of bounds"}, v)

	v, err = tr.FromWire("no separator here")
	require.NoError(t, err)
	assert.Equal(t, "Error", v.(*transform.ErrorValue).Name)
}

func TestNumberArray_UnknownElemFails(t *testing.T) {
	tr := lookup(t, typewire.KindNumberArray)

	_, err := tr.FromWire(map[string]any{"type": "ComplexArray", "values": []any{}})
	assert.True(t, typewire.IsConversionError(err))

	v, err := tr.FromWire(map[string]any{"type": "Int16Array", "values": []any{float64(3), float64(-4)}})
	require.NoError(t, err)
	assert.Equal(t, &transform.NumberArray{Elem: "Int16", Values: []float64{3, -4}}, v)
}

func TestRecognizeWire_OnlyTaggedShapes(t *testing.T) {
	reg := transform.NewRegistry()

	tagged := []any{
		map[string]any{"type": "bigint", "value": "1"},
		map[string]any{"type": "regexp", "source": "a"},
		map[string]any{"type": "symbol", "description": "d"},
		map[string]any{"type": "Set", "values": []any{}},
		map[string]any{"type": "Map", "entries": []any{}},
		map[string]any{"type": "Float64Array", "values": []any{}},
		map[string]any{"type": "URLSearchParams", "value": "a=1"},
		"2024-01-01T00:00:00.000Z", // the one self-describing string shape
	}
	for _, v := range tagged {
		_, ok := reg.RecognizeWire(v)
		assert.True(t, ok, "expected recognition for %#v", v)
	}

	plain := []any{"hello", float64(3), []any{1, 2}, map[string]any{"a": 1}}
	for _, v := range plain {
		_, ok := reg.RecognizeWire(v)
		assert.False(t, ok, "unexpected recognition for %#v", v)
	}
}

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad bigint literal " + s)
	}
	return n
}

func mustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}
