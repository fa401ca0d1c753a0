package typewire

// Kind names a registered transformer. Built-in kinds cover every wire shape
// with no native JSON form; custom transformers register under their own Kind.
type Kind string

const (
	KindBigInt      Kind = "bigint"
	KindTime        Kind = "time"
	KindPattern     Kind = "regexp"
	KindSymbol      Kind = "symbol"
	KindSet         Kind = "set"
	KindMap         Kind = "map"
	KindBinary      Kind = "binary"
	KindError       Kind = "error"
	KindNumberArray Kind = "typedarray"
	KindURL         Kind = "url"
	KindURLQuery    Kind = "urlquery"
)

// NullElementPolicy decides what happens to null or non-object array elements
// under a nested-model leaf during decode.
type NullElementPolicy int

const (
	// FilterNullElements drops such elements before model construction. This
	// changes list length and is the compatible default.
	FilterNullElements NullElementPolicy = iota
	// PreserveNullElements keeps a positional nil placeholder instead, so
	// index-based callers see the original length.
	PreserveNullElements
)

// DecodeOpt bundles per-call decode options.
type DecodeOpt struct {
	NullElements NullElementPolicy
	// DisableInference turns off shape-based fallback for fields the schema
	// omits; such fields pass through verbatim. Explicit descriptors are
	// unaffected.
	DisableInference bool
	FailFast         bool
}

// EncodeMode exposes canonical vs preserving output intent at call sites.
type EncodeMode int

const (
	// EncodeCanonical always emits the canonical wire form of every field.
	EncodeCanonical EncodeMode = iota
	// EncodePreserve re-emits the frozen decode-time snapshot for fields that
	// were never explicitly written, recovering wrapper-vs-bare input nuance.
	EncodePreserve
)

// EncodeOpt bundles per-call encode options.
type EncodeOpt struct {
	Mode EncodeMode
}

func lastDecodeOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}

func lastEncodeOpt(opts []EncodeOpt) EncodeOpt {
	if len(opts) == 0 {
		return EncodeOpt{}
	}
	return opts[len(opts)-1]
}
