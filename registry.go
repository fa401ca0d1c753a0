package typewire

import (
	"fmt"
	"sync"
)

// Transformer is a pure, bidirectional converter between a native typed value
// and its wire-safe representation.
//
// Laws every implementation must honor:
//   - round trip: FromWire(ToWire(v)) == v for all v in the native domain;
//   - idempotence: FromWire(v) == v when v is already native.
type Transformer interface {
	// Kind returns the key this transformer registers under.
	Kind() Kind
	// FromWire converts a wire value into the native representation. It must
	// accept every listed legacy input form for its kind and return the input
	// unchanged when it is already native.
	FromWire(v any) (any, error)
	// ToWire converts a native value into the canonical wire form.
	ToWire(v any) (any, error)
	// RecognizeWire reports whether v carries this transformer's own tagged
	// wire shape. It backs shape-based fallback for fields the schema omits,
	// so it must only claim self-describing shapes, never bare primitives.
	RecognizeWire(v any) bool
	// RecognizeNative reports whether v is this transformer's decoded
	// representation. The encode side mirrors RecognizeWire with it.
	RecognizeNative(v any) bool
}

// Registry maps Kinds to Transformers. It is populated during start-up and
// read-only thereafter in realistic call patterns; the lock makes concurrent
// registration safe anyway.
//
// Registration order doubles as the shape-recognition scan order, so when two
// transformers would recognize the same wire shape the earlier registration
// wins deterministically.
type Registry struct {
	mu     sync.RWMutex
	byKind map[Kind]Transformer
	order  []Kind
}

// NewRegistry returns an empty registry. transform.NewRegistry returns one
// with every built-in pre-registered.
func NewRegistry() *Registry {
	return &Registry{byKind: map[Kind]Transformer{}}
}

// Register adds t under its Kind. Registering an already-present Kind is a
// static registration error; use Override to replace deliberately.
func (r *Registry) Register(t Transformer) error {
	if t == nil {
		return singleIssue(CodeRegistrationInvalidField, "nil transformer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := t.Kind()
	if _, dup := r.byKind[k]; dup {
		return Issues{Issue{
			Path:    "/",
			Code:    CodeRegistrationDuplicate,
			Message: fmt.Sprintf("transformer kind %q already registered", k),
		}}
	}
	r.byKind[k] = t
	r.order = append(r.order, k)
	return nil
}

// MustRegister panics on a duplicate Kind. Intended for start-up wiring.
func (r *Registry) MustRegister(t Transformer) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Override replaces (or adds) the transformer for t.Kind(). A replaced
// transformer keeps its original position in the recognition scan order.
func (r *Registry) Override(t Transformer) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := t.Kind()
	if _, exists := r.byKind[k]; !exists {
		r.order = append(r.order, k)
	}
	r.byKind[k] = t
}

// Unregister removes the transformer for k, reporting whether one was present.
func (r *Registry) Unregister(k Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKind[k]; !exists {
		return false
	}
	delete(r.byKind, k)
	for i, ok := range r.order {
		if ok == k {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the transformer registered under k.
func (r *Registry) Lookup(k Kind) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byKind[k]
	return t, ok
}

// Kinds lists registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// RecognizeWire scans registered transformers in registration order and
// returns the first whose tagged wire shape matches v.
func (r *Registry) RecognizeWire(v any) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range r.order {
		if t := r.byKind[k]; t != nil && t.RecognizeWire(v) {
			return t, true
		}
	}
	return nil, false
}

// RecognizeNative scans registered transformers in registration order and
// returns the first that owns v's native representation.
func (r *Registry) RecognizeNative(v any) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range r.order {
		if t := r.byKind[k]; t != nil && t.RecognizeNative(v) {
			return t, true
		}
	}
	return nil, false
}
