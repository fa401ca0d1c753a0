package typewire

import (
	"fmt"
	"sort"
	"sync"
)

// TypeSet is a named collection of registered model types. Like the
// transformer registry it is populated during start-up and read thereafter;
// the lock guards against registration racing with use.
//
// Registering the same name twice is an error rather than a silent overwrite:
// descriptor tables are immutable after first build, and a second build for
// the same type almost always indicates double initialization.
type TypeSet struct {
	mu    sync.RWMutex
	types map[string]*ModelType
}

// NewTypeSet returns an empty type set.
func NewTypeSet() *TypeSet {
	return &TypeSet{types: map[string]*ModelType{}}
}

// Register adds mt under its name, failing on re-registration.
func (ts *TypeSet) Register(mt *ModelType) error {
	if mt == nil {
		return singleIssue(CodeRegistrationInvalidField, "nil model type")
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, dup := ts.types[mt.name]; dup {
		return Issues{Issue{
			Path:    "/",
			Code:    CodeRegistrationDuplicate,
			Message: fmt.Sprintf("model type %q already registered", mt.name),
		}}
	}
	ts.types[mt.name] = mt
	return nil
}

// MustRegister panics on re-registration. Intended for start-up wiring.
func (ts *TypeSet) MustRegister(mt *ModelType) {
	if err := ts.Register(mt); err != nil {
		panic(err)
	}
}

// Lookup returns the model type registered under name.
func (ts *TypeSet) Lookup(name string) (*ModelType, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	mt, ok := ts.types[name]
	return mt, ok
}

// Names lists registered type names in ascending order.
func (ts *TypeSet) Names() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make([]string, 0, len(ts.types))
	for n := range ts.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
