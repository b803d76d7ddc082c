package decode

import (
	"fmt"
	"slices"
	"sync"

	"github.com/katalvlaran/paramspace/expr"
)

// Factory constructs an object from decoded keyword arguments.
// It receives a fresh map it may keep.
type Factory func(kwargs map[string]any) (any, error)

// Registry maps class identities to factories. Packages defining decodable
// types register them at startup; decoders resolve through it.
//
// Registry is safe for concurrent use: mu guards classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[expr.ClassID]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[expr.ClassID]Factory)}
}

// Register binds id to f.
//
// Errors:
//   - expr.ErrEmptyClass if id has no name.
//   - ErrDuplicateClass if id is already bound.
func (r *Registry) Register(id expr.ClassID, f Factory) error {
	if f == nil {
		panic("decode: Register(nil factory)")
	}
	if id.Name == "" {
		return fmt.Errorf("Register: %w", expr.ErrEmptyClass)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.classes[id]; dup {
		return fmt.Errorf("Register(%s): %w", id, ErrDuplicateClass)
	}
	r.classes[id] = f

	return nil
}

// MustRegister is Register that panics on error; meant for init functions.
func (r *Registry) MustRegister(id expr.ClassID, f Factory) {
	if err := r.Register(id, f); err != nil {
		panic(err)
	}
}

// Resolve returns the factory bound to (module, name).
//
// Errors:
//   - ErrUnresolvedClass naming "module.name" when nothing is bound.
func (r *Registry) Resolve(module, name string) (Factory, error) {
	id := expr.ClassID{Module: module, Name: name}

	r.mu.RLock()
	f, ok := r.classes[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("decode: class %q: %w", id.String(), ErrUnresolvedClass)
	}
	return f, nil
}

// Classes returns the registered identities sorted by their string form.
func (r *Registry) Classes() []expr.ClassID {
	r.mu.RLock()
	out := make([]expr.ClassID, 0, len(r.classes))
	for id := range r.classes {
		out = append(out, id)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b expr.ClassID) int {
		switch as, bs := a.String(), b.String(); {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	})
	return out
}

// defaultRegistry backs the package-level Register functions.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by package-level helpers
// and by decoders created with a nil registry.
func Default() *Registry { return defaultRegistry }

// Register binds id to f in the default registry.
func Register(id expr.ClassID, f Factory) error { return defaultRegistry.Register(id, f) }

// MustRegister binds id to f in the default registry, panicking on error.
func MustRegister(id expr.ClassID, f Factory) { defaultRegistry.MustRegister(id, f) }
