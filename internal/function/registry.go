package function

import (
	"slices"
	"strings"
)

// Registry is the name-keyed catalog of scalar functions.
//
// Registration happens once during initialization; afterwards the
// registry is read-only and safe for concurrent lookups without locking.
type Registry struct {
	funcs map[string]Function
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Function)}
}

// NewDefaultRegistry creates a registry holding every built-in function.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, fn := range Builtins() {
		if err := r.Register(fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds fn under its upper-cased name.
// Returns DuplicateNameError if the name is taken.
func (r *Registry) Register(fn Function) error {
	key := strings.ToUpper(fn.Name())
	if _, exists := r.funcs[key]; exists {
		return &DuplicateNameError{Name: key}
	}
	r.funcs[key] = fn
	return nil
}

// Lookup finds a function by name (case-insensitive).
func (r *Registry) Lookup(name string) (Function, error) {
	fn, ok := r.funcs[strings.ToUpper(name)]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	return fn, nil
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.funcs)
}

// List returns name, signature and description of every function,
// sorted by name. Each call builds a fresh slice.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.funcs))
	for _, fn := range r.funcs {
		infos = append(infos, Info{
			Name:        fn.Name(),
			Signature:   fn.Signature(),
			Description: fn.Description(),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}
