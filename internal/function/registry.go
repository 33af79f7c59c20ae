package function

import "fmt"

// Registry maps identifiers to Functions. It is built once at startup
// and read-only afterwards, so concurrent compilations share it
// without locking.
type Registry struct {
	byIdent map[string]Function
	ordered []Function
}

// NewRegistry builds a registry, rejecting duplicate identifiers and
// degenerate parameter declarations up front.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{byIdent: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		ident := fn.Identifier()
		if _, ok := r.byIdent[ident]; ok {
			return nil, fmt.Errorf("duplicate function identifier %q", ident)
		}
		seen := make(map[string]bool)
		for _, p := range fn.Parameters() {
			if p.Keyword == "" {
				return nil, fmt.Errorf("function %q declares an unnamed parameter", ident)
			}
			if p.Kinds == 0 {
				return nil, fmt.Errorf("function %q parameter `%s` accepts no kinds", ident, p.Keyword)
			}
			if seen[p.Keyword] {
				return nil, fmt.Errorf("function %q declares parameter `%s` twice", ident, p.Keyword)
			}
			seen[p.Keyword] = true
		}
		r.byIdent[ident] = fn
		r.ordered = append(r.ordered, fn)
	}
	return r, nil
}

// MustRegistry is NewRegistry for statically known function lists,
// where a bad declaration is a programming error.
func MustRegistry(fns ...Function) *Registry {
	r, err := NewRegistry(fns...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the function registered under ident.
func (r *Registry) Lookup(ident string) (Function, bool) {
	fn, ok := r.byIdent[ident]
	return fn, ok
}

// Functions returns every registered function in registration order.
// The native dispatch table is generated from this list, so the two
// backends always see the same catalog.
func (r *Registry) Functions() []Function {
	return r.ordered
}
