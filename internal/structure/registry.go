package structure

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// Registry is a name-keyed store of one entity kind.
// Adding a name that already exists replaces the entry, unless the
// registry is strict, in which case the add fails with core.ErrDuplicateName.
type Registry[T any] struct {
	kind     string
	strict   bool
	items    map[string]T
	replaced int
}

// NewRegistry creates an empty registry for the named entity kind.
func NewRegistry[T any](kind string, strict bool) *Registry[T] {
	return &Registry[T]{kind: kind, strict: strict, items: make(map[string]T)}
}

// Put inserts or replaces an entry and reports whether it replaced one.
func (r *Registry[T]) Put(name string, v T) (replaced bool, err error) {
	if name == "" {
		return false, fmt.Errorf("%s: name is required", r.kind)
	}
	if _, exists := r.items[name]; exists {
		if r.strict {
			return false, fmt.Errorf("%s %q: %w", r.kind, name, core.ErrDuplicateName)
		}
		r.replaced++
		replaced = true
	}
	r.items[name] = v
	return replaced, nil
}

// Get returns the entry with the given name.
func (r *Registry[T]) Get(name string) (T, bool) {
	v, ok := r.items[name]
	return v, ok
}

// Has reports whether the name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.items[name]
	return ok
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int { return len(r.items) }

// Replaced returns how many adds replaced an existing entry.
func (r *Registry[T]) Replaced() int { return r.replaced }

// Names returns the registered names sorted.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns the underlying mapping. Callers must not mutate it.
func (r *Registry[T]) Map() map[string]T { return r.items }
