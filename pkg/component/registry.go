package component

import (
	"sort"
	"sync"

	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Registry maps component names to kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]shadow.Kind
}

// NewRegistry returns a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]shadow.Kind)}
	for _, k := range []shadow.Kind{ViewKind, ScrollViewKind, TextKind, ImageKind, RootKind} {
		r.kinds[k.Name()] = k
	}
	return r
}

// Register adds kind under its name, replacing any kind of the same name.
func (r *Registry) Register(kind shadow.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind.Name()] = kind
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (shadow.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds kind to the default registry.
func Register(kind shadow.Kind) { defaultRegistry.Register(kind) }

// Lookup finds a kind in the default registry.
func Lookup(name string) (shadow.Kind, bool) { return defaultRegistry.Lookup(name) }

// Names lists the default registry's component names.
func Names() []string { return defaultRegistry.Names() }

// Default returns the default registry.
func Default() *Registry { return defaultRegistry }
