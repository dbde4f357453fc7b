package ecs

// Store is the type-erased view of a ComponentManager that the Registry
// needs for whole-entity cleanup. Every *ComponentManager[T] satisfies it.
type Store interface {
	Contains(e Entity) bool
	Erase(e Entity)
	Len() int
	Clear()
}

var _ Store = (*ComponentManager[struct{}])(nil)

// Registry tracks all component stores and supports bulk cleanup on entity destroy.
type Registry struct {
	stores []Store
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Store, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store Store) {
	r.stores = append(r.stores, store)
}

// RemoveAll erases the given entity from every registered store.
func (r *Registry) RemoveAll(e Entity) {
	for _, s := range r.stores {
		s.Erase(e)
	}
}

// ClearAll empties every registered store.
func (r *Registry) ClearAll() {
	for _, s := range r.stores {
		s.Clear()
	}
}

// Components returns how many registered stores hold e.
func (r *Registry) Components(e Entity) int {
	n := 0
	for _, s := range r.stores {
		if s.Contains(e) {
			n++
		}
	}
	return n
}

func (r *Registry) Len() int { return len(r.stores) }
