package ecs

// Record pairs a dense slot of a ComponentManager with its owning entity.
// It holds only the manager handle and the slot index; the entity is read
// from the parallel entity array on demand and so cannot drift from the
// component's position.
//
// A Record names a position, not an element: after Swap it refers to
// whatever now occupies its slot. It is valid until the next structural
// mutation of its manager.
type Record[T any] struct {
	m     *ComponentManager[T]
	index int
}

func (r Record[T]) GetComponent() *T {
	r.check()
	return &r.m.components[r.index]
}

func (r Record[T]) GetEntity() Entity {
	r.check()
	return r.m.entities[r.index]
}

func (r Record[T]) Index() int { return r.index }

func (r Record[T]) Manager() *ComponentManager[T] { return r.m }

// Swap exchanges the elements at r and other. Both records must belong to
// the same manager.
func (r Record[T]) Swap(other Record[T]) {
	assertf(r.m != nil && r.m == other.m, "swap of records from different managers")
	r.m.swapComponents(r.index, other.index)
}

func (r Record[T]) check() {
	assertf(r.m != nil, "record without manager")
	assertf(r.index >= 0 && r.index < len(r.m.components),
		"record index %d with size %d", r.index, len(r.m.components))
}
