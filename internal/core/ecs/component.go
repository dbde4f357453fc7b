package ecs

import (
	"fmt"
	"iter"
	"math"
	"sort"
	"unsafe"
)

// ComponentManager stores components of type T keyed by Entity as a sparse
// set: a dense component slice, a parallel dense entity slice and a map from
// entity to dense index. Lookup, insertion and removal are O(1) on average
// and iteration walks contiguous memory.
//
// Removal swaps the victim with the last element, so physical order equals
// insertion order only until the first Erase. Any structural mutation
// invalidates pointers, Records and RecordIterators obtained before it.
//
// The zero value is an empty manager ready to use. Not safe for concurrent use.
type ComponentManager[T any] struct {
	components []T
	entities   []Entity
	mapping    map[Entity]int
}

func NewComponentManager[T any](capacity int) *ComponentManager[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &ComponentManager[T]{
		components: make([]T, 0, capacity),
		entities:   make([]Entity, 0, capacity),
		mapping:    make(map[Entity]int, capacity),
	}
}

func (m *ComponentManager[T]) Contains(e Entity) bool {
	_, ok := m.mapping[e]
	return ok
}

// Get returns the component attached to e, or nil if e has none.
func (m *ComponentManager[T]) Get(e Entity) *T {
	i, ok := m.mapping[e]
	if !ok {
		return nil
	}
	return &m.components[i]
}

// At is the bounds-checked dense accessor.
func (m *ComponentManager[T]) At(i int) (*T, error) {
	if i < 0 || i >= len(m.components) {
		return nil, &RangeError{Index: i, Size: len(m.components)}
	}
	return &m.components[i], nil
}

// Index is the unchecked dense accessor, for callers that already
// validated i.
func (m *ComponentManager[T]) Index(i int) *T {
	assertf(i >= 0 && i < len(m.components), "Index(%d) with size %d", i, len(m.components))
	return &m.components[i]
}

// EntityAt returns the owner of dense slot i. Unchecked like Index.
func (m *ComponentManager[T]) EntityAt(i int) Entity {
	assertf(i >= 0 && i < len(m.entities), "EntityAt(%d) with size %d", i, len(m.entities))
	return m.entities[i]
}

// EmplaceBack attaches v to e and returns a pointer to the stored copy.
// If e already has a component the existing one is returned unchanged and
// v is dropped: the first write wins.
func (m *ComponentManager[T]) EmplaceBack(e Entity, v T) *T {
	if i, ok := m.mapping[e]; ok {
		return &m.components[i]
	}
	return m.appendNew(e, v)
}

// EmplaceBackFunc is EmplaceBack with lazy construction. ctor runs only
// when e has no component yet.
func (m *ComponentManager[T]) EmplaceBackFunc(e Entity, ctor func() T) *T {
	if i, ok := m.mapping[e]; ok {
		return &m.components[i]
	}
	return m.appendNew(e, ctor())
}

func (m *ComponentManager[T]) PushBack(e Entity, v T) {
	m.EmplaceBack(e, v)
}

func (m *ComponentManager[T]) appendNew(e Entity, v T) *T {
	if m.mapping == nil {
		m.mapping = make(map[Entity]int)
	}
	i := len(m.components)
	m.components = append(m.components, v)
	m.entities = append(m.entities, e)
	m.mapping[e] = i
	return &m.components[i]
}

// PopBack destroys the last element. The manager must not be empty.
func (m *ComponentManager[T]) PopBack() {
	last := len(m.components) - 1
	assertf(last >= 0, "PopBack on empty manager")
	delete(m.mapping, m.entities[last])
	var zero T
	m.components[last] = zero
	m.components = m.components[:last]
	m.entities = m.entities[:last]
}

// Erase removes e's component if present. The former last element moves
// into the freed slot, so relative order is not preserved.
func (m *ComponentManager[T]) Erase(e Entity) {
	i, ok := m.mapping[e]
	if !ok {
		return
	}
	if last := len(m.components) - 1; i != last {
		m.swapComponents(i, last)
	}
	m.PopBack()
}

// swapComponents exchanges dense slots i and j and repairs both mapping
// entries. It is the only code path that reorders dense storage.
func (m *ComponentManager[T]) swapComponents(i, j int) {
	assertf(i >= 0 && i < len(m.components), "swap index %d with size %d", i, len(m.components))
	assertf(j >= 0 && j < len(m.components), "swap index %d with size %d", j, len(m.components))
	if i == j {
		return
	}
	m.components[i], m.components[j] = m.components[j], m.components[i]
	m.entities[i], m.entities[j] = m.entities[j], m.entities[i]
	m.mapping[m.entities[i]] = i
	m.mapping[m.entities[j]] = j
}

func (m *ComponentManager[T]) Clear() {
	clear(m.components)
	m.components = m.components[:0]
	m.entities = m.entities[:0]
	clear(m.mapping)
}

// Reserve grows capacity to at least n and pre-sizes the index map so bulk
// insertion does not rehash repeatedly.
func (m *ComponentManager[T]) Reserve(n int) {
	if n <= cap(m.components) && m.mapping != nil {
		return
	}
	if n > cap(m.components) {
		components := make([]T, len(m.components), n)
		copy(components, m.components)
		m.components = components
	}
	if n > cap(m.entities) {
		entities := make([]Entity, len(m.entities), n)
		copy(entities, m.entities)
		m.entities = entities
	}
	m.mapping = rebuildMapping(m.entities, n)
}

// ShrinkToFit drops spare capacity. Go maps never release buckets, so the
// index is rebuilt at the current size.
func (m *ComponentManager[T]) ShrinkToFit() {
	if len(m.components) == cap(m.components) && len(m.entities) == cap(m.entities) {
		return
	}
	components := make([]T, len(m.components))
	copy(components, m.components)
	entities := make([]Entity, len(m.entities))
	copy(entities, m.entities)
	m.components = components
	m.entities = entities
	m.mapping = rebuildMapping(m.entities, len(m.entities))
}

func rebuildMapping(entities []Entity, hint int) map[Entity]int {
	mapping := make(map[Entity]int, max(hint, len(entities)))
	for i, e := range entities {
		mapping[e] = i
	}
	return mapping
}

func (m *ComponentManager[T]) Len() int    { return len(m.components) }
func (m *ComponentManager[T]) Cap() int    { return cap(m.components) }
func (m *ComponentManager[T]) Empty() bool { return len(m.components) == 0 }

// MaxSize bounds the element count by addressable memory and by the 32-bit
// entity space.
func (m *ComponentManager[T]) MaxSize() int {
	var zero T
	limit := math.MaxInt
	if size := int(unsafe.Sizeof(zero)); size > 0 {
		limit /= size
	}
	if entitySpace := uint64(math.MaxUint32) + 1; uint64(limit) > entitySpace {
		return int(entitySpace)
	}
	return limit
}

// Swap exchanges the whole contents of m and other in O(1).
func (m *ComponentManager[T]) Swap(other *ComponentManager[T]) {
	m.components, other.components = other.components, m.components
	m.entities, other.entities = other.entities, m.entities
	m.mapping, other.mapping = other.mapping, m.mapping
}

// Components is the fast iteration path: the dense component slice in
// physical order. Writing through it is fine; resizing it is not.
func (m *ComponentManager[T]) Components() []T {
	return m.components
}

// Entities returns the dense entity slice, parallel to Components. Callers
// must not modify it.
func (m *ComponentManager[T]) Entities() []Entity {
	return m.entities
}

// All yields dense index and component pointer in physical order.
func (m *ComponentManager[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range m.components {
			if !yield(i, &m.components[i]) {
				return
			}
		}
	}
}

// Backward is All in reverse physical order.
func (m *ComponentManager[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := len(m.components) - 1; i >= 0; i-- {
			if !yield(i, &m.components[i]) {
				return
			}
		}
	}
}

// Records yields a fresh Record for every dense slot in physical order.
func (m *ComponentManager[T]) Records() iter.Seq[Record[T]] {
	return func(yield func(Record[T]) bool) {
		for i := range m.components {
			if !yield(Record[T]{m: m, index: i}) {
				return
			}
		}
	}
}

func (m *ComponentManager[T]) RecordBegin() RecordIterator[T] {
	return RecordIterator[T]{m: m, pos: 0}
}

func (m *ComponentManager[T]) RecordEnd() RecordIterator[T] {
	return RecordIterator[T]{m: m, pos: len(m.components)}
}

// Sort reorders dense storage by less. Every exchange goes through
// swapComponents, so entity lookups stay correct.
func (m *ComponentManager[T]) Sort(less func(a, b *T) bool) {
	sort.Sort(componentSorter[T]{m: m, less: less})
}

// SortStable is Sort preserving the relative order of equal components.
func (m *ComponentManager[T]) SortStable(less func(a, b *T) bool) {
	sort.Stable(componentSorter[T]{m: m, less: less})
}

// SortByEntity restores a deterministic physical order by entity id.
func (m *ComponentManager[T]) SortByEntity() {
	sort.Sort(entitySorter[T]{m: m})
}

type componentSorter[T any] struct {
	m    *ComponentManager[T]
	less func(a, b *T) bool
}

func (s componentSorter[T]) Len() int { return len(s.m.components) }
func (s componentSorter[T]) Less(i, j int) bool {
	return s.less(&s.m.components[i], &s.m.components[j])
}
func (s componentSorter[T]) Swap(i, j int) { s.m.swapComponents(i, j) }

type entitySorter[T any] struct {
	m *ComponentManager[T]
}

func (s entitySorter[T]) Len() int           { return len(s.m.entities) }
func (s entitySorter[T]) Less(i, j int) bool { return s.m.entities[i] < s.m.entities[j] }
func (s entitySorter[T]) Swap(i, j int)      { s.m.swapComponents(i, j) }

// Validate checks that the three internal structures agree.
func (m *ComponentManager[T]) Validate() error {
	if len(m.components) != len(m.entities) || len(m.entities) != len(m.mapping) {
		return fmt.Errorf("%w: %d components, %d entities, %d index entries",
			ErrInconsistent, len(m.components), len(m.entities), len(m.mapping))
	}
	for i, e := range m.entities {
		j, ok := m.mapping[e]
		if !ok {
			return fmt.Errorf("%w: %s at slot %d missing from index", ErrInconsistent, e, i)
		}
		if j != i {
			return fmt.Errorf("%w: %s at slot %d indexed as %d", ErrInconsistent, e, i, j)
		}
	}
	return nil
}
