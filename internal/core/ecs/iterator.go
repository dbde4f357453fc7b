package ecs

// RecordIterator is a random-access position over a manager's dense slots.
// Dereferencing with Record always builds a fresh Record value.
//
// Arithmetic never checks bounds; only dereferencing does, and only in
// ecsdebug builds.
type RecordIterator[T any] struct {
	m   *ComponentManager[T]
	pos int
}

func (it RecordIterator[T]) Record() Record[T] {
	assertf(it.m != nil, "iterator without manager")
	assertf(it.pos >= 0 && it.pos < len(it.m.components),
		"dereference at %d with size %d", it.pos, len(it.m.components))
	return Record[T]{m: it.m, index: it.pos}
}

// At is offset indexing: it.At(n) is it.Add(n).Record().
func (it RecordIterator[T]) At(n int) Record[T] {
	return it.Add(n).Record()
}

func (it RecordIterator[T]) Add(n int) RecordIterator[T] {
	return RecordIterator[T]{m: it.m, pos: it.pos + n}
}

func (it RecordIterator[T]) Sub(n int) RecordIterator[T] {
	return RecordIterator[T]{m: it.m, pos: it.pos - n}
}

func (it RecordIterator[T]) Next() RecordIterator[T] { return it.Add(1) }
func (it RecordIterator[T]) Prev() RecordIterator[T] { return it.Sub(1) }

// Distance returns it - other. Both iterators must share a manager.
func (it RecordIterator[T]) Distance(other RecordIterator[T]) int {
	assertf(it.m == other.m, "distance between iterators of different managers")
	return it.pos - other.pos
}

func (it RecordIterator[T]) Pos() int { return it.pos }

// Valid reports whether Record may be called.
func (it RecordIterator[T]) Valid() bool {
	return it.m != nil && it.pos >= 0 && it.pos < len(it.m.components)
}

func (it RecordIterator[T]) Equal(o RecordIterator[T]) bool {
	return it.m == o.m && it.pos == o.pos
}

func (it RecordIterator[T]) Less(o RecordIterator[T]) bool         { return it.pos < o.pos }
func (it RecordIterator[T]) LessEqual(o RecordIterator[T]) bool    { return it.pos <= o.pos }
func (it RecordIterator[T]) Greater(o RecordIterator[T]) bool      { return it.pos > o.pos }
func (it RecordIterator[T]) GreaterEqual(o RecordIterator[T]) bool { return it.pos >= o.pos }
