package ecs

import (
	"maps"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants asserts the three structures agree, slot by slot.
func checkInvariants[T any](t *testing.T, m *ComponentManager[T]) {
	t.Helper()
	require.Len(t, m.entities, len(m.components))
	require.Len(t, m.mapping, len(m.components))
	for i, e := range m.entities {
		require.Equal(t, i, m.mapping[e], "mapping of %s", e)
	}
	require.NoError(t, m.Validate())
}

func abc(values ...int) (*ComponentManager[int], []Entity) {
	m := NewComponentManager[int](0)
	ents := make([]Entity, len(values))
	for i, v := range values {
		ents[i] = NewEntity(uint32(i + 1))
		m.EmplaceBack(ents[i], v)
	}
	return m, ents
}

// go test -run ^TestEmplaceAndGet$ ./internal/core/ecs -count 1
func TestEmplaceAndGet(t *testing.T) {
	m := NewComponentManager[int](0)
	m.EmplaceBack(NewEntity(1), 10)
	m.EmplaceBack(NewEntity(2), 20)
	m.EmplaceBack(NewEntity(3), 30)

	assert.Equal(t, 3, m.Len())
	p := m.Get(NewEntity(2))
	require.NotNil(t, p)
	assert.Equal(t, 20, *p)
	checkInvariants(t, m)
}

func TestEraseMiddle(t *testing.T) {
	m := NewComponentManager[int](0)
	m.EmplaceBack(NewEntity(1), 10)
	m.EmplaceBack(NewEntity(2), 20)
	m.EmplaceBack(NewEntity(3), 30)

	m.Erase(NewEntity(2))

	assert.Equal(t, 2, m.Len())
	assert.False(t, m.Contains(NewEntity(2)))
	assert.Nil(t, m.Get(NewEntity(2)))
	assert.Equal(t, 10, *m.Get(NewEntity(1)))
	assert.Equal(t, 30, *m.Get(NewEntity(3)))
	// the former last element moved into the freed slot
	assert.Equal(t, []int{10, 30}, m.Components())
	assert.Equal(t, []Entity{1, 3}, m.Entities())
	checkInvariants(t, m)
}

func TestEmplaceFirstWriteWins(t *testing.T) {
	m := NewComponentManager[int](0)
	p1 := m.EmplaceBack(NewEntity(5), 99)
	p2 := m.EmplaceBack(NewEntity(5), 123)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 99, *m.Get(NewEntity(5)))
	assert.Same(t, p1, p2)

	m.PushBack(NewEntity(5), 7)
	assert.Equal(t, 99, *m.Get(NewEntity(5)))
	checkInvariants(t, m)
}

func TestEmplaceFuncSkipsCtorWhenPresent(t *testing.T) {
	m := NewComponentManager[int](0)
	calls := 0
	ctor := func() int { calls++; return 42 }

	p1 := m.EmplaceBackFunc(NewEntity(1), ctor)
	p2 := m.EmplaceBackFunc(NewEntity(1), ctor)

	assert.Equal(t, 1, calls)
	assert.Same(t, p1, p2)
	assert.Equal(t, 42, *p1)
}

func TestEraseAbsentIsNoop(t *testing.T) {
	m := NewComponentManager[int](0)
	assert.NotPanics(t, func() { m.Erase(NewEntity(42)) })
	assert.Equal(t, 0, m.Len())

	m.EmplaceBack(NewEntity(1), 1)
	m.Erase(NewEntity(42))
	assert.Equal(t, 1, m.Len())
	checkInvariants(t, m)
}

func TestAtOutOfRange(t *testing.T) {
	m := NewComponentManager[int](0)
	p, err := m.At(0)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Index)
	assert.Equal(t, 0, re.Size)

	m.EmplaceBack(NewEntity(1), 7)
	p, err = m.At(0)
	require.NoError(t, err)
	assert.Equal(t, 7, *p)

	_, err = m.At(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.At(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRecordsInPhysicalOrder(t *testing.T) {
	m, ents := abc(1, 2, 3, 4)

	type pair struct {
		e Entity
		v int
	}
	var got []pair
	for it, end := m.RecordBegin(), m.RecordEnd(); !it.Equal(end); it = it.Next() {
		r := it.Record()
		got = append(got, pair{r.GetEntity(), *r.GetComponent()})
	}
	assert.Equal(t, []pair{{ents[0], 1}, {ents[1], 2}, {ents[2], 3}, {ents[3], 4}}, got)

	got = got[:0]
	for r := range m.Records() {
		got = append(got, pair{r.GetEntity(), *r.GetComponent()})
	}
	assert.Len(t, got, 4)
	assert.Equal(t, ents[3], got[3].e)
}

func TestIterationConsistency(t *testing.T) {
	m, ents := abc(5, 6, 7, 8, 9)
	m.Erase(ents[1])
	m.Erase(ents[3])

	visited := 0
	for range m.All() {
		visited++
	}
	assert.Equal(t, m.Len(), visited)
	assert.Len(t, m.Components(), m.Len())

	for r := range m.Records() {
		e := r.GetEntity()
		assert.True(t, m.Contains(e))
		assert.Same(t, m.Get(e), r.GetComponent())
	}
}

func TestBackward(t *testing.T) {
	m, _ := abc(1, 2, 3)
	var got []int
	for i, v := range m.Backward() {
		assert.Equal(t, len(m.Components())-1-len(got), i)
		got = append(got, *v)
	}
	assert.Equal(t, []int{3, 2, 1}, got)

	got = got[:0]
	for _, v := range m.All() {
		got = append(got, *v)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestRemovalKeepsOthers(t *testing.T) {
	const n = 16
	for j := range n {
		values := make([]int, n)
		for i := range values {
			values[i] = i * 100
		}
		m, ents := abc(values...)

		m.Erase(ents[j])

		require.Equal(t, n-1, m.Len())
		assert.False(t, m.Contains(ents[j]))
		for k := range n {
			if k == j {
				continue
			}
			require.True(t, m.Contains(ents[k]))
			assert.Equal(t, values[k], *m.Get(ents[k]))
		}
		checkInvariants(t, m)
	}
}

func TestSwapComponentsSelfInverse(t *testing.T) {
	m, _ := abc(10, 20, 30, 40)
	components := slices.Clone(m.components)
	entities := slices.Clone(m.entities)
	mapping := maps.Clone(m.mapping)

	for _, pair := range [][2]int{{0, 3}, {1, 2}, {2, 2}, {3, 0}} {
		m.swapComponents(pair[0], pair[1])
		checkInvariants(t, m)
		m.swapComponents(pair[0], pair[1])
		assert.Equal(t, components, m.components)
		assert.Equal(t, entities, m.entities)
		assert.Equal(t, mapping, m.mapping)
	}
}

func TestSwapComponentsSameIndex(t *testing.T) {
	m, ents := abc(1, 2)
	m.swapComponents(1, 1)
	assert.Equal(t, []int{1, 2}, m.Components())
	assert.Equal(t, 0, m.mapping[ents[0]])
	assert.Equal(t, 1, m.mapping[ents[1]])
	assert.Equal(t, 2, *m.Get(ents[1]))
}

func TestRecordSwap(t *testing.T) {
	m, ents := abc(1, 2, 3)
	a := m.RecordBegin().Record()
	c := m.RecordBegin().At(2)

	a.Swap(c)

	assert.Equal(t, []int{3, 2, 1}, m.Components())
	assert.Equal(t, ents[2], a.GetEntity())
	assert.Equal(t, ents[0], c.GetEntity())
	assert.Equal(t, 1, *m.Get(ents[0]))
	assert.Equal(t, 3, *m.Get(ents[2]))
	checkInvariants(t, m)
}

func TestSortKeepsMapping(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewComponentManager[int](64)
	want := make(map[Entity]int)
	for i := range 64 {
		e := NewEntity(uint32(1000 - i))
		v := rng.Intn(50)
		m.EmplaceBack(e, v)
		want[e] = v
	}

	m.Sort(func(a, b *int) bool { return *a < *b })

	assert.True(t, slices.IsSorted(m.Components()))
	for e, v := range want {
		assert.Equal(t, v, *m.Get(e))
	}
	checkInvariants(t, m)

	m.SortByEntity()
	assert.True(t, slices.IsSortedFunc(m.Entities(), Entity.Compare))
	for e, v := range want {
		assert.Equal(t, v, *m.Get(e))
	}
	checkInvariants(t, m)
}

func TestSortStable(t *testing.T) {
	type item struct{ key, seq int }
	m := NewComponentManager[item](0)
	for i := range 20 {
		m.EmplaceBack(NewEntity(uint32(i+1)), item{key: i % 3, seq: i})
	}
	m.SortStable(func(a, b *item) bool { return a.key < b.key })
	prev := item{key: -1}
	for _, it := range m.Components() {
		if it.key == prev.key {
			assert.Less(t, prev.seq, it.seq)
		}
		prev = it
	}
	checkInvariants(t, m)
}

func TestPopBackAndClear(t *testing.T) {
	m, ents := abc(1, 2, 3)
	m.PopBack()
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.Contains(ents[2]))
	checkInvariants(t, m)

	c := m.Cap()
	m.Clear()
	assert.True(t, m.Empty())
	assert.Equal(t, c, m.Cap())
	assert.False(t, m.Contains(ents[0]))
	checkInvariants(t, m)
}

func TestPopBackReleasesSlot(t *testing.T) {
	m := NewComponentManager[*int](2)
	v := 5
	m.EmplaceBack(NewEntity(1), &v)
	m.PopBack()
	assert.Nil(t, m.components[:1][0])
}

func TestReserveAndShrink(t *testing.T) {
	m, ents := abc(1, 2, 3)
	m.Reserve(100)
	assert.GreaterOrEqual(t, m.Cap(), 100)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 2, *m.Get(ents[1]))
	checkInvariants(t, m)

	m.Reserve(10)
	assert.GreaterOrEqual(t, m.Cap(), 100)

	m.ShrinkToFit()
	assert.Equal(t, 3, m.Cap())
	assert.Equal(t, 3, *m.Get(ents[2]))
	checkInvariants(t, m)
}

func TestZeroValueManager(t *testing.T) {
	var m ComponentManager[string]
	assert.False(t, m.Contains(NewEntity(1)))
	assert.Nil(t, m.Get(NewEntity(1)))
	m.Erase(NewEntity(1))

	m.EmplaceBack(NewEntity(1), "a")
	assert.Equal(t, "a", *m.Get(NewEntity(1)))
	checkInvariants(t, &m)

	var r ComponentManager[string]
	r.Reserve(4)
	r.EmplaceBack(NewEntity(2), "b")
	checkInvariants(t, &r)
}

func TestManagerSwap(t *testing.T) {
	a, aEnts := abc(1, 2)
	b := NewComponentManager[int](0)
	b.EmplaceBack(NewEntity(77), 700)

	a.Swap(b)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 700, *a.Get(NewEntity(77)))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 2, *b.Get(aEnts[1]))
	assert.False(t, a.Contains(aEnts[0]))
	checkInvariants(t, a)
	checkInvariants(t, b)
}

func TestMaxSize(t *testing.T) {
	var small ComponentManager[byte]
	assert.Positive(t, small.MaxSize())
	assert.LessOrEqual(t, uint64(small.MaxSize()), uint64(1)<<32)

	var empty ComponentManager[struct{}]
	assert.Positive(t, empty.MaxSize())
}

func TestValidateDetectsCorruption(t *testing.T) {
	m, ents := abc(1, 2, 3)
	m.mapping[ents[0]] = 2
	assert.ErrorIs(t, m.Validate(), ErrInconsistent)

	m2, _ := abc(1, 2)
	m2.entities = m2.entities[:1]
	assert.ErrorIs(t, m2.Validate(), ErrInconsistent)
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := NewComponentManager[int](0)
	ref := make(map[Entity]int)

	for step := range 5000 {
		e := NewEntity(uint32(rng.Intn(200)))
		switch op := rng.Intn(10); {
		case op < 5:
			v := rng.Int()
			m.EmplaceBack(e, v)
			if _, ok := ref[e]; !ok {
				ref[e] = v
			}
		case op < 8:
			m.Erase(e)
			delete(ref, e)
		case op == 8 && m.Len() > 1:
			i, j := rng.Intn(m.Len()), rng.Intn(m.Len())
			m.RecordBegin().At(i).Swap(m.RecordBegin().At(j))
		case op == 9 && !m.Empty():
			delete(ref, m.Entities()[m.Len()-1])
			m.PopBack()
		}
		require.NoError(t, m.Validate(), "step %d", step)
		require.Equal(t, len(ref), m.Len(), "step %d", step)
	}
	for e, v := range ref {
		require.Equal(t, v, *m.Get(e))
	}
	checkInvariants(t, m)
}
