package ecs

import "strconv"

// Entity is an opaque 32-bit handle. It carries no generation: equality,
// ordering and hashing are by id only.
type Entity uint32

func NewEntity(id uint32) Entity { return Entity(id) }

func (e Entity) GetID() uint32  { return uint32(e) }
func (e Entity) Uint32() uint32 { return uint32(e) }

func (e Entity) Equal(o Entity) bool        { return e == o }
func (e Entity) Less(o Entity) bool         { return e < o }
func (e Entity) LessEqual(o Entity) bool    { return e <= o }
func (e Entity) Greater(o Entity) bool      { return e > o }
func (e Entity) GreaterEqual(o Entity) bool { return e >= o }

// Compare returns -1, 0 or +1. Ordering exists for deterministic output
// only and carries no meaning.
func (e Entity) Compare(o Entity) int {
	switch {
	case e < o:
		return -1
	case e > o:
		return 1
	}
	return 0
}

// Hash mixes the id with the 64-bit finalizer from splitmix64.
func (e Entity) Hash() uint64 {
	x := uint64(e)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func (e Entity) String() string {
	return "entity(" + strconv.FormatUint(uint64(e), 10) + ")"
}

// Pool hands out entity ids. Ids are never recycled: without a generation
// counter a reused id would silently alias stale lookups in every
// ComponentManager that still holds it.
type Pool struct {
	alive     map[Entity]struct{}
	nextIndex uint32
}

func NewPool() *Pool {
	return &Pool{
		alive: make(map[Entity]struct{}, 1024),
	}
}

// Create mints a fresh id. Ids start at 1 so the zero Entity never names
// a live object.
func (p *Pool) Create() Entity {
	p.nextIndex++
	e := Entity(p.nextIndex)
	p.alive[e] = struct{}{}
	return e
}

func (p *Pool) Alive(e Entity) bool {
	_, ok := p.alive[e]
	return ok
}

func (p *Pool) Destroy(e Entity) {
	delete(p.alive, e)
}

// Count returns the number of live ids.
func (p *Pool) Count() int {
	return len(p.alive)
}
