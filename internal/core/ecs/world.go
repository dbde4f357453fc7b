package ecs

// World is the collaborator that owns many ComponentManagers. It holds the
// id pool, the store registry, and a deferred destruction queue flushed by
// CleanupSystem each tick.
type World struct {
	pool         *Pool
	registry     *Registry
	destroyQueue []Entity
	queued       map[Entity]struct{}

	// OnCreate and OnDestroy, when set, observe entity lifecycle.
	OnCreate  func(Entity)
	OnDestroy func(Entity)
}

func NewWorld() *World {
	return &World{
		pool:         NewPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]Entity, 0, 64),
		queued:       make(map[Entity]struct{}, 64),
	}
}

func (w *World) Pool() *Pool         { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// Register creates a ComponentManager for T and adds it to w's registry.
func Register[T any](w *World, capacity int) *ComponentManager[T] {
	m := NewComponentManager[T](capacity)
	w.registry.Register(m)
	return m
}

func (w *World) CreateEntity() Entity {
	e := w.pool.Create()
	if w.OnCreate != nil {
		w.OnCreate(e)
	}
	return e
}

func (w *World) Alive(e Entity) bool {
	return w.pool.Alive(e)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Marking the
// same entity twice in one tick is a no-op.
func (w *World) MarkForDestruction(e Entity) {
	if !w.pool.Alive(e) {
		return
	}
	if _, ok := w.queued[e]; ok {
		return
	}
	w.queued[e] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, e)
}

// Pending returns the number of entities waiting for FlushDestroyQueue.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities, erases their components
// from every registered store, and returns how many were destroyed.
func (w *World) FlushDestroyQueue() int {
	n := len(w.destroyQueue)
	for _, e := range w.destroyQueue {
		w.registry.RemoveAll(e)
		w.pool.Destroy(e)
		if w.OnDestroy != nil {
			w.OnDestroy(e)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return n
}
