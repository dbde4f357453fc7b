package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/l1jgo/ecscore/internal/core/event"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// LifetimeSystem ages every Lifetime component and queues expired entities
// for destruction. Phase 3 (PostUpdate).
//
// Expired entities are only marked here; the store is not mutated during
// iteration, CleanupSystem erases them at tick end.
type LifetimeSystem struct {
	world     *ecs.World
	lifetimes *ecs.ComponentManager[component.Lifetime]
	bus       *event.Bus
}

func NewLifetimeSystem(w *ecs.World, lifetimes *ecs.ComponentManager[component.Lifetime], bus *event.Bus) *LifetimeSystem {
	return &LifetimeSystem{world: w, lifetimes: lifetimes, bus: bus}
}

func (s *LifetimeSystem) Name() string { return "lifetime" }

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *LifetimeSystem) Update(_ time.Duration) {
	ents := s.lifetimes.Entities()
	for i, lt := range s.lifetimes.All() {
		lt.Age++
		if lt.Remaining > 0 {
			lt.Remaining--
		}
		if lt.Remaining == 0 {
			e := ents[i]
			s.world.MarkForDestruction(e)
			if s.bus != nil {
				event.Emit(s.bus, event.Expired{Entity: e, Age: lt.Age})
			}
		}
	}
}
