// Package sim assembles a World, its component stores and the systems that
// drive them into one steppable simulation.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/config"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/l1jgo/ecscore/internal/core/event"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
	"github.com/l1jgo/ecscore/internal/system"
	"go.uber.org/zap"
)

type Sim struct {
	World  *ecs.World
	Bus    *event.Bus
	Runner *coresys.Runner

	Positions  *ecs.ComponentManager[component.Position]
	Velocities *ecs.ComponentManager[component.Velocity]
	Lifetimes  *ecs.ComponentManager[component.Lifetime]
	Healths    *ecs.ComponentManager[component.Health]

	cleanup  *system.CleanupSystem
	events   *system.EventSystem
	movement *system.MovementSystem

	cfg     config.SimulationConfig
	rng     *rand.Rand
	log     *zap.Logger
	spawned int
	created int
	expired int
}

// Stats is a snapshot of simulation counters.
type Stats struct {
	Ticks      uint64
	Alive      int
	Spawned    int
	Created    int // creations observed through the event bus; lags one tick
	Destroyed  int
	Expired    int
	Events     int
	Positions  int
	Velocities int
	Lifetimes  int
	Healths    int
}

func New(cfg config.SimulationConfig, log *zap.Logger) *Sim {
	w := ecs.NewWorld()
	bus := event.NewBus()
	s := &Sim{
		World:      w,
		Bus:        bus,
		Runner:     coresys.NewRunner(),
		Positions:  ecs.Register[component.Position](w, cfg.Entities),
		Velocities: ecs.Register[component.Velocity](w, cfg.Entities),
		Lifetimes:  ecs.Register[component.Lifetime](w, cfg.Entities),
		Healths:    ecs.Register[component.Health](w, cfg.Entities/2),
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		log:        log,
	}
	w.OnCreate = func(e ecs.Entity) { event.Emit(bus, event.EntityCreated{Entity: e}) }
	w.OnDestroy = func(e ecs.Entity) { event.Emit(bus, event.EntityDestroyed{Entity: e}) }
	event.Subscribe(bus, func(event.EntityCreated) { s.created++ })
	event.Subscribe(bus, func(event.Expired) { s.expired++ })

	s.events = system.NewEventSystem(bus)
	s.movement = system.NewMovementSystem(s.Positions, s.Velocities)
	s.cleanup = system.NewCleanupSystem(w, log)
	s.Runner.Register(s.events)
	s.Runner.Register(s.movement)
	s.Runner.Register(system.NewLifetimeSystem(w, s.Lifetimes, bus))
	if cfg.ZOrder {
		s.Runner.Register(system.NewZOrderSystem(s.Positions))
	}
	s.Runner.Register(s.cleanup)
	return s
}

// Spawn creates n entities with a position and velocity. Every other entity
// also gets a Health, and a Lifetime when the configuration sets one.
func (s *Sim) Spawn(n int) []ecs.Entity {
	s.Positions.Reserve(s.Positions.Len() + n)
	s.Velocities.Reserve(s.Velocities.Len() + n)
	out := make([]ecs.Entity, 0, n)
	for range n {
		e := s.World.CreateEntity()
		s.Positions.EmplaceBack(e, component.Position{
			X: s.rng.Float64() * 1000,
			Y: s.rng.Float64() * 1000,
		})
		s.Velocities.EmplaceBack(e, component.Velocity{
			DX: s.rng.Float64()*2 - 1,
			DY: s.rng.Float64()*2 - 1,
		})
		if e.GetID()%2 == 0 {
			s.Healths.EmplaceBack(e, component.Health{HP: 100, MaxHP: 100})
		}
		if s.cfg.Lifetime > 0 {
			s.Lifetimes.EmplaceBack(e, component.Lifetime{Remaining: 1 + s.rng.Intn(s.cfg.Lifetime)})
		}
		out = append(out, e)
	}
	s.spawned += n
	return out
}

// Churn destroys a random fraction of the entities that have a position and
// returns how many were destroyed.
func (s *Sim) Churn(fraction float64) int {
	live := s.Positions.Entities()
	n := int(float64(len(live)) * fraction)
	for range n {
		s.World.MarkForDestruction(live[s.rng.Intn(len(live))])
	}
	// duplicates collapse in the destroy queue
	destroyed := s.World.FlushDestroyQueue()
	s.log.Debug("churn", zap.Int("picked", n), zap.Int("destroyed", destroyed))
	return destroyed
}

// Tick runs every system once with the configured tick rate.
func (s *Sim) Tick() {
	s.Runner.Tick(s.cfg.TickRate)
}

func (s *Sim) TickRate() time.Duration { return s.cfg.TickRate }

// Sort orders positions by Y, the same ordering ZOrderSystem applies.
func (s *Sim) Sort() {
	system.NewZOrderSystem(s.Positions).Update(0)
}

// Validate checks every store and cross-checks stores against the pool.
func (s *Sim) Validate() error {
	stores := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"positions", s.Positions},
		{"velocities", s.Velocities},
		{"lifetimes", s.Lifetimes},
		{"healths", s.Healths},
	}
	for _, st := range stores {
		if err := st.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	for _, e := range s.Positions.Entities() {
		if !s.World.Alive(e) {
			return fmt.Errorf("positions: %s is not alive: %w", e, ecs.ErrInconsistent)
		}
	}
	return nil
}

func (s *Sim) Stats() Stats {
	return Stats{
		Ticks:      s.Runner.Ticks(),
		Alive:      s.World.Pool().Count(),
		Spawned:    s.spawned,
		Created:    s.created,
		Destroyed:  s.spawned - s.World.Pool().Count(),
		Expired:    s.expired,
		Events:     s.events.Dispatched(),
		Positions:  s.Positions.Len(),
		Velocities: s.Velocities.Len(),
		Lifetimes:  s.Lifetimes.Len(),
		Healths:    s.Healths.Len(),
	}
}
