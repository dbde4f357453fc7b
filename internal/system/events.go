package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/core/event"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// EventSystem makes last tick's events visible and dispatches them.
// Phase 1 (PreUpdate).
type EventSystem struct {
	bus        *event.Bus
	dispatched int
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Name() string { return "events" }

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.dispatched += s.bus.DispatchAll()
}

// Dispatched returns the running total of delivered events.
func (s *EventSystem) Dispatched() int { return s.dispatched }
