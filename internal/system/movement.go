package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// MovementSystem integrates velocities into positions.
// Phase 2 (Update). It walks the velocity store by Record and joins the
// position store with Get, skipping entities that have no position.
type MovementSystem struct {
	positions  *ecs.ComponentManager[component.Position]
	velocities *ecs.ComponentManager[component.Velocity]
	moved      int
}

func NewMovementSystem(pos *ecs.ComponentManager[component.Position], vel *ecs.ComponentManager[component.Velocity]) *MovementSystem {
	return &MovementSystem{positions: pos, velocities: vel}
}

func (s *MovementSystem) Name() string { return "movement" }

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	s.moved = 0
	for r := range s.velocities.Records() {
		p := s.positions.Get(r.GetEntity())
		if p == nil {
			continue
		}
		v := r.GetComponent()
		p.X += v.DX * sec
		p.Y += v.DY * sec
		s.moved++
	}
}

// Moved returns how many entities moved during the last Update.
func (s *MovementSystem) Moved() int { return s.moved }
