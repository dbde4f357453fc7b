package system

import (
	"time"

	"github.com/l1jgo/ecscore/internal/component"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
)

// ZOrderSystem keeps the position store sorted back-to-front by Y so that
// output walks it in draw order. Phase 4 (Output).
type ZOrderSystem struct {
	positions *ecs.ComponentManager[component.Position]
}

func NewZOrderSystem(pos *ecs.ComponentManager[component.Position]) *ZOrderSystem {
	return &ZOrderSystem{positions: pos}
}

func (s *ZOrderSystem) Name() string { return "zorder" }

func (s *ZOrderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ZOrderSystem) Update(_ time.Duration) {
	s.positions.SortStable(func(a, b *component.Position) bool {
		return a.Y < b.Y
	})
}
