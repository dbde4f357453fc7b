package system

import (
	"fmt"
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a
// phase run in registration order.
type Runner struct {
	entries []entry
	ticks   uint64
}

type entry struct {
	sys   System
	name  string
	spent time.Duration
}

// Timing is the accumulated wall time of one registered system.
type Timing struct {
	Name  string
	Phase Phase
	Spent time.Duration
}

func NewRunner() *Runner {
	return &Runner{
		entries: make([]entry, 0, 16),
	}
}

// Register inserts s after every system of the same or an earlier phase.
func (r *Runner) Register(s System) {
	at := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].sys.Phase() > s.Phase()
	})
	r.entries = append(r.entries, entry{})
	copy(r.entries[at+1:], r.entries[at:])
	r.entries[at] = entry{sys: s, name: systemName(s)}
}

func (r *Runner) Tick(dt time.Duration) {
	for i := range r.entries {
		r.run(&r.entries[i], dt)
	}
	r.ticks++
}

// TickPhase runs only the systems registered for phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	for i := range r.entries {
		if r.entries[i].sys.Phase() == phase {
			r.run(&r.entries[i], dt)
		}
	}
}

func (r *Runner) run(e *entry, dt time.Duration) {
	start := time.Now()
	e.sys.Update(dt)
	e.spent += time.Since(start)
}

// Ticks returns how many full ticks have run.
func (r *Runner) Ticks() uint64 { return r.ticks }

func (r *Runner) Len() int { return len(r.entries) }

// Timings reports per-system wall time in execution order.
func (r *Runner) Timings() []Timing {
	out := make([]Timing, len(r.entries))
	for i, e := range r.entries {
		out[i] = Timing{Name: e.name, Phase: e.sys.Phase(), Spent: e.spent}
	}
	return out
}

func systemName(s System) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
