package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/ecscore/internal/sim"
	"go.uber.org/zap"
)

// Report summarizes a scenario run.
type Report struct {
	Name      string
	Steps     int
	Spawned   int
	Destroyed int
	Ticks     int
	Sorts     int
	Elapsed   time.Duration
	Final     sim.Stats
}

// Runner replays scenarios against a Sim.
type Runner struct {
	sim *sim.Sim
	log *zap.Logger
}

func NewRunner(s *sim.Sim, log *zap.Logger) *Runner {
	return &Runner{sim: s, log: log}
}

// Run executes every step in order. Cancellation is checked between steps
// and between repeats, never inside one.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Report, error) {
	rep := Report{Name: sc.Name}
	start := time.Now()
	for i, st := range sc.Steps {
		repeat := max(st.Repeat, 1)
		for range repeat {
			if err := ctx.Err(); err != nil {
				rep.Elapsed = time.Since(start)
				return rep, fmt.Errorf("scenario %q step %d: %w", sc.Name, i, err)
			}
			if err := r.step(st, &rep); err != nil {
				rep.Elapsed = time.Since(start)
				return rep, fmt.Errorf("scenario %q step %d (%s): %w", sc.Name, i, st.Op, err)
			}
		}
		rep.Steps++
		r.log.Debug("scenario step done",
			zap.String("scenario", sc.Name),
			zap.Int("step", i),
			zap.String("op", string(st.Op)),
			zap.Int("positions", r.sim.Positions.Len()))
	}
	rep.Elapsed = time.Since(start)
	rep.Final = r.sim.Stats()
	r.log.Info("scenario finished",
		zap.String("scenario", sc.Name),
		zap.Int("steps", rep.Steps),
		zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

func (r *Runner) step(st Step, rep *Report) error {
	switch st.Op {
	case OpSpawn:
		rep.Spawned += len(r.sim.Spawn(st.Count))
	case OpChurn:
		rep.Destroyed += r.sim.Churn(st.Fraction)
	case OpTick:
		for range st.Ticks {
			r.sim.Tick()
		}
		rep.Ticks += st.Ticks
	case OpSort:
		r.sim.Sort()
		rep.Sorts++
	case OpValidate:
		if err := r.sim.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
