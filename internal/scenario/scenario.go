// Package scenario loads YAML step tables and replays them against a Sim.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Op names a scenario step.
type Op string

const (
	OpSpawn    Op = "spawn"    // create Count entities
	OpChurn    Op = "churn"    // destroy Fraction of live entities
	OpTick     Op = "tick"     // run Ticks full ticks
	OpSort     Op = "sort"     // sort positions by Y
	OpValidate Op = "validate" // check store invariants
)

// Step is one entry of a scenario's step list.
type Step struct {
	Op       Op      `yaml:"op"`
	Count    int     `yaml:"count"`
	Fraction float64 `yaml:"fraction"`
	Ticks    int     `yaml:"ticks"`
	Repeat   int     `yaml:"repeat"` // run the step this many times; 0 means once
}

// Scenario is a named, ordered list of steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load reads and checks a scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a scenario document.
func Parse(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i, st := range sc.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("scenario %q step %d: %w", sc.Name, i, err)
		}
	}
	return &sc, nil
}

func (st Step) check() error {
	if st.Repeat < 0 {
		return fmt.Errorf("negative repeat %d", st.Repeat)
	}
	switch st.Op {
	case OpSpawn:
		if st.Count <= 0 {
			return fmt.Errorf("spawn needs a positive count, got %d", st.Count)
		}
	case OpChurn:
		if st.Fraction < 0 || st.Fraction > 1 {
			return fmt.Errorf("churn fraction must be within [0, 1], got %g", st.Fraction)
		}
	case OpTick:
		if st.Ticks <= 0 {
			return fmt.Errorf("tick needs a positive ticks, got %d", st.Ticks)
		}
	case OpSort, OpValidate:
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
