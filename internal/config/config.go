package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
	Scenario   ScenarioConfig   `toml:"scenario"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Profile    ProfileConfig    `toml:"profile"`
}

type SimulationConfig struct {
	Entities int           `toml:"entities"`  // entities spawned before the first tick
	Ticks    int           `toml:"ticks"`     // ticks run when no scenario is given
	TickRate time.Duration `toml:"tick_rate"` // simulated time per tick
	Churn    float64       `toml:"churn"`     // fraction of entities replaced per tick (0.0-1.0)
	Lifetime int           `toml:"lifetime"`  // ticks a spawned entity lives; 0 = forever
	Seed     int64         `toml:"seed"`
	ZOrder   bool          `toml:"z_order"` // sort positions by Y every tick
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ScenarioConfig struct {
	Path string `toml:"path"` // YAML scenario; empty runs the plain tick loop
}

type ScriptingConfig struct {
	Dir   string `toml:"dir"`   // directory of .lua files; empty disables scripting
	Entry string `toml:"entry"` // global function called after loading
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Simulation.Entities < 0 {
		return fmt.Errorf("simulation.entities must not be negative, got %d", c.Simulation.Entities)
	}
	if c.Simulation.Churn < 0 || c.Simulation.Churn > 1 {
		return fmt.Errorf("simulation.churn must be within [0, 1], got %g", c.Simulation.Churn)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode must be cpu or mem, got %q", c.Profile.Mode)
	}
	return nil
}

// Defaults returns the configuration used when no file overrides it.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Entities: 10_000,
			Ticks:    300,
			TickRate: 200 * time.Millisecond,
			Churn:    0.01,
			Lifetime: 0,
			Seed:     1,
			ZOrder:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Entry: "main",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
