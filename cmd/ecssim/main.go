// ecssim drives the sparse-set component stores through a configurable
// simulation and prints store statistics.
//
// Usage:
//
//	ecssim [-config config/ecssim.toml] [-scenario file.yaml] [-scripts dir] [-profile cpu|mem]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/ecscore/internal/config"
	"github.com/l1jgo/ecscore/internal/core/ecs"
	coresys "github.com/l1jgo/ecscore/internal/core/system"
	"github.com/l1jgo/ecscore/internal/scenario"
	"github.com/l1jgo/ecscore/internal/scripting"
	"github.com/l1jgo/ecscore/internal/sim"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Report helpers ────────────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := printer.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main logic ────────────────────────────────────────────────────

func run() error {
	cfgPath := flag.String("config", "", "TOML config file (default $ECSSIM_CONFIG)")
	scenarioPath := flag.String("scenario", "", "YAML scenario file, overrides scenario.path")
	scriptsDir := flag.String("scripts", "", "directory of Lua scripts, overrides scripting.dir")
	profileMode := flag.String("profile", "", "cpu or mem, overrides profile.mode")
	flag.Parse()

	// 1. Load config
	cfg := config.Defaults()
	path := *cfgPath
	if path == "" {
		path = os.Getenv("ECSSIM_CONFIG")
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}
	if *scriptsDir != "" {
		cfg.Scripting.Dir = *scriptsDir
	}
	if *profileMode != "" {
		cfg.Profile.Mode = *profileMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Optional profiler
	if p := startProfile(cfg.Profile); p != nil {
		defer p.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Build the simulation
	s := sim.New(cfg.Simulation, log)
	start := time.Now()

	if cfg.Scenario.Path != "" {
		sc, err := scenario.Load(cfg.Scenario.Path)
		if err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		rep, err := scenario.NewRunner(s, log).Run(ctx, sc)
		if err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		printSection("Scenario " + rep.Name)
		printStat("steps", rep.Steps)
		printStat("spawned", rep.Spawned)
		printStat("destroyed", rep.Destroyed)
		printStat("ticks", rep.Ticks)
	} else if err := loop(ctx, s, cfg.Simulation, log); err != nil {
		return err
	}

	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	printOK("store invariants hold")

	// 5. Optional Lua pass over a scalar store
	if cfg.Scripting.Dir != "" {
		if err := runScripts(s, cfg.Scripting, log); err != nil {
			return err
		}
	}

	report(s.Stats(), time.Since(start))
	timings(s.Runner.Timings())
	return nil
}

// loop spawns the initial population then ticks, replacing cfg.Churn of the
// population every tick.
func loop(ctx context.Context, s *sim.Sim, cfg config.SimulationConfig, log *zap.Logger) error {
	s.Spawn(cfg.Entities)
	log.Info("simulation started",
		zap.Int("entities", cfg.Entities),
		zap.Int("ticks", cfg.Ticks),
		zap.Duration("tick_rate", cfg.TickRate))
	for i := range cfg.Ticks {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("simulation interrupted", zap.Int("tick", i))
				return nil
			}
			return err
		}
		if cfg.Churn > 0 {
			if n := s.Churn(cfg.Churn); n > 0 {
				s.Spawn(n)
			}
		}
		s.Tick()
	}
	return nil
}

func runScripts(s *sim.Sim, cfg config.ScriptingConfig, log *zap.Logger) error {
	scores := ecs.Register[float64](s.World, 0)
	engine, err := scripting.NewEngine(cfg.Dir, scores, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Call(cfg.Entry)
	if err != nil {
		return fmt.Errorf("lua entry: %w", err)
	}
	if err := scores.Validate(); err != nil {
		return fmt.Errorf("lua store: %w", err)
	}
	printSection("Lua")
	printStat("store size", scores.Len())
	fmt.Printf("  %s %s\n", cfg.Entry, printer.Sprintf("returned %.2f", result))
	return nil
}

func report(st sim.Stats, elapsed time.Duration) {
	printSection("Stores")
	printStat("positions", st.Positions)
	printStat("velocities", st.Velocities)
	printStat("lifetimes", st.Lifetimes)
	printStat("healths", st.Healths)
	printSection("World")
	printStat("ticks", int(st.Ticks))
	printStat("alive", st.Alive)
	printStat("spawned", st.Spawned)
	printStat("destroyed", st.Destroyed)
	printStat("expired", st.Expired)
	printStat("events", st.Events)
	fmt.Printf("  elapsed %s\n", elapsed.Round(time.Millisecond))
}

func timings(ts []coresys.Timing) {
	printSection("Systems")
	for _, t := range ts {
		fmt.Printf("  %-10s %-12s %s\n", t.Name, t.Phase, t.Spent.Round(time.Microsecond))
	}
}

func startProfile(cfg config.ProfileConfig) interface{ Stop() } {
	switch cfg.Mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
