package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/botsim/brains"
	"github.com/pthm-cable/botsim/config"
	"github.com/pthm-cable/botsim/game"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/renderer"
	"github.com/pthm-cable/botsim/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logEvents := flag.Bool("log-events", false, "Log every birth and death")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per frame in graphical mode")
	debug := flag.Bool("debug", false, "Panic on engine invariant violations")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	cfg.Telemetry.LogStats = cfg.Telemetry.LogStats || *logStats
	cfg.Telemetry.LogEvents = cfg.Telemetry.LogEvents || *logEvents
	cfg.Debug = cfg.Debug || *debug

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	registry := protocol.NewRegistry()
	if err := brains.Register(registry); err != nil {
		slog.Error("failed to register brains", "error", err)
		os.Exit(1)
	}

	if *headless {
		sim := newSimulation(cfg, registry, rngSeed, out)
		defer closeSimulation(sim)

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"stats_window", cfg.Telemetry.StatsWindow,
			"max_ticks", *maxTicks,
			"populations", registry.Names(),
		)
		for *maxTicks <= 0 || int(sim.TickCount()) < *maxTicks {
			sim.Tick()
		}
		slog.Info("max ticks reached", "tick", sim.TickCount())
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Bot Simulation")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	sim := newSimulation(cfg, registry, rngSeed, out)
	defer closeSimulation(sim)

	viewer := renderer.NewViewer(sim, *stepsPerUpdate)
	for !rl.WindowShouldClose() {
		viewer.Update()
		viewer.Draw()

		if *maxTicks > 0 && int(sim.TickCount()) >= *maxTicks {
			break
		}
	}
}

func newSimulation(cfg *config.Config, registry *protocol.Registry, seed int64, out *telemetry.OutputManager) *game.Simulation {
	sim, err := game.New(game.Options{
		Config:   cfg,
		Registry: registry,
		Seed:     seed,
		Output:   out,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	return sim
}

func closeSimulation(sim *game.Simulation) {
	if err := sim.Close(); err != nil {
		slog.Error("failed to close telemetry output", "error", err)
	}
}
