// Package game owns the simulation: the entity arena, the lifecycle queues,
// the per-kind update routines and the action resolver.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/botsim/components"
	"github.com/pthm-cable/botsim/config"
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/systems"
	"github.com/pthm-cable/botsim/telemetry"
)

// Options configure a new Simulation.
type Options struct {
	// Config defaults to the global config.
	Config *config.Config
	// Registry provides policies by population name. Defaults to an empty registry.
	Registry *protocol.Registry
	Seed     int64
	// Output receives telemetry CSV rows. Nil disables file output.
	Output *telemetry.OutputManager
	// Empty skips map generation.
	Empty bool
}

type deathRequest struct {
	id      core.ObjectID
	suicide bool
}

// Simulation holds the complete world state.
type Simulation struct {
	cfg      *config.Config
	world    *ecs.World
	rng      *rand.Rand
	registry *protocol.Registry
	grid     *systems.Grid

	botMapper  *ecs.Map4[components.Identity, components.Position, components.Membership, components.Bot]
	foodMapper *ecs.Map4[components.Identity, components.Position, components.Membership, components.Food]
	treeMapper *ecs.Map4[components.Identity, components.Position, components.Membership, components.Tree]

	idMap   *ecs.Map1[components.Identity]
	posMap  *ecs.Map1[components.Position]
	cellMap *ecs.Map1[components.Membership]
	botMap  *ecs.Map1[components.Bot]
	foodMap *ecs.Map1[components.Food]
	treeMap *ecs.Map1[components.Tree]

	botFilter  *ecs.Filter1[components.Bot]
	foodFilter *ecs.Filter1[components.Food]
	treeFilter *ecs.Filter1[components.Tree]

	ids      core.IDAllocator
	entities map[core.ObjectID]ecs.Entity
	order    []core.ObjectID // insertion order, drives tick traversal

	deaths       []deathRequest
	pendingDeath map[core.ObjectID]struct{}
	births       []EntitySpec

	populations map[string]*protocol.PopulationStats
	maxRadius   float64
	tick        uint64

	selection selection

	collector *telemetry.Collector
	perf      *telemetry.Profiler
	output    *telemetry.OutputManager
	lastStats telemetry.WindowStats
}

// New creates a simulation and, unless opts.Empty is set, generates the map.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	registry := opts.Registry
	if registry == nil {
		registry = protocol.NewRegistry()
	}

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:      cfg,
		world:    world,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		registry: registry,
		grid:     systems.NewGrid(cfg.Grid.CellsX, cfg.Grid.CellsY, cfg.Grid.CellSize),

		botMapper:  ecs.NewMap4[components.Identity, components.Position, components.Membership, components.Bot](world),
		foodMapper: ecs.NewMap4[components.Identity, components.Position, components.Membership, components.Food](world),
		treeMapper: ecs.NewMap4[components.Identity, components.Position, components.Membership, components.Tree](world),

		idMap:   ecs.NewMap1[components.Identity](world),
		posMap:  ecs.NewMap1[components.Position](world),
		cellMap: ecs.NewMap1[components.Membership](world),
		botMap:  ecs.NewMap1[components.Bot](world),
		foodMap: ecs.NewMap1[components.Food](world),
		treeMap: ecs.NewMap1[components.Tree](world),

		botFilter:  ecs.NewFilter1[components.Bot](world),
		foodFilter: ecs.NewFilter1[components.Food](world),
		treeFilter: ecs.NewFilter1[components.Tree](world),

		entities:     make(map[core.ObjectID]ecs.Entity),
		pendingDeath: make(map[core.ObjectID]struct{}),
		populations:  make(map[string]*protocol.PopulationStats),
		selection:    selection{cell: core.NoCell},

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:      telemetry.NewProfiler(60),
		output:    opts.Output,
	}

	s.randomizeModifiers()

	if !opts.Empty {
		if err := s.Populate(); err != nil {
			return nil, fmt.Errorf("generating map: %w", err)
		}
	}
	return s, nil
}

// Tick advances the world by one step: every live object updates in
// insertion order, then queued deaths and births are applied.
func (s *Simulation) Tick() {
	s.perf.BeginTick()

	snapshot := slices.Clone(s.order)
	for _, id := range snapshot {
		e, ok := s.entities[id]
		if !ok {
			continue
		}
		s.update(id, e)
	}

	s.perf.Queued(len(s.deaths), len(s.births))

	s.perf.Enter(telemetry.PhaseDeaths)
	s.drainDeaths()

	s.perf.Enter(telemetry.PhaseBirths)
	s.drainBirths()

	s.perf.Enter(telemetry.PhaseWorld)
	s.rainFood()

	s.tick++

	s.perf.Enter(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick()
}

func (s *Simulation) update(id core.ObjectID, e ecs.Entity) {
	if s.dying(id) {
		return
	}
	kind := s.idMap.Get(e).Kind
	start := time.Now()
	switch kind {
	case core.KindBot:
		s.updateBot(id, e)
	case core.KindFood:
		s.updateFood(id, e)
	case core.KindTree:
		s.updateTree(e)
	}
	s.perf.ObjectUpdated(kind, time.Since(start))
}

// invariant reports an engine bug. Debug builds stop; release builds log and
// let the caller clamp.
func (s *Simulation) invariant(err error, attrs ...any) {
	if s.cfg.Debug {
		panic(err)
	}
	slog.Error("invariant_violation", append([]any{"err", err, "tick", s.tick}, attrs...)...)
}

// randomizeModifiers spreads per-cell multipliers around 1 when configured.
func (s *Simulation) randomizeModifiers() {
	v := s.cfg.Grid.ModifierVariance
	if v <= 0 {
		return
	}
	cells := s.grid.Cells()
	for i := range cells {
		c := &cells[i]
		c.VisionMultiplier.Set(1 + (s.rng.Float64()*2-1)*v)
		c.SpeedMultiplier.Set(1 + (s.rng.Float64()*2-1)*v)
		c.HungerMultiplier.Set(1 + (s.rng.Float64()*2-1)*v)
	}
}

// Close flushes telemetry output.
func (s *Simulation) Close() error {
	return s.output.Close()
}

// TickCount returns the number of completed ticks.
func (s *Simulation) TickCount() uint64 { return s.tick }

// LastTickDuration returns the wall time of the latest tick.
func (s *Simulation) LastTickDuration() time.Duration { return s.perf.LastTick() }

// Perf returns tick timing for the last full profiling window.
func (s *Simulation) Perf() telemetry.Profile { return s.perf.Profile() }

// LastStats returns the most recently flushed telemetry window.
func (s *Simulation) LastStats() telemetry.WindowStats { return s.lastStats }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Len returns the number of live objects.
func (s *Simulation) Len() int { return len(s.order) }
