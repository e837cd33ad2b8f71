package telemetry

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pthm-cable/botsim/core"
)

// Phase is one stage of a simulation tick.
type Phase uint8

const (
	PhaseUpdate Phase = iota
	PhaseDeaths
	PhaseBirths
	PhaseWorld
	PhaseTelemetry
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseDeaths:
		return "deaths"
	case PhaseBirths:
		return "births"
	case PhaseWorld:
		return "world"
	case PhaseTelemetry:
		return "telemetry"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Phases returns the tick phases in execution order.
func Phases() []Phase {
	return []Phase{PhaseUpdate, PhaseDeaths, PhaseBirths, PhaseWorld, PhaseTelemetry}
}

const kindCount = int(core.KindTree) + 1

// window holds running sums for the ticks since the last roll.
type window struct {
	ticks            int
	total            time.Duration
	minTick, maxTick time.Duration
	phase            [phaseCount]time.Duration
	kindTime         [kindCount]time.Duration
	kindObjects      [kindCount]int
	deaths, births   int
	maxDeaths        int
	maxBirths        int
}

// Profiler times ticks phase by phase and object updates kind by kind.
// Every size ticks the sums roll into a Profile.
type Profiler struct {
	size int
	open window
	done Profile

	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	last       time.Duration
}

// NewProfiler returns a profiler that publishes every size ticks.
func NewProfiler(size int) *Profiler {
	return &Profiler{size: max(size, 1)}
}

// BeginTick starts the clock. The tick opens in the update phase.
func (p *Profiler) BeginTick() {
	now := time.Now()
	p.tickStart, p.phaseStart = now, now
	p.phase = PhaseUpdate
}

// Enter closes the running phase and opens ph.
func (p *Profiler) Enter(ph Phase) {
	now := time.Now()
	p.open.phase[p.phase] += now.Sub(p.phaseStart)
	p.phase, p.phaseStart = ph, now
}

// ObjectUpdated charges d to one update of an object of kind k.
func (p *Profiler) ObjectUpdated(k core.Kind, d time.Duration) {
	if int(k) >= kindCount {
		return
	}
	p.open.kindTime[k] += d
	p.open.kindObjects[k]++
}

// Queued records the death and birth queue lengths before they drain.
func (p *Profiler) Queued(deaths, births int) {
	w := &p.open
	w.deaths += deaths
	w.births += births
	w.maxDeaths = max(w.maxDeaths, deaths)
	w.maxBirths = max(w.maxBirths, births)
}

// EndTick closes the tick and publishes the window once it is full.
func (p *Profiler) EndTick() {
	now := time.Now()
	p.open.phase[p.phase] += now.Sub(p.phaseStart)

	d := now.Sub(p.tickStart)
	p.last = d
	w := &p.open
	if w.ticks == 0 || d < w.minTick {
		w.minTick = d
	}
	w.maxTick = max(w.maxTick, d)
	w.total += d
	w.ticks++

	if w.ticks >= p.size {
		p.done = w.profile()
		p.open = window{}
	}
}

// Profile returns the last full window. Before the first window fills it
// returns the ticks seen so far.
func (p *Profiler) Profile() Profile {
	if p.done.Ticks > 0 {
		return p.done
	}
	return p.open.profile()
}

// LastTick returns the wall time of the most recent tick.
func (p *Profiler) LastTick() time.Duration { return p.last }

// KindCost is the update cost of one object kind, averaged per tick.
type KindCost struct {
	Objects   float64 // updates per tick
	PerTick   time.Duration
	PerObject time.Duration
}

// Profile is per-tick averages over one window.
type Profile struct {
	Ticks   int
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	Phase   [phaseCount]time.Duration
	Kinds   [kindCount]KindCost

	AvgDeaths, AvgBirths float64
	MaxDeaths, MaxBirths int
}

func (w *window) profile() Profile {
	pr := Profile{
		Ticks:     w.ticks,
		MinTick:   w.minTick,
		MaxTick:   w.maxTick,
		MaxDeaths: w.maxDeaths,
		MaxBirths: w.maxBirths,
	}
	if w.ticks == 0 {
		return pr
	}
	n := time.Duration(w.ticks)
	pr.AvgTick = w.total / n
	for i, d := range w.phase {
		pr.Phase[i] = d / n
	}
	for i, d := range w.kindTime {
		c := &pr.Kinds[i]
		c.PerTick = d / n
		c.Objects = float64(w.kindObjects[i]) / float64(w.ticks)
		if w.kindObjects[i] > 0 {
			c.PerObject = d / time.Duration(w.kindObjects[i])
		}
	}
	pr.AvgDeaths = float64(w.deaths) / float64(w.ticks)
	pr.AvgBirths = float64(w.births) / float64(w.ticks)
	return pr
}

// Share returns the percentage of the average tick spent in ph.
func (pr Profile) Share(ph Phase) float64 {
	if pr.AvgTick <= 0 || ph >= phaseCount {
		return 0
	}
	return float64(pr.Phase[ph]) / float64(pr.AvgTick) * 100
}

// Kind returns the update cost of objects of kind k.
func (pr Profile) Kind(k core.Kind) KindCost {
	if int(k) >= kindCount {
		return KindCost{}
	}
	return pr.Kinds[k]
}

func (pr Profile) TicksPerSecond() float64 {
	if pr.AvgTick <= 0 {
		return 0
	}
	return float64(time.Second) / float64(pr.AvgTick)
}

// LogStats logs the profile as a single perf line.
func (pr Profile) LogStats() {
	attrs := []any{
		"ticks", pr.Ticks,
		"avg_tick_us", pr.AvgTick.Microseconds(),
		"max_tick_us", pr.MaxTick.Microseconds(),
		"ticks_per_sec", int(pr.TicksPerSecond()),
	}
	for _, ph := range Phases() {
		if pct := pr.Share(ph); pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", math.Round(pct*10)/10)
		}
	}
	for k := range kindCount {
		if c := pr.Kinds[k]; c.Objects > 0 {
			attrs = append(attrs, core.Kind(k).String()+"_ns", c.PerObject.Nanoseconds())
		}
	}
	attrs = append(attrs, "max_deaths", pr.MaxDeaths, "max_births", pr.MaxBirths)
	slog.Info("perf", attrs...)
}

// ProfileRow is one line of perf.csv.
type ProfileRow struct {
	WindowEnd    uint64  `csv:"window_end"`
	Ticks        int     `csv:"ticks"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	UpdatePct    float64 `csv:"update_pct"`
	DeathsPct    float64 `csv:"deaths_pct"`
	BirthsPct    float64 `csv:"births_pct"`
	WorldPct     float64 `csv:"world_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	BotNS        int64   `csv:"bot_update_ns"`
	FoodNS       int64   `csv:"food_update_ns"`
	TreeNS       int64   `csv:"tree_update_ns"`
	AvgDeaths    float64 `csv:"deaths_avg"`
	MaxDeaths    int     `csv:"deaths_max"`
	AvgBirths    float64 `csv:"births_avg"`
	MaxBirths    int     `csv:"births_max"`
}

// Row flattens the profile for perf.csv.
func (pr Profile) Row(windowEnd uint64) ProfileRow {
	return ProfileRow{
		WindowEnd:    windowEnd,
		Ticks:        pr.Ticks,
		AvgTickUS:    pr.AvgTick.Microseconds(),
		MinTickUS:    pr.MinTick.Microseconds(),
		MaxTickUS:    pr.MaxTick.Microseconds(),
		UpdatePct:    pr.Share(PhaseUpdate),
		DeathsPct:    pr.Share(PhaseDeaths),
		BirthsPct:    pr.Share(PhaseBirths),
		WorldPct:     pr.Share(PhaseWorld),
		TelemetryPct: pr.Share(PhaseTelemetry),
		BotNS:        pr.Kind(core.KindBot).PerObject.Nanoseconds(),
		FoodNS:       pr.Kind(core.KindFood).PerObject.Nanoseconds(),
		TreeNS:       pr.Kind(core.KindTree).PerObject.Nanoseconds(),
		AvgDeaths:    pr.AvgDeaths,
		MaxDeaths:    pr.MaxDeaths,
		AvgBirths:    pr.AvgBirths,
		MaxBirths:    pr.MaxBirths,
	}
}
