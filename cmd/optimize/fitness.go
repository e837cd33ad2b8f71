package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/botsim/brains"
	"github.com/pthm-cable/botsim/config"
	"github.com/pthm-cable/botsim/game"
	"github.com/pthm-cable/botsim/protocol"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   uint64
	seeds      []int64
	baseConfig config.Config

	mu          sync.Mutex
	bestFitness float64
	bestCensus  []census
	lastQuality float64 // quality from most recent Evaluate call
}

// census is the per-population head count at one sample tick.
type census struct {
	Tick  uint64         `json:"tick"`
	Alive map[string]int `json:"alive"`
}

// NewFitnessEvaluator creates a new evaluator. base is copied.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, base *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  *base,
		bestFitness: math.Inf(1),
	}
}

// BestCensus returns the population history of the best seed so far.
func (fe *FitnessEvaluator) BestCensus() []census {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestCensus
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A population below minViablePop for graceTicks in a row counts as extinct.
// A run ends once fewer than minCoexisting populations remain viable.
const (
	minViablePop   = 2
	minCoexisting  = 2
	graceTicks     = 300
	warmupTicks    = 100
	sampleInterval = 100
)

type runResult struct {
	survivalTicks uint64
	samples       []census
}

type seedResult struct {
	fitness float64
	quality float64
	samples []census
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			quality := computeQuality(r.samples)
			results[idx] = seedResult{
				fitness: computeFitness(r.survivalTicks, quality),
				quality: quality,
				samples: r.samples,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeed := math.Inf(1)
	var bestSamples []census
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeed {
			bestSeed = r.fitness
			bestSamples = r.samples
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestCensus = bestSamples
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes one headless run until coexistence ends or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	cfg.Telemetry.LogStats = false
	cfg.Telemetry.LogEvents = false

	result := &runResult{}

	registry := protocol.NewRegistry()
	if err := brains.Register(registry); err != nil {
		return result
	}
	sim, err := game.New(game.Options{Config: &cfg, Registry: registry, Seed: seed})
	if err != nil {
		return result
	}
	defer sim.Close()

	names := sim.PopulationNames()
	below := make(map[string]int, len(names))

	for sim.TickCount() < fe.maxTicks {
		sim.Tick()
		tick := sim.TickCount()

		if tick%sampleInterval == 0 {
			result.samples = append(result.samples, takeCensus(sim, names))
		}
		if tick < warmupTicks {
			continue
		}

		viable := 0
		for _, name := range names {
			st, _ := sim.Population(name)
			if st.Alive < minViablePop {
				below[name]++
			} else {
				below[name] = 0
			}
			if below[name] < graceTicks {
				viable++
			}
		}
		if viable < minCoexisting {
			result.survivalTicks = tick
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

func takeCensus(sim *game.Simulation, names []string) census {
	c := census{Tick: sim.TickCount(), Alive: make(map[string]int, len(names))}
	for _, name := range names {
		st, _ := sim.Population(name)
		c.Alive[name] = st.Alive
	}
	return c
}

// computeFitness is -(survivalTicks × (1 + 0.2 × quality)). Survival
// dominates; quality separates configs that survive equally long.
func computeFitness(survivalTicks uint64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightEvenness  = 0.6
	qualityWeightStability = 0.4
)

// computeQuality scores a run's census history in [0, 1]: how evenly the
// populations share the map, and how steady the total head count is.
func computeQuality(samples []census) float64 {
	if len(samples) == 0 {
		return 0
	}

	var evenSum float64
	totals := make([]float64, 0, len(samples))
	for _, c := range samples {
		total := 0
		for _, n := range c.Alive {
			total += n
		}
		totals = append(totals, float64(total))
		evenSum += evenness(c.Alive, total)
	}
	evenScore := evenSum / float64(len(samples))

	stabilityScore := 0.0
	if len(totals) >= 2 {
		mean, std := stat.MeanStdDev(totals, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	return clampTo(qualityWeightEvenness*evenScore+qualityWeightStability*stabilityScore, 0, 1)
}

// evenness is Pielou's index: Shannon entropy over the maximum for the
// number of populations.
func evenness(alive map[string]int, total int) float64 {
	if total == 0 || len(alive) < 2 {
		return 0
	}
	p := make([]float64, 0, len(alive))
	for _, n := range alive {
		p = append(p, float64(n)/float64(total))
	}
	return stat.Entropy(p) / math.Log(float64(len(alive)))
}
