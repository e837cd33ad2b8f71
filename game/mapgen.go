package game

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/botsim/vmath"
)

// Spawn placement strategies for initial populations.
const (
	SpawnRandom   = "random"
	SpawnCircle   = "circle"
	SpawnOnePlace = "one_place"
)

// Populate fills an empty map: trees on a noise mask, scattered food, then
// every registered population.
func (s *Simulation) Populate() error {
	s.plantTrees()
	s.scatterFood()
	return s.spawnPopulations()
}

// TreeMask returns the normalised noise value driving tree placement at p.
func TreeMask(noise opensimplex.Noise, p vmath.Vec, scale float64) float64 {
	return (noise.Eval2(p.X*scale, p.Y*scale) + 1) / 2
}

func (s *Simulation) plantTrees() {
	mg := s.cfg.MapGen
	tc := s.cfg.Tree
	noise := opensimplex.New(s.rng.Int63())
	rarity := max(1, mg.TreeRarity)

	cells := s.grid.Cells()
	for i := range cells {
		for k := 0; k < mg.TreesPerCell; k++ {
			p := s.randomPoint(cells[i].Bounds)
			if TreeMask(noise, p, mg.NoiseScale) <= mg.TreeThreshold || s.rng.Intn(rarity) != 0 {
				continue
			}
			fruits := tc.MinFruits
			if tc.MaxFruits > tc.MinFruits {
				fruits += s.rng.Intn(tc.MaxFruits - tc.MinFruits + 1)
			}
			spec := s.DefaultTree(p, fruits)
			spec.Delay = s.rng.Intn(max(1, tc.Cooldown))
			s.spawnInternal(spec)
		}
	}
}

func (s *Simulation) scatterFood() {
	mg := s.cfg.MapGen
	cells := s.grid.Cells()
	for i := range cells {
		for k := 0; k < mg.FoodPerCell; k++ {
			if s.rng.Float64() >= mg.FoodSpawnChance {
				continue
			}
			s.spawnInternal(s.DefaultFood(s.randomPoint(cells[i].Bounds)))
		}
	}
}

func (s *Simulation) spawnPopulations() error {
	mg := s.cfg.MapGen
	b := s.grid.Bounds()
	center := r2.Scale(0.5, r2.Add(b.Min, b.Max))
	circle := mg.CircleRadius * min(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)

	for _, name := range s.registry.Names() {
		for i := 0; i < mg.BotsPerPopulation; i++ {
			var p vmath.Vec
			switch mg.SpawnType {
			case SpawnCircle:
				a := s.rng.Float64() * 2 * math.Pi
				p = r2.Add(center, vmath.V(circle*math.Cos(a), circle*math.Sin(a)))
			case SpawnOnePlace:
				p = center
			default:
				p = s.randomPoint(b)
			}
			a := s.rng.Float64() * 2 * math.Pi
			r := s.rng.Float64() * mg.SpawnRadius
			p = s.grid.Clamp(r2.Add(p, vmath.V(r*math.Cos(a), r*math.Sin(a))))

			if _, err := s.Spawn(BotSpec{Population: name, Pos: p}); err != nil {
				return fmt.Errorf("spawning population %s: %w", name, err)
			}
		}
	}
	return nil
}

func (s *Simulation) randomPoint(b vmath.Box) vmath.Vec {
	return vmath.V(
		b.Min.X+s.rng.Float64()*(b.Max.X-b.Min.X),
		b.Min.Y+s.rng.Float64()*(b.Max.Y-b.Min.Y),
	)
}
