package game

import (
	"testing"

	"github.com/pthm-cable/botsim/config"
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// scripted is a test policy with a fixed allocation and a pluggable decision.
type scripted struct {
	alloc  protocol.Allocation
	decide func(protocol.Perception) protocol.Decision

	births int
	ticks  int
	kills  []protocol.KillContext
}

func (p *scripted) OnBirth(protocol.InitContext) protocol.Allocation {
	p.births++
	return p.alloc
}

func (p *scripted) OnTick(in protocol.Perception) protocol.Decision {
	p.ticks++
	if p.decide == nil {
		return protocol.Idle()
	}
	return p.decide(in)
}

func (p *scripted) OnDeath(ctx protocol.KillContext) protocol.Ack {
	p.kills = append(p.kills, ctx)
	return protocol.Ack{}
}

// balanced spends 50 points: 50 max health, 50 max food, speed 3, damage 10.
func balanced() protocol.Allocation {
	return protocol.Allocation{Health: 10, Food: 10, Vision: 10, Speed: 10, Attack: 10}
}

// small spends 25 points, enough for children bought with 30.
func small() protocol.Allocation {
	return protocol.Allocation{Health: 5, Food: 5, Vision: 5, Speed: 5, Attack: 5}
}

func testRegistry(t *testing.T, names ...string) *protocol.Registry {
	t.Helper()
	r := protocol.NewRegistry()
	for _, name := range names {
		if err := r.Register(name, func() protocol.Policy { return &scripted{alloc: small()} }); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func newTestSim(t *testing.T, mutate func(*config.Config), populations ...string) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Debug = true
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(Options{Config: cfg, Registry: testRegistry(t, populations...), Seed: 1, Empty: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustSpawn(t *testing.T, s *Simulation, spec EntitySpec) core.ObjectID {
	t.Helper()
	id, err := s.Spawn(spec)
	if err != nil {
		t.Fatalf("Spawn(%+v): %v", spec, err)
	}
	return id
}

func spawnBot(t *testing.T, s *Simulation, pop string, x, y float64, p *scripted) core.ObjectID {
	t.Helper()
	return mustSpawn(t, s, BotSpec{Population: pop, Pos: vmath.V(x, y), Policy: p})
}

func botShadowOf(t *testing.T, s *Simulation, id core.ObjectID) protocol.BotShadow {
	t.Helper()
	sh, ok := s.Shadow(id)
	if !ok {
		t.Fatalf("bot %d not found", id)
	}
	return sh.(protocol.BotShadow)
}

func countKind(s *Simulation, k core.Kind) int {
	n := 0
	for _, sh := range s.Objects() {
		if sh.Base().Kind == k {
			n++
		}
	}
	return n
}

// checkMembership verifies every live object is listed in exactly the cell
// owning its position.
func checkMembership(t *testing.T, s *Simulation) {
	t.Helper()
	if s.grid.Count() != s.Len() {
		t.Fatalf("grid lists %d objects, registry holds %d", s.grid.Count(), s.Len())
	}
	for _, id := range s.IDs() {
		sh, _ := s.Shadow(id)
		want, ok := s.grid.CellAt(sh.Base().Pos)
		if !ok {
			t.Fatalf("object %d off the map at %v", id, sh.Base().Pos)
		}
		got, _ := s.CellOf(id)
		if got != want {
			t.Fatalf("object %d at %v listed in cell %d, want %d", id, sh.Base().Pos, got, want)
		}
		if !s.grid.Cell(got).Has(id) {
			t.Fatalf("cell %d does not list object %d", got, id)
		}
	}
}
