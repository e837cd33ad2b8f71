package game

import (
	"errors"
	"testing"

	"github.com/pthm-cable/botsim/brains"
	"github.com/pthm-cable/botsim/config"
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

func TestSpawnErrors(t *testing.T) {
	s := newTestSim(t, nil, "test")

	tests := []struct {
		name string
		spec EntitySpec
		want error
	}{
		{"off map", BotSpec{Population: "test", Pos: vmath.V(-1, 5)}, core.ErrOutOfBounds},
		{"food off map", FoodSpec{Pos: vmath.V(5, 1001), MaxCalories: 10}, core.ErrOutOfBounds},
		{"unknown policy", BotSpec{Population: "nope", Pos: vmath.V(5, 5)}, core.ErrUnknownPolicy},
		{"over allocated", BotSpec{Population: "test", Pos: vmath.V(5, 5),
			Policy: &scripted{alloc: protocol.Allocation{Health: 101}}}, core.ErrOverAllocated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Spawn(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Spawn error wrong: got %v, want %v", err, tt.want)
			}
		})
	}
	if s.Len() != 0 || s.grid.Count() != 0 {
		t.Errorf("failed spawns left %d objects", s.Len())
	}
}

func TestSpawnPanickingPolicy(t *testing.T) {
	s := newTestSim(t, nil, "test")
	_, err := s.Spawn(BotSpec{Population: "test", Pos: vmath.V(5, 5), Policy: panicky{}})
	if err == nil {
		t.Fatal("expected an error from a panicking OnBirth")
	}
	if s.Len() != 0 {
		t.Errorf("panicking birth left %d objects", s.Len())
	}
}

type panicky struct{}

func (panicky) OnBirth(protocol.InitContext) protocol.Allocation { panic("boom") }
func (panicky) OnTick(protocol.Perception) protocol.Decision { panic("boom") }
func (panicky) OnDeath(protocol.KillContext) protocol.Ack { panic("boom") }

func TestSpawnBotStats(t *testing.T) {
	s := newTestSim(t, nil, "test")
	p := &scripted{alloc: balanced()}
	id := spawnBot(t, s, "test", 150, 250, p)

	b := botShadowOf(t, s, id)
	checks := []struct {
		name      string
		got, want float64
	}{
		{"max health", b.MaxHealth, 50},
		{"health", b.Health, 5},
		{"max food", b.MaxFood, 50},
		{"food", b.Food, 25},
		{"vision", b.Vision, 50},
		{"speed", b.Speed, 3},
		{"damage", b.Damage, 10},
		{"radius", b.Radius, 4},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s wrong: got %v, want %v", c.name, c.got, c.want)
		}
	}
	if p.births != 1 {
		t.Errorf("OnBirth calls: got %d, want 1", p.births)
	}
	if st, _ := s.Population("test"); st.Alive != 1 || st.Born != 1 {
		t.Errorf("population stats wrong: %+v", st)
	}
	if ref, _ := s.CellOf(id); ref != 21 {
		t.Errorf("cell wrong: got %d, want 21", ref)
	}
}

func TestVisionCapped(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 50, 50, &scripted{alloc: protocol.Allocation{Vision: 100}})
	if got := botShadowOf(t, s, id).Vision; got != 95 {
		t.Errorf("vision wrong: got %v, want 95", got)
	}
}

func TestDestroyIdempotent(t *testing.T) {
	s := newTestSim(t, nil, "test")
	p := &scripted{alloc: balanced()}
	id := spawnBot(t, s, "test", 500, 500, p)

	if !s.RequestDestroy(id) {
		t.Fatal("first destroy rejected")
	}
	if s.RequestDestroy(id) {
		t.Error("second destroy accepted")
	}
	if s.PendingDeaths() != 1 {
		t.Errorf("pending deaths: got %d, want 1", s.PendingDeaths())
	}

	s.drainDeaths()

	if _, ok := s.Shadow(id); ok {
		t.Error("destroyed bot still resolvable")
	}
	if n := countKind(s, core.KindFood); n != 1 {
		t.Fatalf("corpses: got %d, want 1", n)
	}
	corpse := s.Objects()[0].(protocol.FoodShadow)
	if want := 0.3*50 + 0.7*25; corpse.Calories != want {
		t.Errorf("corpse calories wrong: got %v, want %v", corpse.Calories, want)
	}
	if corpse.Growing {
		t.Error("corpse should not grow")
	}
	if len(p.kills) != 1 || p.kills[0].Suicide {
		t.Errorf("OnDeath calls wrong: %+v", p.kills)
	}
	if st, _ := s.Population("test"); st.Alive != 0 || st.Died != 1 {
		t.Errorf("population stats wrong: %+v", st)
	}
	if s.RequestDestroy(id) {
		t.Error("destroy of a removed id accepted")
	}
	checkMembership(t, s)
}

func TestDeferredMutation(t *testing.T) {
	s := newTestSim(t, nil, "test")

	var seen []int
	decide := func(protocol.Perception) protocol.Decision {
		seen = append(seen, len(s.Objects()))
		return protocol.Suicide()
	}
	a := &scripted{alloc: balanced(), decide: decide}
	b := &scripted{alloc: balanced(), decide: decide}
	spawnBot(t, s, "test", 100, 100, a)
	spawnBot(t, s, "test", 110, 100, b)

	s.Tick()

	if len(seen) != 2 || seen[0] != 2 || seen[1] != 2 {
		t.Errorf("objects seen during update: got %v, want [2 2]", seen)
	}
	if got := countKind(s, core.KindBot); got != 0 {
		t.Errorf("bots after tick: got %d, want 0", got)
	}
	if got := countKind(s, core.KindFood); got != 2 {
		t.Errorf("corpses after tick: got %d, want 2", got)
	}
	if len(a.kills) != 1 || !a.kills[0].Suicide {
		t.Errorf("suicide not reported: %+v", a.kills)
	}
	checkMembership(t, s)
}

func TestDeadBotSkipsUpdate(t *testing.T) {
	s := newTestSim(t, nil, "test")
	killer := &scripted{alloc: balanced()}
	victim := &scripted{alloc: balanced()}
	spawnBot(t, s, "test", 300, 300, killer)
	vid := spawnBot(t, s, "test", 500, 500, victim)
	killer.decide = func(protocol.Perception) protocol.Decision {
		s.RequestDestroy(vid)
		return protocol.Idle()
	}

	s.Tick()

	if victim.ticks != 0 {
		t.Errorf("bot queued for death was updated %d times", victim.ticks)
	}
	if _, ok := s.Shadow(vid); ok {
		t.Error("bot queued for death survived the tick")
	}
}

func TestFoodLifecycle(t *testing.T) {
	s := newTestSim(t, nil)
	id := mustSpawn(t, s, FoodSpec{Pos: vmath.V(50, 50), MaxCalories: 10, Calories: 8, GrowthRate: 1, DecayRate: 5})

	want := []struct {
		cal     float64
		growing bool
	}{{9, true}, {10, false}, {5, false}}
	for i, w := range want {
		s.Tick()
		sh, ok := s.Shadow(id)
		if !ok {
			t.Fatalf("tick %d: food vanished", i+1)
		}
		f := sh.(protocol.FoodShadow)
		if f.Calories != w.cal || f.Growing != w.growing {
			t.Errorf("tick %d: got calories %v growing %v, want %v %v", i+1, f.Calories, f.Growing, w.cal, w.growing)
		}
	}
	s.Tick()
	if _, ok := s.Shadow(id); ok {
		t.Error("fully decayed food still present")
	}
	checkMembership(t, s)
}

func TestTreeFruiting(t *testing.T) {
	s := newTestSim(t, nil)
	spec := s.DefaultTree(vmath.V(500, 500), 3)
	spec.Cooldown, spec.Delay = 5, 0
	tree := mustSpawn(t, s, spec)

	s.Tick()
	if got := countKind(s, core.KindFood); got != 3 {
		t.Fatalf("fruit after first drop: got %d, want 3", got)
	}
	center := vmath.V(500, 500)
	for _, sh := range s.Objects() {
		f, ok := sh.(protocol.FoodShadow)
		if !ok {
			continue
		}
		if d := vmath.Dist(center, f.Pos); d < 30.9 || d > 31.1 {
			t.Errorf("fruit %d at distance %v, want 31", f.ID, d)
		}
		if f.MaxCalories != 500 {
			t.Errorf("fruit max calories: got %v, want 500", f.MaxCalories)
		}
	}

	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if got := countKind(s, core.KindFood); got != 3 {
		t.Errorf("fruit during cooldown: got %d, want 3", got)
	}
	s.Tick()
	if got := countKind(s, core.KindFood); got != 6 {
		t.Errorf("fruit after second drop: got %d, want 6", got)
	}
	if sh, _ := s.Shadow(tree); sh.(protocol.TreeShadow).Cooldown != 5 {
		t.Errorf("cooldown not reset: %+v", sh)
	}
	checkMembership(t, s)
}

func TestTickOrderDeterministic(t *testing.T) {
	run := func() []vmath.Vec {
		cfg := config.Default()
		cfg.Grid.CellsX, cfg.Grid.CellsY = 4, 4
		cfg.MapGen.BotsPerPopulation = 6
		cfg.Tree.Cooldown = 50
		reg := protocol.NewRegistry()
		if err := brains.Register(reg); err != nil {
			t.Fatal(err)
		}
		s, err := New(Options{Config: cfg, Registry: reg, Seed: 42})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 200; i++ {
			s.Tick()
			checkMembership(t, s)
		}
		var out []vmath.Vec
		for _, sh := range s.Objects() {
			out = append(out, sh.Base().Pos)
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs diverged: %d vs %d objects", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("object %d diverged: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestStarvationKills(t *testing.T) {
	s := newTestSim(t, nil, "test")
	p := &scripted{alloc: balanced()}
	id := spawnBot(t, s, "test", 100, 100, p)
	bot := s.botMap.Get(s.entities[id])
	bot.Food.Set(0)
	bot.Health.Set(1)

	// 0.5 starvation damage per tick, removal on the tick after health hits zero.
	for i := 0; i < 3; i++ {
		s.Tick()
	}
	if _, ok := s.Shadow(id); ok {
		t.Error("starved bot still alive")
	}
	if len(p.kills) != 1 || p.kills[0].Suicide {
		t.Errorf("death not reported: %+v", p.kills)
	}
}

func TestZeroHealthBotActsOnce(t *testing.T) {
	s := newTestSim(t, nil, "test")
	p := &scripted{alloc: balanced()}
	id := spawnBot(t, s, "test", 100, 100, p)
	bot := s.botMap.Get(s.entities[id])
	bot.Food.Set(0)
	bot.Health.Set(0.5)

	s.Tick()
	if p.ticks != 1 {
		t.Errorf("policy calls on the fatal tick: got %d, want 1", p.ticks)
	}
	if b := botShadowOf(t, s, id); b.Health != 0 {
		t.Errorf("health after starving: got %v, want 0", b.Health)
	}

	s.Tick()
	if p.ticks != 1 {
		t.Errorf("policy called after health hit zero: got %d calls", p.ticks)
	}
	if _, ok := s.Shadow(id); ok {
		t.Error("bot at zero health survived its next update")
	}
}

func TestPanickingTickIdles(t *testing.T) {
	s := newTestSim(t, nil, "test")
	p := &scripted{alloc: balanced(), decide: func(protocol.Perception) protocol.Decision { panic("boom") }}
	id := spawnBot(t, s, "test", 100, 100, p)
	before := botShadowOf(t, s, id).Pos

	s.Tick()

	bot := s.botMap.Get(s.entities[id])
	if bot.LastAction != protocol.ActionIdle || !bot.LastActionOK {
		t.Errorf("last action wrong: got %s %v, want idle true", bot.LastAction, bot.LastActionOK)
	}
	if got := botShadowOf(t, s, id).Pos; got != before {
		t.Errorf("panicking bot moved from %v to %v", before, got)
	}
}

func TestSelection(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 250, 250, &scripted{alloc: balanced()})

	s.SelectAt(vmath.V(252, 251))
	if sh, ok := s.Selected(); !ok || sh.Base().ID != id {
		t.Errorf("click on bot did not select it: %v %v", sh, ok)
	}

	s.SelectAt(vmath.V(720, 130))
	if _, ok := s.Selected(); ok {
		t.Error("click on empty ground kept an object selected")
	}
	c, ok := s.SelectedCell()
	if !ok || c.Col != 7 || c.Row != 1 {
		t.Errorf("selected cell wrong: got %+v %v", c, ok)
	}

	s.ClearSelection()
	if _, ok := s.SelectedCell(); ok {
		t.Error("selection not cleared")
	}
}
