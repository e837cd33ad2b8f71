package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEat(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 100, 100, &scripted{alloc: balanced()})
	fid := mustSpawn(t, s, FoodSpec{Pos: vmath.V(106, 100), MaxCalories: 20, Calories: 20, Mature: true})
	e := s.entities[id]
	s.botMap.Get(e).Food.Set(10)

	if !s.resolve(id, e, protocol.EatNearest()) {
		t.Fatal("eat failed")
	}
	if got := s.botMap.Get(e).Food.Value(); !approx(got, 14.85) {
		t.Errorf("bot food wrong: got %v, want 14.85", got)
	}
	sh, _ := s.Shadow(fid)
	if got := sh.(protocol.FoodShadow).Calories; got != 15 {
		t.Errorf("food calories wrong: got %v, want 15", got)
	}
}

func TestEatMisses(t *testing.T) {
	tests := []struct {
		name string
		food FoodSpec
		byID bool
	}{
		{"too far", FoodSpec{Pos: vmath.V(120, 100), MaxCalories: 20, Calories: 20}, false},
		{"empty", FoodSpec{Pos: vmath.V(103, 100), MaxCalories: 20, Calories: 0}, false},
		{"wrong id", FoodSpec{Pos: vmath.V(103, 100), MaxCalories: 20, Calories: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil, "test")
			id := spawnBot(t, s, "test", 100, 100, &scripted{alloc: balanced()})
			mustSpawn(t, s, tt.food)
			e := s.entities[id]
			s.botMap.Get(e).Food.Set(10)

			d := protocol.EatNearest()
			if tt.byID {
				d = protocol.EatByID(999)
			}
			if s.resolve(id, e, d) {
				t.Error("eat succeeded")
			}
			if got := s.botMap.Get(e).Food.Value(); !approx(got, 9.95) {
				t.Errorf("only the tax should be paid: got %v, want 9.95", got)
			}
		})
	}
}

func TestEatAcrossCellEdge(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 101, 150, &scripted{alloc: balanced()})
	fid := mustSpawn(t, s, FoodSpec{Pos: vmath.V(97, 150), MaxCalories: 20, Calories: 20})
	if a, b := s.entities[id], s.entities[fid]; s.cellMap.Get(a).Cell == s.cellMap.Get(b).Cell {
		t.Fatal("setup: bot and food share a cell")
	}
	if !s.resolve(id, s.entities[id], protocol.EatByID(fid)) {
		t.Error("eat across a cell edge failed")
	}
}

func TestEatLastBiteDestroysFood(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 100, 100, &scripted{alloc: balanced()})
	fid := mustSpawn(t, s, FoodSpec{Pos: vmath.V(103, 100), MaxCalories: 20, Calories: 3, Mature: true})
	e := s.entities[id]
	s.botMap.Get(e).Food.Set(10)

	if !s.resolve(id, e, protocol.EatByID(fid)) {
		t.Fatal("eat failed")
	}
	if got := s.botMap.Get(e).Food.Value(); !approx(got, 12.85) {
		t.Errorf("bot food wrong: got %v, want 12.85", got)
	}
	if s.PendingDeaths() != 1 {
		t.Fatalf("eaten food not queued for removal")
	}
	s.drainDeaths()
	if _, ok := s.Shadow(fid); ok {
		t.Error("eaten food still present")
	}
}

func TestAttack(t *testing.T) {
	s := newTestSim(t, nil, "red", "blue")
	att := spawnBot(t, s, "red", 100, 100, &scripted{alloc: balanced()})
	kin := spawnBot(t, s, "red", 105, 100, &scripted{alloc: balanced()})
	e := s.entities[att]
	s.botMap.Get(e).Food.Set(10)

	if s.resolve(att, e, protocol.AttackNearest(false)) {
		t.Fatal("attack hit kin with own kind excluded")
	}
	if got := s.botMap.Get(e).Food.Value(); !approx(got, 9.9) {
		t.Errorf("missed attack cost: got %v, want 9.9", got)
	}

	enemy := spawnBot(t, s, "blue", 100, 106, &scripted{alloc: balanced()})
	e = s.entities[att]
	if !s.resolve(att, e, protocol.AttackNearest(false)) {
		t.Fatal("attack on enemy failed")
	}
	v := botShadowOf(t, s, enemy)
	if v.Health != 0 || !v.RecentlyAttacked {
		t.Errorf("victim wrong: health %v attacked %v", v.Health, v.RecentlyAttacked)
	}
	if got := botShadowOf(t, s, kin).Health; got != 5 {
		t.Errorf("kin hurt: health %v", got)
	}
	if got := s.botMap.Get(e).Food.Value(); !approx(got, 9.4) {
		t.Errorf("hit cost: got %v, want 9.4", got)
	}

	if !s.resolve(att, e, protocol.AttackByID(true, kin)) {
		t.Error("attack by id on kin with own kind included failed")
	}
}

func TestQueuedTargetsIgnored(t *testing.T) {
	tests := []struct {
		name     string
		food     bool
		decision func(target core.ObjectID) protocol.Decision
		wantFood float64
	}{
		{"attack by id", false, func(id core.ObjectID) protocol.Decision { return protocol.AttackByID(false, id) }, 9.9},
		{"attack nearest", false, func(core.ObjectID) protocol.Decision { return protocol.AttackNearest(false) }, 9.9},
		{"eat by id", true, func(id core.ObjectID) protocol.Decision { return protocol.EatByID(id) }, 9.95},
		{"eat nearest", true, func(core.ObjectID) protocol.Decision { return protocol.EatNearest() }, 9.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil, "red", "blue")
			att := spawnBot(t, s, "red", 100, 100, &scripted{alloc: balanced()})
			var target core.ObjectID
			if tt.food {
				target = mustSpawn(t, s, FoodSpec{Pos: vmath.V(106, 100), MaxCalories: 20, Calories: 20, Mature: true})
			} else {
				target = spawnBot(t, s, "blue", 100, 106, &scripted{alloc: balanced()})
			}
			before, _ := s.Shadow(target)
			e := s.entities[att]
			s.botMap.Get(e).Food.Set(10)

			if !s.RequestDestroy(target) {
				t.Fatal("target not queued")
			}
			if s.resolve(att, e, tt.decision(target)) {
				t.Error("queued target was hit")
			}
			if got := s.botMap.Get(e).Food.Value(); !approx(got, tt.wantFood) {
				t.Errorf("actor food wrong: got %v, want %v", got, tt.wantFood)
			}
			after, _ := s.Shadow(target)
			if after != before {
				t.Errorf("target changed: got %+v, want %+v", after, before)
			}
		})
	}
}

func TestSpawnChild(t *testing.T) {
	tests := []struct {
		name      string
		health    float64
		maxHealth float64
	}{
		{"low health", 5, 50},
		{"full health", 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil, "test")
			id := spawnBot(t, s, "test", 500, 500, &scripted{alloc: balanced()})
			e := s.entities[id]
			bot := s.botMap.Get(e)
			bot.Food.Set(45)
			if err := bot.Health.SetMax(tt.maxHealth); err != nil {
				t.Fatal(err)
			}
			bot.Health.Set(tt.health)

			if !s.resolve(id, e, protocol.Spawn("", 30)) {
				t.Fatal("spawn failed")
			}
			b := botShadowOf(t, s, id)
			if b.Food != 15 || b.Health != tt.health {
				t.Errorf("parent after spawn: food %v health %v, want 15 %v", b.Food, b.Health, tt.health)
			}
			if s.PendingBirths() != 1 {
				t.Fatalf("pending births: got %d, want 1", s.PendingBirths())
			}
			if st, _ := s.Population("test"); st.Alive != 1 || s.Len() != 1 {
				t.Errorf("child live before drain: alive %d, objects %d", st.Alive, s.Len())
			}

			s.drainBirths()
			if st, _ := s.Population("test"); st.Alive != 2 || st.Born != 2 {
				t.Errorf("population after birth: %+v", st)
			}
			child := s.Objects()[1].(protocol.BotShadow)
			if d := vmath.Dist(child.Pos, b.Pos); d > s.cfg.Bot.SpawnOffset {
				t.Errorf("child spawned %v away, limit %v", d, s.cfg.Bot.SpawnOffset)
			}
			checkMembership(t, s)
		})
	}
}

func TestSpawnChildPaysWithHealth(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 500, 500, &scripted{alloc: balanced()})
	e := s.entities[id]
	bot := s.botMap.Get(e)
	bot.Food.Set(20)
	bot.Health.Set(30)

	if !s.resolve(id, e, protocol.Spawn("", 30)) {
		t.Fatal("spawn failed")
	}
	b := botShadowOf(t, s, id)
	if b.Food != 0 || b.Health != 20 {
		t.Errorf("parent after spawn: food %v health %v, want 0 20", b.Food, b.Health)
	}
}

func TestSpawnChildAborts(t *testing.T) {
	tests := []struct {
		name   string
		policy string
		food   float64
		health float64
	}{
		{"would die", "", 5, 5},
		{"exactly dies", "", 5, 25},
		{"unknown policy", "ghost", 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil, "test")
			id := spawnBot(t, s, "test", 500, 500, &scripted{alloc: balanced()})
			e := s.entities[id]
			bot := s.botMap.Get(e)
			bot.Food.Set(tt.food)
			bot.Health.Set(tt.health)

			if s.resolve(id, e, protocol.Spawn(tt.policy, 30)) {
				t.Error("spawn succeeded")
			}
			b := botShadowOf(t, s, id)
			if b.Food != min(tt.food, 50) || b.Health != min(tt.health, 50) {
				t.Errorf("aborted spawn charged the parent: food %v health %v", b.Food, b.Health)
			}
			if s.PendingBirths() != 0 {
				t.Error("aborted spawn queued a birth")
			}
		})
	}
}

func TestMoveClampsToMap(t *testing.T) {
	tests := []struct {
		name  string
		start vmath.Vec
		dir   vmath.Vec
		want  vmath.Vec
		cell  core.CellRef
	}{
		{"far edge", vmath.V(999, 500), vmath.V(1, 0), vmath.V(1000, 500), 59},
		{"origin corner", vmath.V(1, 1), vmath.V(-1, -1), vmath.V(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil, "test")
			id := spawnBot(t, s, "test", tt.start.X, tt.start.Y, &scripted{alloc: balanced()})
			e := s.entities[id]

			if !s.resolve(id, e, protocol.Move(tt.dir, 1)) {
				t.Fatal("move failed")
			}
			b := botShadowOf(t, s, id)
			if b.Pos != tt.want {
				t.Errorf("position wrong: got %v, want %v", b.Pos, tt.want)
			}
			if ref, _ := s.CellOf(id); ref != tt.cell {
				t.Errorf("cell wrong: got %d, want %d", ref, tt.cell)
			}
			checkMembership(t, s)
		})
	}
}

func TestMoveCrossesCells(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 98, 50, &scripted{alloc: balanced()})
	e := s.entities[id]
	s.botMap.Get(e).Food.Set(10)

	s.resolve(id, e, protocol.Move(vmath.V(2, 0), 0.5))
	b := botShadowOf(t, s, id)
	if !approx(b.Pos.X, 99.5) {
		t.Errorf("half-speed step wrong: got x %v, want 99.5", b.Pos.X)
	}
	if !approx(b.Food, 9.95) {
		t.Errorf("move cost wrong: got %v, want 9.95", b.Food)
	}

	s.resolve(id, e, protocol.Move(vmath.V(1, 0), 1))
	if ref, _ := s.CellOf(id); ref != 1 {
		t.Errorf("cell after crossing: got %d, want 1", ref)
	}
	checkMembership(t, s)
}

func TestGoToStopsOnTarget(t *testing.T) {
	s := newTestSim(t, nil, "test")
	id := spawnBot(t, s, "test", 50, 50, &scripted{alloc: balanced()})
	e := s.entities[id]
	target := vmath.V(51, 51)

	s.resolve(id, e, protocol.GoTo(target))
	if got := botShadowOf(t, s, id).Pos; !approx(got.X, 51) || !approx(got.Y, 51) {
		t.Errorf("goto overshot: got %v, want %v", got, target)
	}
}

func TestMoveRejectsNaN(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name     string
		decision protocol.Decision
	}{
		{"NaN fraction", protocol.Move(vmath.V(1, 0), math.NaN())},
		{"NaN direction", protocol.Move(vmath.V(math.NaN(), 0), 1)},
		{"infinite direction", protocol.Move(vmath.V(inf, 0), 1)},
		{"infinite target", protocol.GoTo(vmath.V(inf, 5))},
		{"NaN target", protocol.GoTo(vmath.V(50, math.NaN()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil, "test")
			id := spawnBot(t, s, "test", 50, 50, &scripted{alloc: balanced()})
			e := s.entities[id]
			s.botMap.Get(e).Food.Set(10)

			if s.resolve(id, e, tt.decision) {
				t.Error("decision accepted")
			}
			b := botShadowOf(t, s, id)
			if b.Pos != vmath.V(50, 50) || b.Food != 10 {
				t.Errorf("rejected move changed the bot: pos %v food %v", b.Pos, b.Food)
			}
			if got, _ := s.CellOf(id); got != core.CellRef(0) {
				t.Errorf("cell changed: %d", got)
			}
		})
	}
}
