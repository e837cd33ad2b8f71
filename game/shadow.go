package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
)

// Shadow returns a value copy of the object's visible state.
func (s *Simulation) Shadow(id core.ObjectID) (protocol.Shadow, bool) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false
	}
	switch s.idMap.Get(e).Kind {
	case core.KindBot:
		return s.botShadow(id, e), true
	case core.KindFood:
		return s.foodShadow(id, e), true
	case core.KindTree:
		return s.treeShadow(id, e), true
	}
	return nil, false
}

func (s *Simulation) base(id core.ObjectID, e ecs.Entity, kind core.Kind, radius float64) protocol.ObjectShadow {
	return protocol.ObjectShadow{ID: id, Kind: kind, Pos: s.posMap.Get(e).Vec, Radius: radius}
}

func (s *Simulation) botShadow(id core.ObjectID, e ecs.Entity) protocol.BotShadow {
	b := s.botMap.Get(e)
	return protocol.BotShadow{
		ObjectShadow:     s.base(id, e, core.KindBot, b.Radius()),
		Population:       b.Population,
		Health:           b.Health.Value(),
		MaxHealth:        b.Health.Max(),
		Food:             b.Food.Value(),
		MaxFood:          b.Food.Max(),
		Vision:           b.Vision,
		Speed:            b.Speed,
		Damage:           b.Damage,
		RecentlyAttacked: b.RecentlyAttacked,
		Color:            b.Color,
	}
}

func (s *Simulation) foodShadow(id core.ObjectID, e ecs.Entity) protocol.FoodShadow {
	f := s.foodMap.Get(e)
	return protocol.FoodShadow{
		ObjectShadow: s.base(id, e, core.KindFood, f.Radius()),
		Calories:     f.Calories.Value(),
		MaxCalories:  f.Calories.Max(),
		Growing:      !f.Mature,
		Decaying:     f.Mature,
	}
}

func (s *Simulation) treeShadow(id core.ObjectID, e ecs.Entity) protocol.TreeShadow {
	t := s.treeMap.Get(e)
	return protocol.TreeShadow{
		ObjectShadow: s.base(id, e, core.KindTree, t.Radius()),
		Fruits:       t.Fruits,
		Cooldown:     t.Cooldown.Value(),
		MaxCooldown:  t.Cooldown.Max(),
	}
}
