// Package main provides CMA-ES tuning of the bot economy against headless runs.
package main

import (
	"github.com/pthm-cable/botsim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	field   func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults are read from base so the search starts at the loaded config.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			// Upkeep
			{Name: "metabolism", Path: "bot.metabolism", Min: 0.02, Max: 0.3,
				field: func(c *config.Config) *float64 { return &c.Bot.Metabolism }},
			{Name: "move_cost", Path: "bot.move_cost", Min: 0.02, Max: 0.3,
				field: func(c *config.Config) *float64 { return &c.Bot.MoveCost }},
			{Name: "starve_damage", Path: "bot.starve_damage", Min: 0.1, Max: 2.0,
				field: func(c *config.Config) *float64 { return &c.Bot.StarveDamage }},
			// Feeding and fighting
			{Name: "eat_tax", Path: "bot.eat_tax", Min: 0.0, Max: 0.3,
				field: func(c *config.Config) *float64 { return &c.Bot.EatTax }},
			{Name: "bite_share", Path: "bot.bite_share", Min: 0.01, Max: 0.2,
				field: func(c *config.Config) *float64 { return &c.Bot.BiteShare }},
			{Name: "attack_cost", Path: "bot.attack_cost", Min: 0.05, Max: 1.5,
				field: func(c *config.Config) *float64 { return &c.Bot.AttackCost }},
			{Name: "deposit_food", Path: "bot.deposit_food", Min: 0.2, Max: 1.0,
				field: func(c *config.Config) *float64 { return &c.Bot.DepositFood }},
			// Food supply
			{Name: "food_growth_rate", Path: "food.growth_rate", Min: 0.1, Max: 2.0,
				field: func(c *config.Config) *float64 { return &c.Food.GrowthRate }},
			{Name: "food_decay_rate", Path: "food.decay_rate", Min: 0.1, Max: 3.0,
				field: func(c *config.Config) *float64 { return &c.Food.DecayRate }},
			{Name: "fruit_growth_rate", Path: "tree.fruit_growth_rate", Min: 0.2, Max: 3.0,
				field: func(c *config.Config) *float64 { return &c.Tree.FruitGrowthRate }},
			{Name: "food_spawn_chance", Path: "map_generation.food_spawn_chance", Min: 0.05, Max: 0.9,
				field: func(c *config.Config) *float64 { return &c.MapGen.FoodSpawnChance }},
		},
	}
	for i := range pv.Specs {
		spec := &pv.Specs[i]
		spec.Default = clampTo(*spec.field(base), spec.Min, spec.Max)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = clampTo(v[i], spec.Min, spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(cfg)
	}
	return v
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
