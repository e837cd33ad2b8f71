// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Points    PointsConfig    `yaml:"evolution_points"`
	Bot       BotConfig       `yaml:"bot"`
	Food      FoodConfig      `yaml:"food"`
	Tree      TreeConfig      `yaml:"tree"`
	MapGen    MapGenConfig    `yaml:"map_generation"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Debug turns internal invariant violations into panics instead of clamp-and-log.
	Debug bool `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for graphical mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig sizes the world. The map spans cells_x*cell_size by cells_y*cell_size.
type GridConfig struct {
	CellsX   int     `yaml:"cells_x"`
	CellsY   int     `yaml:"cells_y"`
	CellSize float64 `yaml:"cell_size"`

	MaxVisionCells   float64 `yaml:"max_vision_cells"`  // Vision cap as a fraction of cell size
	ModifierVariance float64 `yaml:"modifier_variance"` // Random spread of per-cell multipliers around 1
}

// PointsConfig converts evolution points into stats.
type PointsConfig struct {
	Total          int     `yaml:"total"`
	HealthPerPoint float64 `yaml:"health_per_point"`
	FoodPerPoint   float64 `yaml:"food_per_point"`
	VisionPerPoint float64 `yaml:"vision_per_point"`
	SpeedPerPoint  float64 `yaml:"speed_per_point"`
	DamagePerPoint float64 `yaml:"damage_per_point"`
}

// BotConfig holds per-tick costs and lifecycle factors for bots.
type BotConfig struct {
	InitialHealth float64 `yaml:"initial_health"` // Fraction of max health at birth
	InitialFood   float64 `yaml:"initial_food"`   // Fraction of max food at birth

	Metabolism   float64 `yaml:"metabolism"`    // Food burned every tick
	HealRate     float64 `yaml:"heal_rate"`     // Health regained per tick when fed
	HealCost     float64 `yaml:"heal_cost"`     // Food spent per heal step
	StarveDamage float64 `yaml:"starve_damage"` // Health lost per tick at zero food

	MoveCost   float64 `yaml:"move_cost"` // Food per tick at full speed
	EatTax     float64 `yaml:"eat_tax"`
	ChewCost   float64 `yaml:"chew_cost"`
	MinBite    float64 `yaml:"min_bite"`
	BiteShare  float64 `yaml:"bite_share"` // Bite is max(min_bite, max_food*bite_share)
	AttackTax  float64 `yaml:"attack_tax"`
	AttackCost float64 `yaml:"attack_cost"`

	SpawnOffset float64 `yaml:"spawn_offset"` // Children appear within this distance of the parent

	DepositHealth float64 `yaml:"deposit_health"` // Corpse calories per max health
	DepositFood   float64 `yaml:"deposit_food"`   // Corpse calories per remaining food
}

// FoodConfig holds defaults for scattered food.
type FoodConfig struct {
	MaxCalories     float64 `yaml:"max_calories"`
	InitialCalories float64 `yaml:"initial_calories"`
	GrowthRate      float64 `yaml:"growth_rate"`
	DecayRate       float64 `yaml:"decay_rate"`
}

// TreeConfig holds defaults for generated trees and their fruit.
type TreeConfig struct {
	MinFruits        int     `yaml:"min_fruits"`
	MaxFruits        int     `yaml:"max_fruits"`
	Cooldown         int     `yaml:"cooldown"`
	FruitMaxCalories float64 `yaml:"fruit_max_calories"`
	FruitGrowthRate  float64 `yaml:"fruit_growth_rate"`
	FruitDecayRate   float64 `yaml:"fruit_decay_rate"`
	FruitDistance    float64 `yaml:"fruit_distance"` // Extra gap between trunk edge and fruit
}

// MapGenConfig drives initial world population.
type MapGenConfig struct {
	SpawnType         string  `yaml:"spawn_type"` // random, circle or one_place
	BotsPerPopulation int     `yaml:"bots_per_population"`
	SpawnRadius       float64 `yaml:"spawn_radius"`
	CircleRadius      float64 `yaml:"circle_radius"` // Fraction of the smaller map side

	FoodPerCell     int     `yaml:"food_per_cell"`
	FoodSpawnChance float64 `yaml:"food_spawn_chance"`
	FoodRainPerTick int     `yaml:"food_rain_per_tick"`

	TreeThreshold float64 `yaml:"tree_threshold"`
	NoiseScale    float64 `yaml:"noise_scale"`
	TreeRarity    int     `yaml:"tree_rarity"`
	TreesPerCell  int     `yaml:"trees_per_cell"` // Placement attempts per cell
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow int  `yaml:"stats_window"` // Ticks per stats window
	LogStats    bool `yaml:"log_stats"`
	LogEvents   bool `yaml:"log_events"` // Per-entity birth/death logging at info level
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	MapW      float64
	MapH      float64
	MaxVision float64
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Grid.CellsX <= 0 || c.Grid.CellsY <= 0 {
		return fmt.Errorf("grid must have at least one cell, got %dx%d", c.Grid.CellsX, c.Grid.CellsY)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %g", c.Grid.CellSize)
	}
	if c.Points.Total < 0 {
		return fmt.Errorf("evolution_points.total must not be negative, got %d", c.Points.Total)
	}
	switch c.MapGen.SpawnType {
	case "random", "circle", "one_place":
	default:
		return fmt.Errorf("unknown spawn_type %q", c.MapGen.SpawnType)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MapW = float64(c.Grid.CellsX) * c.Grid.CellSize
	c.Derived.MapH = float64(c.Grid.CellsY) * c.Grid.CellSize
	c.Derived.MaxVision = c.Grid.MaxVisionCells * c.Grid.CellSize
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
