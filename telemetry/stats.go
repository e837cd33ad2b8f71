package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Counts at window end
	Bots  int `csv:"bots"`
	Foods int `csv:"foods"`
	Trees int `csv:"trees"`

	// Events during window
	Births       int `csv:"births"`
	Deaths       int `csv:"deaths"`
	Suicides     int `csv:"suicides"`
	FailedBirths int `csv:"failed_births"`

	EatsAttempted    int     `csv:"eats_attempted"`
	EatsHit          int     `csv:"eats_hit"`
	CaloriesEaten    float64 `csv:"calories_eaten"`
	AttacksAttempted int     `csv:"attacks_attempted"`
	AttacksHit       int     `csv:"attacks_hit"`
	HitRate          float64 `csv:"hit_rate"`

	// Bot reserves sampled at window end
	FoodMean float64 `csv:"food_mean"`
	FoodP10  float64 `csv:"food_p10"`
	FoodP50  float64 `csv:"food_p50"`
	FoodP90  float64 `csv:"food_p90"`

	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	// Calories lying on the map in food objects
	TotalCalories float64 `csv:"total_calories"`
}

// PopulationRow is one population's counters at a window boundary.
type PopulationRow struct {
	WindowEndTick uint64 `csv:"window_end"`
	Population    string `csv:"population"`
	Alive         int    `csv:"alive"`
	Born          int    `csv:"born"`
	Died          int    `csv:"died"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, standard deviation and empirical percentiles.
// An empty sample yields the zero Distribution.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"bots", s.Bots,
		"foods", s.Foods,
		"trees", s.Trees,
		"births", s.Births,
		"deaths", s.Deaths,
		"suicides", s.Suicides,
		"failed_births", s.FailedBirths,
		"eats_hit", s.EatsHit,
		"calories_eaten", s.CaloriesEaten,
		"attacks_hit", s.AttacksHit,
		"hit_rate", s.HitRate,
		"food_mean", s.FoodMean,
		"health_mean", s.HealthMean,
		"total_calories", s.TotalCalories,
	)
}
