package telemetry

// Snapshot is the world state sampled when a window closes.
type Snapshot struct {
	Bots, Foods, Trees int
	BotFood            []float64
	BotHealth          []float64
	TotalCalories      float64
	Populations        []PopulationRow
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	births           int
	deaths           int
	suicides         int
	failedBirths     int
	eatsAttempted    int
	eatsHit          int
	caloriesEaten    float64
	attacksAttempted int
	attacksHit       int
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

func (c *Collector) RecordBirth() { c.births++ }
func (c *Collector) RecordFailedBirth() { c.failedBirths++ }

func (c *Collector) RecordDeath(suicide bool) {
	c.deaths++
	if suicide {
		c.suicides++
	}
}

// RecordEat records an eat attempt and the calories it moved.
func (c *Collector) RecordEat(hit bool, calories float64) {
	c.eatsAttempted++
	if hit {
		c.eatsHit++
		c.caloriesEaten += calories
	}
}

func (c *Collector) RecordAttack(hit bool) {
	c.attacksAttempted++
	if hit {
		c.attacksHit++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// Population rows in snap are stamped with the window end.
func (c *Collector) Flush(currentTick uint64, snap Snapshot) WindowStats {
	var hitRate float64
	if c.attacksAttempted > 0 {
		hitRate = float64(c.attacksHit) / float64(c.attacksAttempted)
	}
	food := Summarize(snap.BotFood)
	health := Summarize(snap.BotHealth)

	for i := range snap.Populations {
		snap.Populations[i].WindowEndTick = currentTick
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Bots:  snap.Bots,
		Foods: snap.Foods,
		Trees: snap.Trees,

		Births:       c.births,
		Deaths:       c.deaths,
		Suicides:     c.suicides,
		FailedBirths: c.failedBirths,

		EatsAttempted:    c.eatsAttempted,
		EatsHit:          c.eatsHit,
		CaloriesEaten:    c.caloriesEaten,
		AttacksAttempted: c.attacksAttempted,
		AttacksHit:       c.attacksHit,
		HitRate:          hitRate,

		FoodMean: food.Mean,
		FoodP10:  food.P10,
		FoodP50:  food.P50,
		FoodP90:  food.P90,

		HealthMean: health.Mean,
		HealthStd:  health.Std,
		HealthP10:  health.P10,
		HealthP50:  health.P50,
		HealthP90:  health.P90,

		TotalCalories: snap.TotalCalories,
	}

	*c = Collector{windowTicks: c.windowTicks, windowStartTick: currentTick}
	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 { return c.windowTicks }
