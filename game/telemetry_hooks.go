package game

import (
	"log/slog"

	"github.com/pthm-cable/botsim/telemetry"
)

// flushTelemetry closes the stats window when it is due and writes it out.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sample())
	profile := s.perf.Profile()
	s.lastStats = stats

	if s.cfg.Telemetry.LogStats {
		stats.LogStats()
		profile.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(profile, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := s.output.WritePopulations(s.populationRows()); err != nil {
		slog.Error("failed to write populations", "error", err)
	}
}

// sample collects the world-wide distributions for a stats window.
func (s *Simulation) sample() telemetry.Snapshot {
	var snap telemetry.Snapshot

	bots := s.botFilter.Query()
	for bots.Next() {
		b := bots.Get()
		snap.Bots++
		snap.BotFood = append(snap.BotFood, b.Food.Value())
		snap.BotHealth = append(snap.BotHealth, b.Health.Value())
	}

	foods := s.foodFilter.Query()
	for foods.Next() {
		snap.Foods++
		snap.TotalCalories += foods.Get().Calories.Value()
	}

	trees := s.treeFilter.Query()
	for trees.Next() {
		snap.Trees++
	}

	snap.Populations = s.populationRows()
	return snap
}

func (s *Simulation) populationRows() []telemetry.PopulationRow {
	rows := make([]telemetry.PopulationRow, 0, len(s.populations))
	for _, name := range s.PopulationNames() {
		st := s.populations[name]
		rows = append(rows, telemetry.PopulationRow{
			WindowEndTick: s.tick,
			Population:    name,
			Alive:         st.Alive,
			Born:          st.Born,
			Died:          st.Died,
		})
	}
	return rows
}
