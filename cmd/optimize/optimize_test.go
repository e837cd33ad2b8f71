package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/botsim/config"
)

func TestApplyToConfigClamps(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	values := pv.DefaultVector()
	values[0] = 100 // metabolism, far above its bound
	pv.ApplyToConfig(cfg, values)

	if got, want := cfg.Bot.Metabolism, pv.Specs[0].Max; got != want {
		t.Errorf("metabolism wrong: got %v, want %v", got, want)
	}
	got := pv.ExtractFromConfig(cfg)
	for i := 1; i < len(got); i++ {
		if got[i] != values[i] {
			t.Errorf("%s wrong: got %v, want %v", pv.Specs[i].Name, got[i], values[i])
		}
	}
}

func TestEvenness(t *testing.T) {
	tests := []struct {
		name  string
		alive map[string]int
		want  float64
	}{
		{"even", map[string]int{"a": 5, "b": 5, "c": 5}, 1},
		{"one left", map[string]int{"a": 9, "b": 0}, 0},
		{"single population", map[string]int{"a": 9}, 0},
		{"empty", map[string]int{"a": 0, "b": 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := 0
			for _, n := range tt.alive {
				total += n
			}
			if got := evenness(tt.alive, total); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("evenness wrong: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualityPrefersSteadyMix(t *testing.T) {
	steady := []census{
		{Tick: 100, Alive: map[string]int{"a": 10, "b": 10}},
		{Tick: 200, Alive: map[string]int{"a": 10, "b": 10}},
	}
	lopsided := []census{
		{Tick: 100, Alive: map[string]int{"a": 19, "b": 1}},
		{Tick: 200, Alive: map[string]int{"a": 2, "b": 0}},
	}
	if qs, ql := computeQuality(steady), computeQuality(lopsided); qs <= ql {
		t.Errorf("quality ordering wrong: steady %v, lopsided %v", qs, ql)
	}
	if got := computeQuality(nil); got != 0 {
		t.Errorf("quality of empty run wrong: got %v, want 0", got)
	}
}
