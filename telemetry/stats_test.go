package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"uniform", []float64{2, 2, 2, 2}, 2},
		{"spread", []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}, 5.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Summarize(tt.values)
			if math.Abs(d.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean wrong: got %f, want %f", d.Mean, tt.wantMean)
			}
			if d.P10 > d.P50 || d.P50 > d.P90 {
				t.Errorf("percentiles out of order: %+v", d)
			}
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Summarize(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input reordered: %v", in)
	}
}

func TestSummarizeSingleHasNoSpread(t *testing.T) {
	d := Summarize([]float64{4})
	if d.Std != 0 || d.P10 != 4 || d.P90 != 4 {
		t.Errorf("single sample wrong: %+v", d)
	}
}
