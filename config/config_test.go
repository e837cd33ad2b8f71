package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if cfg.Derived.MapW != 1000 || cfg.Derived.MapH != 1000 {
		t.Errorf("map size wrong: got %gx%g, want 1000x1000", cfg.Derived.MapW, cfg.Derived.MapH)
	}
	if cfg.Derived.MaxVision != 95 {
		t.Errorf("max vision wrong: got %g, want 95", cfg.Derived.MaxVision)
	}
	if cfg.Points.Total != 100 {
		t.Errorf("evolution points wrong: got %d, want 100", cfg.Points.Total)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  cells_x: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.Grid.CellsX != 4 {
		t.Errorf("cells_x wrong: got %d, want 4", cfg.Grid.CellsX)
	}
	if cfg.Grid.CellsY != 10 {
		t.Errorf("cells_y should keep default: got %d", cfg.Grid.CellsY)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no cells", "grid:\n  cells_x: 0\n"},
		{"negative cell size", "grid:\n  cell_size: -1\n"},
		{"unknown spawn type", "map_generation:\n  spawn_type: spiral\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Bot.EatTax = 0.25
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if back.Bot.EatTax != 0.25 {
		t.Errorf("eat_tax lost: got %g", back.Bot.EatTax)
	}
}
