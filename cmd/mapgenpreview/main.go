// Map generation preview tool - tree mask and placement with sliders.
//
// Usage: go run ./cmd/mapgenpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/botsim/brains"
	"github.com/pthm-cable/botsim/config"
	"github.com/pthm-cable/botsim/game"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	maskSize     = 256
)

// MaskParams are the map generation knobs the preview edits.
type MaskParams struct {
	Scale     float32
	Threshold float32
	Rarity    int
	Seed      int64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := MaskParams{
		Scale:     float32(cfg.MapGen.NoiseScale),
		Threshold: float32(cfg.MapGen.TreeThreshold),
		Rarity:    cfg.MapGen.TreeRarity,
		Seed:      1,
	}
	params := defaults

	registry := protocol.NewRegistry()
	if err := brains.Register(registry); err != nil {
		slog.Error("failed to register brains", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Map Generation Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	mask := make([]float64, maskSize*maskSize)
	img := rl.GenImageColor(maskSize, maskSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var objects []protocol.Shadow
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			generateMask(mask, cfg, params)
			updateTexture(texture, mask, params.Threshold)
			objects = nil
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: maskSize, Height: maskSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		drawObjects(objects, cfg)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		above := 0
		for _, v := range mask {
			if v > float64(params.Threshold) {
				above++
			}
		}
		coverage := float64(above) / float64(len(mask))
		cells := cfg.Grid.CellsX * cfg.Grid.CellsY
		expected := coverage * float64(cells*cfg.MapGen.TreesPerCell) / float64(max(1, params.Rarity))

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Coverage above threshold: %.1f%%", coverage*100), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Expected trees: %.1f", expected), 15, statsY+20, 16, rl.DarkGray)
		if objects != nil {
			rl.DrawText(fmt.Sprintf("Generated: %d objects", len(objects)), 15, statsY+40, 16, rl.DarkGray)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Tree Placement", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		var changed bool
		params.Scale, changed = slider(&panelX, &panelY, "Noise scale", "%.4f", params.Scale, 0.001, 0.05)
		needsRegen = needsRegen || changed
		params.Threshold, changed = slider(&panelX, &panelY, "Threshold", "%.2f", params.Threshold, 0, 1)
		needsRegen = needsRegen || changed

		rarity, _ := slider(&panelX, &panelY, "Rarity (1 in N passes)", "%.0f", float32(params.Rarity), 1, 20)
		params.Rarity = int(rarity)
		seed, _ := slider(&panelX, &panelY, "Seed", "%.0f", float32(params.Seed), 0, 99999)
		if int64(seed) != params.Seed {
			params.Seed = int64(seed)
			needsRegen = true
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Generate Map") {
			objects = populate(cfg, registry, params)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := yamlSnippet(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yaml {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and advances the layout cursor.
func slider(x, y *float32, label, format string, value, lo, hi float32) (float32, bool) {
	rl.DrawText(label, int32(*x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: *x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(*x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return next, next != value
}

func yamlSnippet(p MaskParams) []string {
	return []string{
		"map_generation:",
		fmt.Sprintf("  noise_scale: %.4f", p.Scale),
		fmt.Sprintf("  tree_threshold: %.2f", p.Threshold),
		fmt.Sprintf("  tree_rarity: %d", p.Rarity),
	}
}

// generateMask samples the tree mask over the whole map.
func generateMask(mask []float64, cfg *config.Config, p MaskParams) {
	noise := opensimplex.New(p.Seed)
	w, h := cfg.Derived.MapW, cfg.Derived.MapH
	for y := 0; y < maskSize; y++ {
		for x := 0; x < maskSize; x++ {
			pos := vmath.V((float64(x)+0.5)/maskSize*w, (float64(y)+0.5)/maskSize*h)
			mask[y*maskSize+x] = game.TreeMask(noise, pos, float64(p.Scale))
		}
	}
}

// populate runs the real map generator with the edited parameters.
func populate(base *config.Config, registry *protocol.Registry, p MaskParams) []protocol.Shadow {
	cfg := *base
	cfg.MapGen.NoiseScale = float64(p.Scale)
	cfg.MapGen.TreeThreshold = float64(p.Threshold)
	cfg.MapGen.TreeRarity = p.Rarity
	sim, err := game.New(game.Options{Config: &cfg, Registry: registry, Seed: p.Seed})
	if err != nil {
		slog.Error("map generation failed", "error", err)
		return nil
	}
	return sim.Objects()
}

func drawObjects(objects []protocol.Shadow, cfg *config.Config) {
	sx := float32(previewSize / cfg.Derived.MapW)
	sy := float32(previewSize / cfg.Derived.MapH)
	for _, sh := range objects {
		b := sh.Base()
		x := 10 + float32(b.Pos.X)*sx
		y := 10 + float32(b.Pos.Y)*sy
		switch s := sh.(type) {
		case protocol.TreeShadow:
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, max(2, float32(b.Radius)*sx), rl.Brown)
		case protocol.FoodShadow:
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 1.5, rl.Lime)
		case protocol.BotShadow:
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 2.5, s.Color)
		}
	}
}

// updateTexture colors the mask: dark below the threshold, green above it.
func updateTexture(texture rl.Texture2D, mask []float64, threshold float32) {
	pixels := make([]color.RGBA, len(mask))
	for i, v := range mask {
		shade := uint8(40 + v*120)
		if v > float64(threshold) {
			pixels[i] = color.RGBA{R: shade / 3, G: shade + 60, B: shade / 3, A: 255}
			continue
		}
		pixels[i] = color.RGBA{R: shade / 2, G: shade / 2, B: shade, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
