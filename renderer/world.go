// Package renderer draws the simulation with raylib.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/botsim/camera"
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/game"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/ui"
	"github.com/pthm-cable/botsim/vmath"
)

var (
	groundColor    = rl.Color{R: 18, G: 24, B: 20, A: 255}
	gridColor      = rl.Color{R: 50, G: 60, B: 55, A: 255}
	foodColor      = rl.Color{R: 120, G: 200, B: 80, A: 255}
	decayColor     = rl.Color{R: 150, G: 120, B: 60, A: 255}
	treeColor      = rl.Color{R: 110, G: 70, B: 40, A: 255}
	selectColor    = rl.Color{R: 255, G: 230, B: 80, A: 255}
	visionColor    = rl.Color{R: 120, G: 160, B: 255, A: 60}
	cellHighlight  = rl.Color{R: 255, G: 230, B: 80, A: 40}
	healthRingBack = rl.Color{R: 40, G: 40, B: 40, A: 200}
)

// WorldRenderer draws the map, its cells and its objects.
type WorldRenderer struct {
	cam      *camera.Camera
	overlays *ui.OverlayRegistry
}

func NewWorldRenderer(cam *camera.Camera, overlays *ui.OverlayRegistry) *WorldRenderer {
	return &WorldRenderer{cam: cam, overlays: overlays}
}

// Draw renders the whole scene under the current camera.
func (w *WorldRenderer) Draw(sim *game.Simulation) {
	w.drawGround(sim)
	w.drawCells(sim)

	selected, hasSel := sim.Selected()
	if c, ok := sim.SelectedCell(); ok {
		w.fillBox(c.Bounds, cellHighlight)
	}

	for _, sh := range sim.Objects() {
		b := sh.Base()
		if !w.cam.IsVisible(b.Pos, b.Radius) {
			continue
		}
		switch s := sh.(type) {
		case protocol.FoodShadow:
			w.drawFood(s)
		case protocol.TreeShadow:
			w.drawTree(s)
		case protocol.BotShadow:
			w.drawBot(s)
		}
		if w.overlays.IsEnabled(ui.OverlayObjectIDs) {
			x, y := w.cam.WorldToScreen(b.Pos)
			rl.DrawText(fmt.Sprint(b.ID), int32(x)+4, int32(y)-12, 10, rl.Gray)
		}
	}

	if hasSel {
		w.drawSelection(selected)
	}
}

func (w *WorldRenderer) drawGround(sim *game.Simulation) {
	w.fillBox(sim.Bounds(), groundColor)
}

func (w *WorldRenderer) drawCells(sim *game.Simulation) {
	cols, rows, _ := sim.GridShape()
	modifiers := w.overlays.IsEnabled(ui.OverlayModifiers)
	crowding := w.overlays.IsEnabled(ui.OverlayCrowding)
	lines := w.overlays.IsEnabled(ui.OverlayGridLines)
	if !modifiers && !crowding && !lines {
		return
	}

	for ref := 0; ref < cols*rows; ref++ {
		c, ok := sim.CellInfo(core.CellRef(ref))
		if !ok || !w.visibleBox(c.Bounds) {
			continue
		}
		switch {
		case modifiers:
			w.fillBox(c.Bounds, modifierTint(c))
		case crowding:
			a := uint8(min(len(c.Members)*8, 200))
			w.fillBox(c.Bounds, rl.Color{R: 200, G: 80, B: 80, A: a})
		}
		if lines {
			w.outlineBox(c.Bounds, gridColor)
		}
	}
}

// modifierTint maps speed to green and hunger to red around a neutral 1.
func modifierTint(c game.CellInfo) rl.Color {
	g := uint8(max(0, min(255, 128+(c.SpeedMultiplier-1)*127)))
	r := uint8(max(0, min(255, 128+(c.HungerMultiplier-1)*127)))
	return rl.Color{R: r, G: g, B: 60, A: 70}
}

func (w *WorldRenderer) drawFood(f protocol.FoodShadow) {
	c := foodColor
	if !f.Growing {
		c = decayColor
	}
	x, y := w.cam.WorldToScreen(f.Pos)
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, max(1, w.cam.Scale(f.Radius)), c)
}

func (w *WorldRenderer) drawTree(t protocol.TreeShadow) {
	x, y := w.cam.WorldToScreen(t.Pos)
	r := w.cam.Scale(t.Radius)
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, r, treeColor)
	if t.MaxCooldown > 0 {
		ready := 1 - float32(t.Cooldown)/float32(t.MaxCooldown)
		rl.DrawRing(rl.Vector2{X: x, Y: y}, r*0.6, r*0.75, -90, -90+360*ready, 24, foodColor)
	}
}

func (w *WorldRenderer) drawBot(b protocol.BotShadow) {
	x, y := w.cam.WorldToScreen(b.Pos)
	center := rl.Vector2{X: x, Y: y}
	r := max(2, w.cam.Scale(b.Radius))

	if w.overlays.IsEnabled(ui.OverlayVision) {
		rl.DrawCircleLines(int32(x), int32(y), w.cam.Scale(b.Vision), visionColor)
	}

	c := rl.Color(b.Color)
	if b.RecentlyAttacked {
		c = rl.Red
	}
	rl.DrawCircleV(center, r, c)

	if w.overlays.IsEnabled(ui.OverlayHealthRings) && b.MaxHealth > 0 {
		frac := float32(b.Health / b.MaxHealth)
		rl.DrawRing(center, r+1, r+3, 0, 360, 24, healthRingBack)
		rl.DrawRing(center, r+1, r+3, -90, -90+360*frac, 24, rl.Green)
	}
}

func (w *WorldRenderer) drawSelection(sh protocol.Shadow) {
	b := sh.Base()
	x, y := w.cam.WorldToScreen(b.Pos)
	rl.DrawCircleLines(int32(x), int32(y), w.cam.Scale(b.Radius)+5, selectColor)
	if bot, ok := sh.(protocol.BotShadow); ok {
		rl.DrawCircleLines(int32(x), int32(y), w.cam.Scale(bot.Vision), visionColor)
	}
}

func (w *WorldRenderer) visibleBox(b vmath.Box) bool {
	v := w.cam.VisibleWorldBounds()
	return b.Max.X >= v.Min.X && b.Min.X <= v.Max.X && b.Max.Y >= v.Min.Y && b.Min.Y <= v.Max.Y
}

func (w *WorldRenderer) screenRect(b vmath.Box) rl.Rectangle {
	x0, y0 := w.cam.WorldToScreen(b.Min)
	x1, y1 := w.cam.WorldToScreen(b.Max)
	return rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (w *WorldRenderer) fillBox(b vmath.Box, c rl.Color) {
	rl.DrawRectangleRec(w.screenRect(b), c)
}

func (w *WorldRenderer) outlineBox(b vmath.Box, c rl.Color) {
	rl.DrawRectangleLinesEx(w.screenRect(b), 1, c)
}
