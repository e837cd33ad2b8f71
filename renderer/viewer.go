package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/botsim/camera"
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/game"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/ui"
)

const (
	maxSpeed    = 32
	panelWidth  = 260
	controlHelp = "Space: pause  </>: speed  Click: select  Backspace: clear  N: step  Tab: overlays  Home: reset view"
)

// Viewer runs the interactive window on top of a simulation.
type Viewer struct {
	sim *game.Simulation
	cam *camera.Camera

	overlays *ui.OverlayRegistry
	world    *WorldRenderer

	hud         *ui.HUD
	inspector   *ui.Inspector
	perfPanel   *ui.PerfPanel
	popPanel    *ui.PopulationPanel
	controls    *ui.ControlsPanel
	popColors   map[string]color.RGBA
	paused      bool
	speed       int
	screenW     float32
	screenH     float32
	dragging    bool
	dragOriginX float32
	dragOriginY float32
}

// NewViewer must be called after the raylib window exists.
func NewViewer(sim *game.Simulation, speed int) *Viewer {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	b := sim.Bounds()
	cam := camera.New(w, h, float32(b.Max.X-b.Min.X), float32(b.Max.Y-b.Min.Y))
	overlays := ui.NewOverlayRegistry()

	v := &Viewer{
		sim:       sim,
		cam:       cam,
		overlays:  overlays,
		world:     NewWorldRenderer(cam, overlays),
		hud:       ui.NewHUD(),
		inspector: ui.NewInspector(int32(w)-panelWidth-10, 10, panelWidth),
		perfPanel: ui.NewPerfPanel(10, 100, panelWidth),
		popPanel:  ui.NewPopulationPanel(10, 100, panelWidth),
		controls:  ui.NewControlsPanel(int32(w)-panelWidth-10, 10, panelWidth),
		popColors: make(map[string]color.RGBA),
		speed:     max(1, speed),
		screenW:   w,
		screenH:   h,
	}
	return v
}

// Update handles input and advances the simulation by the current speed.
func (v *Viewer) Update() {
	v.handleInput()
	if v.paused {
		return
	}
	for i := 0; i < v.speed; i++ {
		v.sim.Tick()
	}
}

func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.speed > 1 {
		v.speed /= 2
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.speed < maxSpeed {
		v.speed *= 2
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		v.sim.ClearSelection()
	}
	if v.paused && rl.IsKeyPressed(rl.KeyN) {
		v.sim.Tick()
	}
	v.overlays.HandleKeys()

	v.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		v.sim.SelectAt(v.cam.ScreenToWorld(m.X, m.Y))
	}
}

func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.cam.Resize(w, h)
	v.inspector.SetPosition(int32(w)-panelWidth-10, 10)
}

// handleCameraInput pans with arrows or right-drag and zooms with the wheel.
func (v *Viewer) handleCameraInput() {
	panSpeed := float32(8.0)
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	m := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.dragging, v.dragOriginX, v.dragOriginY = true, m.X, m.Y
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		v.dragging = false
	}
	if v.dragging {
		v.cam.Pan(v.dragOriginX-m.X, v.dragOriginY-m.Y)
		v.dragOriginX, v.dragOriginY = m.X, m.Y
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomAt(1+wheel*0.1, m.X, m.Y)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.SetZoom(v.cam.Zoom * 1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.SetZoom(v.cam.Zoom * 0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.world.Draw(v.sim)

	bots, foods, trees := v.census()
	perf := v.sim.Perf()
	v.hud.Draw(ui.HUDData{
		Title:    "Bot Simulation",
		Tick:     v.sim.TickCount(),
		Bots:     bots,
		Foods:    foods,
		Trees:    trees,
		Speed:    v.speed,
		FPS:      rl.GetFPS(),
		TickTime: perf.AvgTick,
		Paused:   v.paused,
	})

	y := int32(100)
	if v.overlays.IsEnabled(ui.OverlayPopulationUI) {
		v.popPanel.SetPosition(10, y)
		y = v.popPanel.Draw(v.populationRows()) + 10
	}
	if v.overlays.IsEnabled(ui.OverlayPerformance) {
		v.perfPanel.SetPosition(10, y)
		v.perfPanel.Draw(perf)
	}

	panelY := v.controls.Draw(v.overlays)
	if panelY > 10 {
		panelY += 10
	}
	v.inspector.SetPosition(int32(v.screenW)-panelWidth-10, panelY)
	if sh, ok := v.sim.Selected(); ok {
		v.inspector.Draw(sh)
	} else if c, ok := v.sim.SelectedCell(); ok {
		v.inspector.Draw(c)
	}

	v.hud.DrawControls(int32(v.screenH), controlHelp)
	rl.EndDrawing()
}

// census counts objects by kind and remembers a color per population.
func (v *Viewer) census() (bots, foods, trees int) {
	for _, sh := range v.sim.Objects() {
		switch sh.Base().Kind {
		case core.KindBot:
			bots++
			b := sh.(protocol.BotShadow)
			v.popColors[b.Population] = b.Color
		case core.KindFood:
			foods++
		case core.KindTree:
			trees++
		}
	}
	return bots, foods, trees
}

func (v *Viewer) populationRows() []ui.PopulationRow {
	names := v.sim.PopulationNames()
	rows := make([]ui.PopulationRow, 0, len(names))
	for _, name := range names {
		st, _ := v.sim.Population(name)
		c, ok := v.popColors[name]
		if !ok {
			c = rl.Gray
		}
		rows = append(rows, ui.PopulationRow{Name: name, Color: rl.Color(c), Stats: st})
	}
	return rows
}
