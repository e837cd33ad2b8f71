package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/telemetry"
)

// HUDData holds everything the top-left HUD shows.
type HUDData struct {
	Title    string
	Tick     uint64
	Bots     int
	Foods    int
	Trees    int
	Speed    int
	FPS      int32
	TickTime time.Duration
	Paused   bool
}

// HUD renders the main heads-up display.
type HUD struct{}

func NewHUD() *HUD { return &HUD{} }

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Bots: %d | Food: %d | Trees: %d", data.Bots, data.Foods, data.Trees),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | %s/tick", data.Tick, data.Speed, data.FPS, data.TickTime.Round(time.Microsecond)),
		10, 55, 16, rl.LightGray,
	)
	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel shows where tick time goes.
type PerfPanel struct {
	theme       Theme
	x, y, width int32
}

func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{theme: DefaultTheme(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the phase and object breakdown and returns the Y below the panel.
func (p *PerfPanel) Draw(prof telemetry.Profile) int32 {
	return panel(&p.theme, p.x, p.y, p.width, func(c *column) {
		c.header("Tick Performance")
		c.pair("avg", prof.AvgTick.Round(time.Microsecond).String(), p.theme.ValueColor)
		c.pair("ticks/s", fmt.Sprintf("%.0f", prof.TicksPerSecond()), p.theme.ValueColor)
		for _, ph := range telemetry.Phases() {
			pct := prof.Share(ph)
			color := p.theme.ValueColor
			if pct > 50 {
				color = rl.Red
			} else if pct > 20 {
				color = rl.Yellow
			}
			c.pair(ph.String(), fmt.Sprintf("%5.1f%%  %s", pct, prof.Phase[ph].Round(time.Microsecond)), color)
		}
		for _, k := range []core.Kind{core.KindBot, core.KindFood, core.KindTree} {
			kc := prof.Kind(k)
			c.pair(k.String(), fmt.Sprintf("%.0f x %s", kc.Objects, kc.PerObject), p.theme.ValueColor)
		}
		c.pair("queues", fmt.Sprintf("%d deaths  %d births", prof.MaxDeaths, prof.MaxBirths), p.theme.ValueColor)
	})
}

// PopulationPanel lists per-population counters.
type PopulationPanel struct {
	theme       Theme
	x, y, width int32
}

func NewPopulationPanel(x, y, width int32) *PopulationPanel {
	return &PopulationPanel{theme: DefaultTheme(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PopulationPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// PopulationRow is one line of the population panel.
type PopulationRow struct {
	Name  string
	Color rl.Color
	Stats protocol.PopulationStats
}

// Draw renders one row per population and returns the Y below the panel.
func (p *PopulationPanel) Draw(rows []PopulationRow) int32 {
	if len(rows) == 0 {
		return p.y
	}
	return panel(&p.theme, p.x, p.y, p.width, func(c *column) {
		c.header("Populations")
		for _, row := range rows {
			st := row.Stats
			c.bullet(row.Color, row.Name, p.theme.LabelColor,
				fmt.Sprintf("%d alive  %d born  %d died", st.Alive, st.Born, st.Died), "")
		}
	})
}
