package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the overlays by category with their state and hotkey.
// It starts hidden.
type ControlsPanel struct {
	theme       Theme
	x, y, width int32
	visible     bool
}

func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{theme: DefaultTheme(), x: x, y: y, width: width}
}

// Toggle flips visibility and reports the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw returns the Y below the panel, or the panel's own Y when hidden.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	return panel(&c.theme, c.x, c.y, c.width, func(col *column) {
		listOverlays(col, overlays)
	})
}

func listOverlays(col *column, overlays *OverlayRegistry) {
	t := col.theme
	for _, category := range overlays.Categories() {
		col.header(title(category))
		for _, desc := range overlays.ByCategory(category) {
			mark, name := t.ToggleOff, t.LabelColor
			if overlays.IsEnabled(desc.ID) {
				mark, name = t.ToggleOn, rl.White
			}
			key := ""
			if desc.KeyLabel != "" {
				key = "[" + desc.KeyLabel + "]"
			}
			col.bullet(mark, desc.Name, name, "", key)
		}
		col.y += 4
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
