package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// column stacks rows top to bottom. With draw unset it only advances y,
// which is how a panel measures its body before painting the frame.
type column struct {
	theme *Theme
	x, y  int32
	width int32
	draw  bool
}

// panel frames body at (x, y) and returns the Y below the frame. body runs
// twice, once to measure and once to draw, so it must not change state.
func panel(theme *Theme, x, y, width int32, body func(c *column)) int32 {
	pad := theme.Padding
	inner := width - pad*2
	height := measure(theme, inner, body) + pad*2

	rl.DrawRectangle(x, y, width, height, theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, theme.PanelBorder)
	body(&column{theme: theme, x: x + pad, y: y + pad, width: inner, draw: true})
	return y + height
}

// measure returns the height body would take without drawing anything.
func measure(theme *Theme, width int32, body func(c *column)) int32 {
	m := column{theme: theme, width: width}
	body(&m)
	return m.y
}

func (c *column) text(s string, dx, size int32, color rl.Color) {
	if c.draw {
		rl.DrawText(s, c.x+dx, c.y, size, color)
	}
}

func (c *column) newline() { c.y += c.theme.LineHeight }

func (c *column) header(title string) {
	c.text(title, 0, c.theme.HeaderFontSize, c.theme.SectionHeader)
	c.newline()
}

// pair draws "label: value" with the value in color.
func (c *column) pair(label, value string, color rl.Color) {
	c.text(label+":", 0, c.theme.FontSize, c.theme.LabelColor)
	c.text(value, c.theme.LabelWidth, c.theme.FontSize, color)
	c.newline()
}

// bullet draws a marker square, a name, and an optional value or right-aligned key.
func (c *column) bullet(mark rl.Color, name string, nameColor rl.Color, value, key string) {
	if c.draw {
		rl.DrawRectangle(c.x, c.y+2, 8, 8, mark)
	}
	c.text(name, 14, c.theme.FontSize, nameColor)
	if value != "" {
		c.text(value, c.theme.LabelWidth+14, c.theme.FontSize, c.theme.ValueColor)
	}
	if key != "" && c.draw {
		w := rl.MeasureText(key, c.theme.FontSize)
		c.text(key, c.width-w, c.theme.FontSize, c.theme.KeyColor)
	}
	c.newline()
}

// meter draws cur out of ceil as a bar that turns red when low.
func (c *column) meter(label string, cur, ceil float64) {
	if c.draw {
		ratio := 0.0
		if ceil > 0 {
			ratio = min(1, max(0, cur/ceil))
		}
		barX := c.x + c.theme.LabelWidth
		barW := c.width - c.theme.LabelWidth - 80
		fill := c.theme.BarFillHigh
		switch {
		case ratio < 0.3:
			fill = c.theme.BarFillLow
		case ratio < 0.6:
			fill = c.theme.BarFillMedium
		}
		rl.DrawText(label+":", c.x, c.y, c.theme.FontSize, c.theme.LabelColor)
		rl.DrawRectangle(barX, c.y+2, barW, c.theme.BarHeight, c.theme.BarBg)
		rl.DrawRectangle(barX, c.y+2, int32(float64(barW)*ratio), c.theme.BarHeight, fill)
		rl.DrawText(fmt.Sprintf("%.1f/%.0f", cur, ceil), barX+barW+5, c.y, c.theme.FontSize, c.theme.ValueColor)
	}
	c.y += c.theme.LineHeight + 2
}

func (c *column) swatch(label string, color rl.Color) {
	c.text(label+":", 0, c.theme.FontSize, c.theme.LabelColor)
	if c.draw {
		rl.DrawRectangle(c.x+c.theme.LabelWidth, c.y+1, 12, 12, color)
	}
	c.newline()
}

func (c *column) field(fd FieldDescriptor, data any) {
	if fd.Visible != nil && !fd.Visible(data) {
		return
	}
	switch fd.Widget {
	case WidgetText:
		var s string
		if fd.TextGetter != nil {
			s = fd.TextGetter(data)
		} else if fd.Getter != nil {
			s = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		c.pair(fd.Label, s, c.theme.ValueColor)
	case WidgetMeter:
		var cur, ceil float64
		if fd.Getter != nil {
			cur = fd.Getter(data)
		}
		if fd.MaxGetter != nil {
			ceil = fd.MaxGetter(data)
		}
		c.meter(fd.Label, cur, ceil)
	case WidgetSwatch:
		color := rl.White
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		c.swatch(fd.Label, color)
	}
}

func (c *column) section(sd SectionDescriptor, data any) {
	if sd.Visible != nil && !sd.Visible(data) {
		return
	}
	if sd.Title != "" {
		c.header(sd.Title)
	}
	for _, fd := range sd.Fields {
		c.field(fd, data)
	}
	c.y += 4
}
