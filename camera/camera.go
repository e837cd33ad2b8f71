// Package camera maps between map coordinates and screen pixels for the viewer.
package camera

import "github.com/pthm-cable/botsim/vmath"

// Camera controls the viewport onto a bounded map.
type Camera struct {
	// Position is the camera center in map coordinates
	X, Y float32

	// Zoom level (1.0 = one map unit per pixel)
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	MinZoom, MaxZoom float32
}

// New creates a camera that shows the whole map.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole map fits the viewport.
func (c *Camera) fitZoom() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts a map position to screen pixels.
func (c *Camera) WorldToScreen(p vmath.Vec) (sx, sy float32) {
	sx = c.ViewportW/2 + (float32(p.X)-c.X)*c.Zoom
	sy = c.ViewportH/2 + (float32(p.Y)-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen pixels to a map position. The result may lie
// off the map.
func (c *Camera) ScreenToWorld(sx, sy float32) vmath.Vec {
	return vmath.V(
		float64(c.X+(sx-c.ViewportW/2)/c.Zoom),
		float64(c.Y+(sy-c.ViewportH/2)/c.Zoom),
	)
}

// Scale converts a map length to pixels.
func (c *Camera) Scale(d float64) float32 { return float32(d) * c.Zoom }

// IsVisible reports whether a disc at p could be on screen.
func (c *Camera) IsVisible(p vmath.Vec, radius float64) bool {
	halfW := c.ViewportW/(2*c.Zoom) + float32(radius)
	halfH := c.ViewportH/(2*c.Zoom) + float32(radius)
	return absf(float32(p.X)-c.X) <= halfW && absf(float32(p.Y)-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by a delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.keepOnMap()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.keepOnMap()
}

// ZoomAt multiplies the zoom by factor, keeping the map point under the
// given screen position fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	before := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	after := c.ScreenToWorld(sx, sy)
	c.X += float32(before.X - after.X)
	c.Y += float32(before.Y - after.Y)
	c.keepOnMap()
}

// Reset shows the whole map.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.MinZoom
}

// keepOnMap stops the view from scrolling past the map edges. When the view
// is wider than the map on an axis, that axis stays centered.
func (c *Camera) keepOnMap() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// VisibleWorldBounds returns the map box covered by the viewport.
func (c *Camera) VisibleWorldBounds() vmath.Box {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return vmath.Box{
		Min: vmath.V(float64(c.X-halfW), float64(c.Y-halfH)),
		Max: vmath.V(float64(c.X+halfW), float64(c.Y+halfH)),
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
