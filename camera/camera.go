// Package camera provides a 2D camera system for viewport control.
package camera

import "github.com/pthm-cable/shoal/components"

// Camera controls the viewport into the simulation world.
// The world is unbounded; the camera either follows a target or is panned freely.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	// Following recentres the camera on the target passed to Update.
	Following bool
}

// New creates a camera centered on (cx, cy) with 1:1 zoom, following its target.
func New(viewportW, viewportH, cx, cy float64) *Camera {
	return &Camera{
		X:         cx,
		Y:         cy,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.1,
		MaxZoom:   8.0,
		Following: true,
	}
}

// Update recentres on target when following.
func (c *Camera) Update(target components.Vec2) {
	if c.Following {
		c.CenterOn(target.X, target.Y)
	}
}

// CenterOn moves the camera center to a world position.
func (c *Camera) CenterOn(wx, wy float64) {
	c.X = wx
	c.Y = wy
}

// ToggleFollow flips follow mode and returns the new state.
func (c *Camera) ToggleFollow() bool {
	c.Following = !c.Following
	return c.Following
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	sx = float32(c.ViewportW/2 + (wx-c.X)*c.Zoom)
	sy = float32(c.ViewportH/2 + (wy-c.Y)*c.Zoom)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	wx = c.X + (float64(sx)-c.ViewportW/2)/c.Zoom
	wy = c.Y + (float64(sy)-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return abs(wx-c.X) <= halfW && abs(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels and stops following.
func (c *Camera) Pan(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	c.Following = false
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset restores 1:1 zoom and follow mode.
func (c *Camera) Reset() {
	c.Zoom = 1.0
	c.Following = true
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
