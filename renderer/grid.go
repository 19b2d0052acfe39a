// Package renderer draws the shoal and its background with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/config"
)

// GridRenderer draws dotted reference lines fixed in world space, so the
// flock's motion stays visible while the camera follows it.
type GridRenderer struct {
	DotSpacing   float64 // world units between dots along a line
	CellW, CellH float64 // world units between lines
	Color        rl.Color
	Background   rl.Color
}

// NewGridRenderer creates a grid from the render config section.
func NewGridRenderer(cfg config.RenderConfig) *GridRenderer {
	return &GridRenderer{
		DotSpacing: cfg.GridSpacing,
		CellW:      cfg.GridCellWidth,
		CellH:      cfg.GridCellHeight,
		Color:      HexColor(cfg.GridColor),
		Background: HexColor(cfg.BackgroundColor),
	}
}

// Multiples returns every multiple of step in [lo, hi], ascending.
// A non-positive step yields nothing.
func Multiples(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	first := math.Ceil(lo/step) * step
	var out []float64
	for v := first; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}

// Draw clears to the background color and draws the visible grid.
func (g *GridRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(g.Background)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	dotsX := Multiples(minX, maxX, g.DotSpacing)
	dotsY := Multiples(minY, maxY, g.DotSpacing)

	for _, lx := range Multiples(minX, maxX, g.CellW) {
		for _, y := range dotsY {
			g.dot(cam, lx, y)
		}
	}
	for _, ly := range Multiples(minY, maxY, g.CellH) {
		for _, x := range dotsX {
			g.dot(cam, x, ly)
		}
	}
}

func (g *GridRenderer) dot(cam *camera.Camera, wx, wy float64) {
	sx, sy := cam.WorldToScreen(wx, wy)
	rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, g.Color)
}
