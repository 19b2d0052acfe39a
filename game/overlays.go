package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/ui"
)

// velocityOverlaySeconds is how far ahead velocity lines reach.
const velocityOverlaySeconds = 0.25

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.uiOverlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.uiOverlays.Toggle(desc.ID)
		}
	}
}

// drawWorldOverlays renders enabled overlays that live in world space.
// The grid and panels are handled by Draw and drawUI.
func (g *Game) drawWorldOverlays() {
	overlays := g.uiOverlays
	if !overlays.IsEnabled(ui.OverlayVelocity) && !overlays.IsEnabled(ui.OverlayVisibility) && !overlays.IsEnabled(ui.OverlayCentroid) {
		return
	}

	agents := g.shoal.Snapshot()
	for _, id := range overlays.EnabledOverlays() {
		switch id {
		case ui.OverlayVelocity:
			renderer.DrawVelocities(g.camera, agents, velocityOverlaySeconds)
		case ui.OverlayVisibility:
			renderer.DrawVisibility(g.camera, agents, g.shoal.Params().VisibilityDistance)
		case ui.OverlayCentroid:
			cohesion := 0.0
			if g.hasStats {
				cohesion = g.lastStats.CohesionRadius
			}
			renderer.DrawCentroid(g.camera, g.shoal.Centroid(), cohesion)
		}
	}
}
