package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/inspector"
)

// pickRadius is the click tolerance in screen pixels.
const pickRadius = 20.0

// handleSelection routes mouse clicks to the inspector.
func (g *Game) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.inspector.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if g.uiControls.Contains(mouse.X, mouse.Y, g.uiOverlays) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	g.inspector.HandleClick(mouse.X, mouse.Y, wx, wy, pickRadius/g.camera.Zoom, g.shoal.Snapshot())
}

// drawSelection highlights the selected agent and draws its panel.
// A selection whose agent no longer exists is dropped.
func (g *Game) drawSelection() {
	id, ok := g.inspector.Selected()
	if !ok {
		return
	}
	d, ok := inspector.Inspect(g.shoal.Snapshot(), id, g.shoal.Params().VisibilityDistance)
	if !ok {
		g.inspector.Deselect()
		return
	}
	sx, sy := g.camera.WorldToScreen(d.Pos.X, d.Pos.Y)
	inspector.DrawHighlight(sx, sy, float32(12*g.camera.Zoom)+4)
	g.inspector.Draw(d)
}
