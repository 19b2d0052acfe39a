package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

var (
	velocityColor   = rl.Color{R: 80, G: 200, B: 255, A: 180}
	visibilityColor = rl.Color{R: 255, G: 80, B: 80, A: 90}
	centroidColor   = rl.Color{R: 255, G: 220, B: 80, A: 200}
)

// DrawVelocities draws each agent's velocity, scaled to seconds of travel.
func DrawVelocities(cam *camera.Camera, agents []systems.Agent, seconds float64) {
	for _, a := range agents {
		if !cam.IsVisible(a.Pos.X, a.Pos.Y, 0) {
			continue
		}
		end := a.Pos.Add(a.Vel.Scale(seconds))
		sx, sy := cam.WorldToScreen(a.Pos.X, a.Pos.Y)
		ex, ey := cam.WorldToScreen(end.X, end.Y)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, velocityColor)
	}
}

// DrawVisibility rings each predator with the visibility distance.
func DrawVisibility(cam *camera.Camera, agents []systems.Agent, radius float64) {
	for _, a := range agents {
		if !a.IsPredator() || !cam.IsVisible(a.Pos.X, a.Pos.Y, radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(a.Pos.X, a.Pos.Y)
		rl.DrawCircleLines(int32(sx), int32(sy), float32(radius*cam.Zoom), visibilityColor)
	}
}

// DrawCentroid marks the school centroid and the cohesion radius around it.
func DrawCentroid(cam *camera.Camera, centroid components.Vec2, cohesion float64) {
	sx, sy := cam.WorldToScreen(centroid.X, centroid.Y)
	rl.DrawLineV(rl.Vector2{X: sx - 6, Y: sy}, rl.Vector2{X: sx + 6, Y: sy}, centroidColor)
	rl.DrawLineV(rl.Vector2{X: sx, Y: sy - 6}, rl.Vector2{X: sx, Y: sy + 6}, centroidColor)
	if cohesion > 0 {
		rl.DrawCircleLines(int32(sx), int32(sy), float32(cohesion*cam.Zoom), centroidColor)
	}
}
