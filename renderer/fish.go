package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/shoal"
)

// FishStyle is the look of one kind: a filled head and a tail line
// trailing opposite the heading.
type FishStyle struct {
	HeadRadius float64
	TailLength float64
	Color      rl.Color
}

// StyleFromConfig converts a config entry into a FishStyle.
func StyleFromConfig(fs config.FishStyle) FishStyle {
	return FishStyle{
		HeadRadius: fs.HeadRadius,
		TailLength: fs.TailLength,
		Color:      HexColor(fs.Color),
	}
}

// TailEnd returns the world position of the tail tip.
func TailEnd(pos components.Vec2, heading, length float64) components.Vec2 {
	return components.Vec2{
		X: pos.X - length*math.Cos(heading),
		Y: pos.Y - length*math.Sin(heading),
	}
}

// FishRenderer draws agents in creation order.
type FishRenderer struct {
	School   FishStyle
	Predator FishStyle
}

// NewFishRenderer creates a renderer from the render config section.
func NewFishRenderer(cfg config.RenderConfig) *FishRenderer {
	return &FishRenderer{
		School:   StyleFromConfig(cfg.SchoolFish),
		Predator: StyleFromConfig(cfg.Predator),
	}
}

// Style returns the style for a kind.
func (r *FishRenderer) Style(kind components.Kind) FishStyle {
	if kind == components.KindPredator {
		return r.Predator
	}
	return r.School
}

// Draw renders every visible agent.
func (r *FishRenderer) Draw(cam *camera.Camera, agents []shoal.AgentView) {
	for _, a := range agents {
		style := r.Style(a.Kind)
		if !cam.IsVisible(a.Position.X, a.Position.Y, style.TailLength+style.HeadRadius) {
			continue
		}

		hx, hy := cam.WorldToScreen(a.Position.X, a.Position.Y)
		tail := TailEnd(a.Position, a.Heading, style.TailLength)
		tx, ty := cam.WorldToScreen(tail.X, tail.Y)

		rl.DrawLineV(rl.Vector2{X: hx, Y: hy}, rl.Vector2{X: tx, Y: ty}, style.Color)
		rl.DrawCircleV(rl.Vector2{X: hx, Y: hy}, float32(style.HeadRadius*cam.Zoom), style.Color)
	}
}

// HexColor converts 0xRRGGBB to an opaque raylib color.
func HexColor(rgb uint32) rl.Color {
	return rl.Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}
