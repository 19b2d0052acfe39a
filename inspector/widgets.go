package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
)

const (
	lineHeight  = 20
	labelWidth  = 90
	angleSize   = 40
	angleHeight = angleSize + 4
)

// DrawLabel renders a name and value and returns the height used.
func DrawLabel(x, y int32, name, value string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(value, x+labelWidth, y, 14, ColorText)
	return lineHeight
}

// DrawAngle renders a compass needle for an angle in radians.
// Screen y grows downward, so positive angles turn clockwise.
func DrawAngle(x, y int32, name string, radians float64) int32 {
	centerX := x + labelWidth + angleSize/2
	centerY := y + angleSize/2

	rl.DrawText(name, x, y+angleSize/2-7, 14, ColorTextDim)

	rl.DrawCircle(centerX, centerY, float32(angleSize/2), ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, float32(angleSize/2), ColorTextDim)

	needleLen := float64(angleSize/2 - 4)
	endX := float32(centerX) + float32(needleLen*math.Cos(radians))
	endY := float32(centerY) + float32(needleLen*math.Sin(radians))
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{X: endX, Y: endY},
		2,
		ColorAngleNeedle,
	)

	rl.DrawText(fmt.Sprintf("%.0f deg", radians*180/math.Pi), centerX+angleSize/2+6, y+angleSize/2-7, 14, ColorTextDim)

	return angleHeight
}
