package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	SchoolCount   int
	PredatorCount int
	Tick          int32
	SimTime       float64
	Speed         int
	FPS           int32
	Paused        bool
	Following     bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("School: %d | Predators: %d", data.SchoolCount, data.PredatorCount),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.Following {
		status += " | Following"
	}
	rl.DrawText(status, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// FlockPanel shows the latest telemetry window.
type FlockPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFlockPanel creates a new flock stats panel.
func NewFlockPanel(x, y, width int32) *FlockPanel {
	return &FlockPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (f *FlockPanel) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders the panel and returns the Y below it.
func (f *FlockPanel) Draw(s telemetry.WindowStats) int32 {
	r := f.renderer
	pad := r.Theme.Padding
	inner := f.width - pad*2

	r.DrawPanel(f.x, f.y, f.width, r.Theme.LineHeight*10+pad*2)
	y := r.DrawSectionHeader(f.x+pad, f.y+pad, "Flock")

	y = r.DrawBar(f.x+pad, y, "Polarization", s.Polarization, inner)
	y = r.DrawBar(f.x+pad, y, "Milling", s.Milling, inner)
	y = r.DrawLabelValue(f.x+pad, y, "Speed", fmt.Sprintf("%.1f ± %.1f", s.SpeedMean, s.SpeedStd))
	y = r.DrawLabelValue(f.x+pad, y, "Speed p10/90", fmt.Sprintf("%.1f / %.1f", s.SpeedP10, s.SpeedP90))
	y = r.DrawLabelValue(f.x+pad, y, "Cohesion", fmt.Sprintf("%.1f", s.CohesionRadius))
	y = r.DrawLabelValue(f.x+pad, y, "Nearest", fmt.Sprintf("%.1f", s.NearestNeighbor))

	pred := "none"
	if s.PredatorDistance >= 0 {
		pred = fmt.Sprintf("%.1f", s.PredatorDistance)
	}
	y = r.DrawLabelValue(f.x+pad, y, "Predator", pred)
	return y + pad
}

// PerfPanel renders the step phase breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	x, y := p.x, p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg tick: %s | %.0f ticks/s",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
