// Package terminal draws the shoal in a text terminal with tcell.
//
// The view is centred on the school centroid. One column covers
// cell_width world units and one row twice that, which roughly
// matches the aspect ratio of a terminal cell.
package terminal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/shoal"
	"github.com/pthm-cable/shoal/telemetry"
)

// Simulation is what the terminal loop drives. *game.Game implements it.
type Simulation interface {
	AdvanceFrame(dt float64)
	StepOnce()
	Agents() []shoal.AgentView
	Centroid() components.Vec2
	Counts() (school, predators int)
	Tick() int32
	SimTime() float64
	Paused() bool
	TogglePause() bool
	Speed() int
	SetSpeed(n int)
	RecentEvents() []telemetry.Event
}

// Glyphs.
const (
	glyphFish     = '·'
	glyphCrowd    = 'o'
	glyphPredator = '@'
)

// arrowGlyphs indexes heading octants clockwise from east; screen y grows downward.
var arrowGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

var (
	fishStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	predatorStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// View renders a Simulation onto a tcell screen.
type View struct {
	screen        tcell.Screen
	cellW         float64
	arrows        bool
	width, height int

	occupancy map[[2]int]int
}

// NewView creates a view over an initialized screen.
func NewView(screen tcell.Screen, cfg config.TerminalConfig) *View {
	v := &View{
		screen:    screen,
		cellW:     cfg.CellWidth,
		arrows:    cfg.Arrows,
		occupancy: make(map[[2]int]int),
	}
	v.width, v.height = screen.Size()
	return v
}

// CellOf maps a world position to a screen cell with centre in the middle
// of the drawing area. The bottom row is the status line and is never returned.
func (v *View) CellOf(p, centre components.Vec2) (col, row int, ok bool) {
	rows := v.height - 1
	col = v.width/2 + int(math.Floor((p.X-centre.X)/v.cellW))
	row = rows/2 + int(math.Floor((p.Y-centre.Y)/(2*v.cellW)))
	ok = col >= 0 && col < v.width && row >= 0 && row < rows
	return col, row, ok
}

// ArrowGlyph returns the arrow nearest to heading (radians, y down).
func ArrowGlyph(heading float64) rune {
	octant := int(math.Round(heading/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return arrowGlyphs[octant]
}

// Draw renders one frame.
func (v *View) Draw(sim Simulation) {
	v.screen.Clear()

	centre := sim.Centroid()
	agents := sim.Agents()
	clear(v.occupancy)

	// School fish first so predators always win their cell.
	for _, a := range agents {
		if a.Kind == components.KindPredator {
			continue
		}
		col, row, ok := v.CellOf(a.Position, centre)
		if !ok {
			continue
		}
		key := [2]int{col, row}
		v.occupancy[key]++

		glyph := glyphFish
		switch {
		case v.occupancy[key] > 1:
			glyph = glyphCrowd
		case v.arrows:
			glyph = ArrowGlyph(a.Heading)
		}
		v.screen.SetContent(col, row, glyph, nil, fishStyle)
	}
	for _, a := range agents {
		if a.Kind != components.KindPredator {
			continue
		}
		if col, row, ok := v.CellOf(a.Position, centre); ok {
			v.screen.SetContent(col, row, glyphPredator, nil, predatorStyle)
		}
	}

	v.drawStatus(sim)
	v.screen.Show()
}

// drawStatus fills the bottom row.
func (v *View) drawStatus(sim Simulation) {
	school, predators := sim.Counts()
	status := fmt.Sprintf(" tick %d  t=%.1fs  school %d  predators %d  speed %dx",
		sim.Tick(), sim.SimTime(), school, predators, sim.Speed())
	if sim.Paused() {
		status += "  [paused]"
	}
	if events := sim.RecentEvents(); len(events) > 0 {
		status += "  last: " + string(events[len(events)-1].Type)
	}
	status += "  | space pause  n step  , . speed  a arrows  q quit"

	row := v.height - 1
	col := 0
	for _, r := range status {
		if col >= v.width {
			break
		}
		v.screen.SetContent(col, row, r, nil, statusStyle)
		col++
	}
	for ; col < v.width; col++ {
		v.screen.SetContent(col, row, ' ', nil, statusStyle)
	}
}

// HandleEvent applies one input event. It returns false when the user quits.
func (v *View) HandleEvent(ev tcell.Event, sim Simulation) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				sim.TogglePause()
			case 'n':
				if sim.Paused() {
					sim.StepOnce()
				}
			case ',':
				sim.SetSpeed(sim.Speed() - 1)
			case '.':
				sim.SetSpeed(sim.Speed() + 1)
			case 'a':
				v.arrows = !v.arrows
			}
		}

	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

// Run drives sim on wall-clock time until the user quits or ctx is done.
// The caller owns the screen and must Fini it afterwards.
func Run(ctx context.Context, screen tcell.Screen, sim Simulation, cfg config.TerminalConfig) error {
	view := NewView(screen, cfg)

	ticker := time.NewTicker(time.Duration(cfg.FrameMS) * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	view.Draw(sim)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if !view.HandleEvent(ev, sim) {
				return nil
			}

		case now := <-ticker.C:
			sim.AdvanceFrame(now.Sub(last).Seconds())
			last = now
			view.Draw(sim)
		}
	}
}
