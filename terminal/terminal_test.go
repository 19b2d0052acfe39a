package terminal

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/shoal"
	"github.com/pthm-cable/shoal/telemetry"
)

// fakeSim is a fixed population with a controllable clock.
type fakeSim struct {
	agents   []shoal.AgentView
	centroid components.Vec2
	paused   bool
	speed    int
	steps    int
	advanced float64
	events   []telemetry.Event
}

func (f *fakeSim) AdvanceFrame(dt float64) {
	if !f.paused {
		f.advanced += dt
	}
}
func (f *fakeSim) StepOnce()                       { f.steps++ }
func (f *fakeSim) Agents() []shoal.AgentView       { return f.agents }
func (f *fakeSim) Centroid() components.Vec2       { return f.centroid }
func (f *fakeSim) Tick() int32                     { return int32(f.steps) }
func (f *fakeSim) SimTime() float64                { return f.advanced }
func (f *fakeSim) Paused() bool                    { return f.paused }
func (f *fakeSim) TogglePause() bool               { f.paused = !f.paused; return f.paused }
func (f *fakeSim) Speed() int                      { return f.speed }
func (f *fakeSim) SetSpeed(n int)                  { f.speed = max(1, n) }
func (f *fakeSim) RecentEvents() []telemetry.Event { return f.events }
func (f *fakeSim) Counts() (school, predators int) {
	for _, a := range f.agents {
		if a.Kind == components.KindPredator {
			predators++
		} else {
			school++
		}
	}
	return school, predators
}

func newTestView(t *testing.T) (*View, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 25)
	return NewView(screen, config.TerminalConfig{CellWidth: 10, FrameMS: 16}), screen
}

func runeAt(screen tcell.SimulationScreen, col, row int) rune {
	r, _, _, _ := screen.GetContent(col, row)
	return r
}

func statusLine(screen tcell.SimulationScreen, width, row int) string {
	var b strings.Builder
	for col := 0; col < width; col++ {
		b.WriteRune(runeAt(screen, col, row))
	}
	return b.String()
}

// ---------- mapping ----------

func TestCellOf(t *testing.T) {
	v, _ := newTestView(t)
	centre := components.Vec2{X: 500, Y: 500}

	tests := []struct {
		name    string
		p       components.Vec2
		col     int
		row     int
		visible bool
	}{
		{"centre", centre, 40, 12, true},
		{"one column right", components.Vec2{X: 510, Y: 500}, 41, 12, true},
		{"row is two columns tall", components.Vec2{X: 500, Y: 520}, 40, 13, true},
		{"left of screen", components.Vec2{X: 0, Y: 500}, -10, 12, false},
		{"status row excluded", components.Vec2{X: 500, Y: 740}, 40, 24, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := v.CellOf(tt.p, centre)
			if col != tt.col || row != tt.row || ok != tt.visible {
				t.Errorf("CellOf = (%d, %d, %v), want (%d, %d, %v)", col, row, ok, tt.col, tt.row, tt.visible)
			}
		})
	}
}

func TestArrowGlyph(t *testing.T) {
	tests := []struct {
		heading float64
		want    rune
	}{
		{0, '→'},
		{math.Pi / 2, '↓'},
		{math.Pi, '←'},
		{-math.Pi, '←'},
		{-math.Pi / 2, '↑'},
		{-math.Pi / 4, '↗'},
		{0.1, '→'},
	}
	for _, tt := range tests {
		if got := ArrowGlyph(tt.heading); got != tt.want {
			t.Errorf("ArrowGlyph(%v) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

// ---------- drawing ----------

func TestDraw_Glyphs(t *testing.T) {
	v, screen := newTestView(t)
	sim := &fakeSim{
		speed:    1,
		centroid: components.Vec2{X: 0, Y: 0},
		agents: []shoal.AgentView{
			{ID: 0, Position: components.Vec2{X: 0, Y: 0}, Kind: components.KindSchoolFish},
			{ID: 1, Position: components.Vec2{X: 30, Y: 0}, Kind: components.KindSchoolFish},
			{ID: 2, Position: components.Vec2{X: 32, Y: 1}, Kind: components.KindSchoolFish},
			{ID: 3, Position: components.Vec2{X: -20, Y: 0}, Kind: components.KindPredator},
			{ID: 4, Position: components.Vec2{X: -18, Y: 0}, Kind: components.KindSchoolFish},
		},
	}

	v.Draw(sim)

	if got := runeAt(screen, 40, 12); got != glyphFish {
		t.Errorf("single fish = %q, want %q", got, glyphFish)
	}
	if got := runeAt(screen, 43, 12); got != glyphCrowd {
		t.Errorf("crowded cell = %q, want %q", got, glyphCrowd)
	}
	if got := runeAt(screen, 38, 12); got != glyphPredator {
		t.Errorf("predator cell = %q, want %q", got, glyphPredator)
	}
}

func TestDraw_StatusLine(t *testing.T) {
	v, screen := newTestView(t)
	sim := &fakeSim{
		speed:  2,
		paused: true,
		agents: []shoal.AgentView{
			{Kind: components.KindSchoolFish},
			{Kind: components.KindPredator},
		},
		events: []telemetry.Event{{Type: telemetry.EventScatter}},
	}

	v.Draw(sim)

	line := statusLine(screen, 80, 24)
	for _, want := range []string{"school 1", "predators 1", "speed 2x", "[paused]", "last: scatter"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
}

// ---------- input ----------

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name      string
		ev        *tcell.EventKey
		paused    bool
		wantRun   bool
		wantPause bool
		wantSpeed int
		wantSteps int
	}{
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false, false, false, 3, 0},
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false, false, false, 3, 0},
		{"space pauses", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), false, true, true, 3, 0},
		{"period speeds up", tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone), false, true, false, 4, 0},
		{"comma slows down", tcell.NewEventKey(tcell.KeyRune, ',', tcell.ModNone), false, true, false, 2, 0},
		{"n steps when paused", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), true, true, true, 3, 1},
		{"n ignored when running", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), false, true, false, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestView(t)
			sim := &fakeSim{speed: 3, paused: tt.paused}

			if got := v.HandleEvent(tt.ev, sim); got != tt.wantRun {
				t.Errorf("HandleEvent = %v, want %v", got, tt.wantRun)
			}
			if sim.paused != tt.wantPause {
				t.Errorf("paused = %v, want %v", sim.paused, tt.wantPause)
			}
			if sim.speed != tt.wantSpeed {
				t.Errorf("speed = %d, want %d", sim.speed, tt.wantSpeed)
			}
			if sim.steps != tt.wantSteps {
				t.Errorf("steps = %d, want %d", sim.steps, tt.wantSteps)
			}
		})
	}
}

func TestHandleEvent_ToggleArrows(t *testing.T) {
	v, screen := newTestView(t)
	sim := &fakeSim{
		speed:  1,
		agents: []shoal.AgentView{{Heading: math.Pi / 2, Kind: components.KindSchoolFish}},
	}

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), sim)
	v.Draw(sim)

	if got := runeAt(screen, 40, 12); got != '↓' {
		t.Errorf("arrow glyph = %q, want '↓'", got)
	}
}
