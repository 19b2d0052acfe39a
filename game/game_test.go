package game

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Population.SchoolFish = 20
	cfg.Population.Predators = 1
	cfg.Telemetry.StatsWindow = 0.5
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

// ---------- clock ----------

func TestUpdateHeadless_FixedStep(t *testing.T) {
	cfg := testConfig(t)
	g := newHeadless(t, Options{Config: cfg, StepsPerUpdate: 3})

	g.UpdateHeadless()
	g.UpdateHeadless()

	if g.Tick() != 6 {
		t.Errorf("tick = %d, want 6", g.Tick())
	}
	want := 6 * cfg.Physics.HeadlessDT
	if !scalar.EqualWithinAbs(g.SimTime(), want, 1e-12) {
		t.Errorf("sim time = %v, want %v", g.SimTime(), want)
	}
}

func TestAdvanceFrame(t *testing.T) {
	tests := []struct {
		name      string
		speed     int
		paused    bool
		wantTick  int32
		wantClock float64
	}{
		{"one step", 1, false, 1, 0.02},
		{"speed three", 3, false, 3, 0.06},
		{"paused", 3, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newHeadless(t, Options{})
			g.SetSpeed(tt.speed)
			if tt.paused {
				g.TogglePause()
			}

			g.AdvanceFrame(0.02)

			if g.Tick() != tt.wantTick {
				t.Errorf("tick = %d, want %d", g.Tick(), tt.wantTick)
			}
			if !scalar.EqualWithinAbs(g.SimTime(), tt.wantClock, 1e-12) {
				t.Errorf("sim time = %v, want %v", g.SimTime(), tt.wantClock)
			}
		})
	}
}

func TestStepOnce_IgnoresPause(t *testing.T) {
	g := newHeadless(t, Options{})
	g.TogglePause()
	g.StepOnce()

	if g.Tick() != 1 {
		t.Errorf("tick = %d, want 1", g.Tick())
	}
	if !g.Paused() {
		t.Error("StepOnce should not unpause")
	}
}

func TestSetSpeed_Clamps(t *testing.T) {
	g := newHeadless(t, Options{})

	for _, tt := range []struct{ in, want int }{{0, 1}, {-4, 1}, {5, 5}, {99, maxSpeed}} {
		g.SetSpeed(tt.in)
		if g.Speed() != tt.want {
			t.Errorf("SetSpeed(%d) -> %d, want %d", tt.in, g.Speed(), tt.want)
		}
	}
}

func TestNewGame_Population(t *testing.T) {
	g := newHeadless(t, Options{})

	school, predators := g.Counts()
	if school != 20 || predators != 1 {
		t.Errorf("counts = %d/%d, want 20/1", school, predators)
	}
	if len(g.Agents()) != 21 {
		t.Errorf("agents = %d, want 21", len(g.Agents()))
	}
}

func TestNewGame_SameSeedSameState(t *testing.T) {
	a := newHeadless(t, Options{Seed: 7})
	b := newHeadless(t, Options{Seed: 7})
	for i := 0; i < 10; i++ {
		a.UpdateHeadless()
		b.UpdateHeadless()
	}

	av, bv := a.Agents(), b.Agents()
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("agent %d differs: %+v vs %+v", i, av[i], bv[i])
		}
	}
}

// ---------- telemetry ----------

func TestTelemetry_WindowsFlushOnSimTime(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		StatsWindowSec: 0.1,
		OnStats:        func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	// 60 steps of 1/60s is one second: ten windows of 0.1s.
	for i := 0; i < 60; i++ {
		g.UpdateHeadless()
	}

	if len(windows) < 8 || len(windows) > 10 {
		t.Fatalf("windows = %d, want about 10", len(windows))
	}
	last, ok := g.LastStats()
	if !ok {
		t.Fatal("LastStats not set")
	}
	if last != windows[len(windows)-1] {
		t.Error("LastStats does not match the last callback")
	}
	if last.SchoolCount != 20 || last.PredatorCount != 1 {
		t.Errorf("counts = %d/%d, want 20/1", last.SchoolCount, last.PredatorCount)
	}
}

func TestOutputDir_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	g, err := NewGameWithOptions(Options{Config: cfg, Headless: true, OutputDir: dir, StatsWindowSec: 0.1})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "events.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(rows) < 2 {
		t.Errorf("telemetry.csv rows = %d, want header plus data", len(rows))
	}
}

func TestRecordEvent_KeepsRecentAndForwards(t *testing.T) {
	var forwarded int
	g := newHeadless(t, Options{OnEvent: func(telemetry.Event) { forwarded++ }})

	for i := 0; i < recentEventLimit+3; i++ {
		g.recordEvent(telemetry.Event{Type: telemetry.EventStall, Tick: int32(i)})
	}

	if forwarded != recentEventLimit+3 {
		t.Errorf("forwarded = %d, want %d", forwarded, recentEventLimit+3)
	}
	recent := g.RecentEvents()
	if len(recent) != recentEventLimit {
		t.Fatalf("recent = %d, want %d", len(recent), recentEventLimit)
	}
	if recent[0].Tick != 3 {
		t.Errorf("oldest kept tick = %d, want 3", recent[0].Tick)
	}
}
