// Package game drives a shoal: the clock, input, telemetry and drawing.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/inspector"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/shoal"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	shoal   *shoal.Shoal
	rngSeed int64

	// Clock
	tick           int32
	simTime        float64
	paused         bool
	speed          int // steps per rendered frame
	stepsPerUpdate int // steps per UpdateHeadless call
	headless       bool

	// Rendering (nil when headless)
	camera       *camera.Camera
	fishRenderer *renderer.FishRenderer
	gridRenderer *renderer.GridRenderer
	uiOverlays   *ui.OverlayRegistry
	uiHUD        *ui.HUD
	uiFlockPanel *ui.FlockPanel
	uiPerfPanel  *ui.PerfPanel
	uiControls   *ui.ControlsPanel
	inspector    *inspector.Inspector
	screenWidth  float32
	screenHeight float32

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	eventDetector *telemetry.EventDetector
	outputManager *telemetry.OutputManager
	logStats      bool
	lastStats     telemetry.WindowStats
	hasStats      bool
	recentEvents  []telemetry.Event
	onStats       func(telemetry.WindowStats)
	onEvent       func(telemetry.Event)
}

// recentEventLimit is how many events the HUD keeps.
const recentEventLimit = 5

// NewGameWithOptions creates a game with the given options.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	stepsPerUpdate := cfg.Physics.StepsPerUpdate
	if opts.StepsPerUpdate > 0 {
		stepsPerUpdate = opts.StepsPerUpdate
	}

	g := &Game{
		cfg:            cfg,
		rngSeed:        opts.Seed,
		speed:          1,
		stepsPerUpdate: stepsPerUpdate,
		headless:       opts.Headless,
		collector:      telemetry.NewCollector(statsWindow),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		eventDetector:  telemetry.NewEventDetector(cfg.Telemetry.EventHistorySize, telemetry.ThresholdsFromConfig(cfg)),
		logStats:       opts.LogStats,
		onStats:        opts.OnStats,
		onEvent:        opts.OnEvent,
	}

	g.shoal = shoal.New(cfg.ShoalConfig(), rand.New(rand.NewSource(opts.Seed)))
	g.shoal.SetPhaseTimer(g.perfCollector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.shoal.Close()
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			g.shoal.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		g.outputManager = om
		slog.Info("output enabled", "dir", om.Dir())
	}

	if !opts.Headless {
		g.initRendering()
	}

	g.logWorldState("start")
	return g, nil
}

// initRendering sets up the camera and UI. Only called with a window open.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.screenWidth = float32(cfg.Screen.Width)
	g.screenHeight = float32(cfg.Screen.Height)

	c := g.shoal.Centroid()
	g.camera = camera.New(float64(g.screenWidth), float64(g.screenHeight), c.X, c.Y)
	g.camera.Following = cfg.Render.FollowCentroid

	g.fishRenderer = renderer.NewFishRenderer(cfg.Render)
	g.gridRenderer = renderer.NewGridRenderer(cfg.Render)

	g.uiOverlays = ui.NewOverlayRegistry()
	g.uiOverlays.SetEnabled(ui.OverlayGrid, cfg.Render.ShowGrid)
	g.uiHUD = ui.NewHUD()
	g.uiFlockPanel = ui.NewFlockPanel(10, 100, 240)
	g.uiPerfPanel = ui.NewPerfPanel(int32(g.screenWidth)-300, 10)
	g.uiControls = ui.NewControlsPanel(int32(g.screenWidth)-250, 120, 240)
	g.inspector = inspector.NewInspector(int32(g.screenWidth), int32(g.screenHeight))
}

// Update handles input and advances the clock by the last frame time.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()
	g.AdvanceFrame(float64(rl.GetFrameTime()))
	g.camera.Update(g.shoal.Centroid())
}

// UpdateHeadless runs stepsPerUpdate fixed steps; step n lands at n*headless_dt.
func (g *Game) UpdateHeadless() {
	dt := g.cfg.Physics.HeadlessDT
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(float64(g.tick+1) * dt)
	}
}

// AdvanceFrame runs speed steps, each moving the clock forward by frameDT.
// Nothing happens while paused.
func (g *Game) AdvanceFrame(frameDT float64) {
	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.step(g.simTime + frameDT)
	}
}

// StepOnce runs a single headless_dt step regardless of pause state.
func (g *Game) StepOnce() {
	g.step(g.simTime + g.cfg.Physics.HeadlessDT)
}

// step advances the shoal to simulation time t.
func (g *Game) step(t float64) {
	g.perfCollector.StartTick()

	g.shoal.Step(t)
	g.tick++
	g.simTime = t
	g.collector.RecordStep()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Unload stops workers and closes output files.
func (g *Game) Unload() {
	g.logWorldState("stop")
	g.shoal.Close()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

// Tick returns the number of steps taken.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns the simulation clock in seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Paused reports whether the clock is stopped.
func (g *Game) Paused() bool { return g.paused }

// TogglePause flips the pause state and returns the new value.
func (g *Game) TogglePause() bool {
	g.paused = !g.paused
	return g.paused
}

// Speed returns the steps run per frame.
func (g *Game) Speed() int { return g.speed }

// SetSpeed sets the steps per frame, clamped to [1, maxSpeed].
func (g *Game) SetSpeed(n int) {
	g.speed = max(1, min(n, maxSpeed))
}

// Agents returns the current agent views in draw order.
func (g *Game) Agents() []shoal.AgentView { return g.shoal.Agents() }

// Centroid returns the school centroid.
func (g *Game) Centroid() components.Vec2 { return g.shoal.Centroid() }

// Counts returns school fish and predator counts.
func (g *Game) Counts() (school, predators int) { return g.shoal.Counts() }

// LastStats returns the most recent telemetry window, if any.
func (g *Game) LastStats() (telemetry.WindowStats, bool) { return g.lastStats, g.hasStats }

// RecentEvents returns the latest detected events, oldest first.
func (g *Game) RecentEvents() []telemetry.Event { return g.recentEvents }
