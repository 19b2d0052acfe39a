package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

const controlsLegend = "SPACE: Pause | N: Step | < >: Speed | F: Follow | Arrows: Pan | Wheel: Zoom | H: Panel | Click: Inspect | G V R C S P: Overlays"

// Draw renders the game.
func (g *Game) Draw() {
	rl.BeginDrawing()

	if g.uiOverlays.IsEnabled(ui.OverlayGrid) {
		g.gridRenderer.Draw(g.camera)
	} else {
		rl.ClearBackground(g.gridRenderer.Background)
	}

	g.drawWorldOverlays()
	g.fishRenderer.Draw(g.camera, g.shoal.Agents())
	g.drawUI()

	rl.EndDrawing()
}

// drawUI draws the HUD, panels and event log.
func (g *Game) drawUI() {
	school, predators := g.shoal.Counts()
	g.uiHUD.Draw(ui.HUDData{
		Title:         "Shoal",
		SchoolCount:   school,
		PredatorCount: predators,
		Tick:          g.tick,
		SimTime:       g.simTime,
		Speed:         g.speed,
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		Following:     g.camera.Following,
	})

	y := int32(100)
	if g.uiOverlays.IsEnabled(ui.OverlayFlockStats) && g.hasStats {
		g.uiFlockPanel.SetPosition(10, y)
		y = g.uiFlockPanel.Draw(g.lastStats) + 10
	}
	g.drawRecentEvents(y)
	g.drawSelection()

	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.uiPerfPanel.Draw(g.perfCollector.Stats(), telemetry.PhaseOrder())
	}

	action := g.uiControls.Draw(ui.ControlsState{
		Paused:    g.paused,
		Following: g.camera.Following,
		Speed:     g.speed,
	}, g.uiOverlays)
	g.applyControls(action)

	g.uiHUD.DrawControls(int32(g.screenHeight), controlsLegend)
}

// drawRecentEvents lists the latest flock events below the HUD.
func (g *Game) drawRecentEvents(y int32) {
	for i := len(g.recentEvents) - 1; i >= 0; i-- {
		ev := g.recentEvents[i]
		rl.DrawText(fmt.Sprintf("%6.1fs %s", ev.SimTimeSec, ev.Type), 10, y, 14, rl.Orange)
		y += 16
	}
}

// applyControls applies clicks from the controls panel.
func (g *Game) applyControls(a ui.ControlsAction) {
	if a.TogglePause {
		g.TogglePause()
	}
	if a.StepOnce {
		g.StepOnce()
	}
	if a.ToggleFollow {
		g.camera.ToggleFollow()
	}
	if a.ResetCamera {
		g.resetCamera()
	}
	g.SetSpeed(a.Speed)
}
