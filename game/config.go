package game

import (
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

// maxSpeed caps the steps run per rendered frame.
const maxSpeed = 10

// Options holds configuration for game initialization.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string  // empty = no CSV output
	Headless       bool    // no raylib calls at all
	StepsPerUpdate int     // 0 = physics.steps_per_update

	// Called after each telemetry window and each detected event.
	OnStats func(telemetry.WindowStats)
	OnEvent func(telemetry.Event)
}
