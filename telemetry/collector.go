// Package telemetry provides flock statistics, event detection and CSV output.
package telemetry

import "github.com/pthm-cable/shoal/systems"

// Collector groups steps into windows of simulation time and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowStartTime float64
	steps           int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordStep counts one shoal step in the current window.
func (c *Collector) RecordStep() {
	c.steps++
}

// ShouldFlush returns true once the window has covered its duration of sim time.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush measures agents, produces a WindowStats and starts the next window.
func (c *Collector) Flush(currentTick int32, simTime float64, agents []systems.Agent) WindowStats {
	m := ComputeFlockMetrics(agents)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,
		Steps:           c.steps,

		SchoolCount:   m.SchoolCount,
		PredatorCount: m.PredatorCount,

		CentroidX: m.Centroid.X,
		CentroidY: m.Centroid.Y,

		SpeedMean: m.SpeedMean,
		SpeedStd:  m.SpeedStd,
		SpeedP10:  m.SpeedP10,
		SpeedP50:  m.SpeedP50,
		SpeedP90:  m.SpeedP90,

		Polarization: m.Polarization,
		Milling:      m.Milling,
		MeanHeading:  m.MeanHeading,

		CohesionRadius:   m.CohesionRadius,
		NearestNeighbor:  m.NearestNeighbor,
		PredatorDistance: m.PredatorDistance,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	c.steps = 0

	return stats
}

// WindowDuration returns the window length in simulation seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
