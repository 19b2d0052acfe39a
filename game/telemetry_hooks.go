package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/telemetry"
)

// flushTelemetry closes the stats window once it has covered its sim time,
// then runs event detection on the result.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.simTime) {
		return
	}

	stats := g.collector.Flush(g.tick, g.simTime, g.shoal.Snapshot())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats
	g.hasStats = true

	if g.onStats != nil {
		g.onStats(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, ev := range g.eventDetector.Check(stats) {
		g.recordEvent(ev)
	}
}

// recordEvent logs, writes and forwards a detected event.
func (g *Game) recordEvent(ev telemetry.Event) {
	if g.logStats {
		ev.LogEvent()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteEvent(ev); err != nil {
			slog.Error("failed to write event", "error", err)
		}
	}

	g.recentEvents = append(g.recentEvents, ev)
	if len(g.recentEvents) > recentEventLimit {
		g.recentEvents = g.recentEvents[len(g.recentEvents)-recentEventLimit:]
	}

	if g.onEvent != nil {
		g.onEvent(ev)
	}
}
