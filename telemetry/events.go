package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/shoal/config"
)

// EventType identifies a flock event.
type EventType string

const (
	EventSchoolFormed   EventType = "school_formed"
	EventScatter        EventType = "scatter"
	EventPredatorStrike EventType = "predator_strike"
	EventStall          EventType = "stall"
)

// Event is a notable change in flock behaviour, detected at a window boundary.
type Event struct {
	Type        EventType `csv:"type"`
	Tick        int32     `csv:"tick"`
	SimTimeSec  float64   `csv:"sim_time"`
	Description string    `csv:"description"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", string(e.Type),
		"tick", e.Tick,
		"sim_time", e.SimTimeSec,
		"description", e.Description,
	)
}

// Thresholds configures the EventDetector.
type Thresholds struct {
	SchoolPolarization float64 // polarization that counts as schooling
	SchoolWindows      int     // consecutive windows required for school_formed
	ScatterGrowth      float64 // fractional cohesion radius growth over the recent minimum
	StrikeRadius       float64 // predator distance to centroid that counts as a strike
	StallSpeed         float64 // mean speed below this is a stall
}

// EventDetector watches successive WindowStats for flock events.
// Each event fires on entry into its condition, not on every window it holds.
type EventDetector struct {
	th Thresholds

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	polarizedWindows int
	schooling        bool
	striking         bool
	stalled          bool
}

// NewEventDetector creates a detector with the given history size.
func NewEventDetector(historySize int, th Thresholds) *EventDetector {
	if historySize < 3 {
		historySize = 3
	}
	if th.SchoolWindows < 1 {
		th.SchoolWindows = 1
	}
	return &EventDetector{
		th:          th,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered events.
func (d *EventDetector) Check(stats WindowStats) []Event {
	var events []Event

	if e := d.checkSchoolFormed(stats); e != nil {
		events = append(events, *e)
	}
	if d.historyFull || d.historyIdx > 0 {
		if e := d.checkScatter(stats); e != nil {
			events = append(events, *e)
		}
	}
	if e := d.checkPredatorStrike(stats); e != nil {
		events = append(events, *e)
	}
	if e := d.checkStall(stats); e != nil {
		events = append(events, *e)
	}

	d.addToHistory(stats)
	return events
}

func (d *EventDetector) addToHistory(stats WindowStats) {
	d.history[d.historyIdx] = stats
	d.historyIdx = (d.historyIdx + 1) % d.historySize
	if d.historyIdx == 0 {
		d.historyFull = true
	}
}

func (d *EventDetector) getHistory() []WindowStats {
	if d.historyFull {
		return d.history
	}
	return d.history[:d.historyIdx]
}

func (d *EventDetector) newEvent(t EventType, stats WindowStats, format string, args ...any) *Event {
	return &Event{
		Type:        t,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf(format, args...),
	}
}

func (d *EventDetector) checkSchoolFormed(stats WindowStats) *Event {
	if stats.SchoolCount < 2 || stats.Polarization < d.th.SchoolPolarization {
		d.polarizedWindows = 0
		d.schooling = false
		return nil
	}

	d.polarizedWindows++
	if d.schooling || d.polarizedWindows < d.th.SchoolWindows {
		return nil
	}
	d.schooling = true
	return d.newEvent(EventSchoolFormed, stats,
		"Polarization %.2f held for %d windows", stats.Polarization, d.polarizedWindows)
}

func (d *EventDetector) checkScatter(stats WindowStats) *Event {
	if stats.SchoolCount < 2 {
		return nil
	}

	minRadius := -1.0
	for _, h := range d.getHistory() {
		if h.SchoolCount < 2 {
			continue
		}
		if minRadius < 0 || h.CohesionRadius < minRadius {
			minRadius = h.CohesionRadius
		}
	}
	if minRadius <= 0 {
		return nil
	}

	growth := stats.CohesionRadius/minRadius - 1
	if growth <= d.th.ScatterGrowth {
		return nil
	}

	// Rebase so the same spread does not fire again next window.
	d.resetHistory()
	return d.newEvent(EventScatter, stats,
		"Cohesion radius %.1f is %.0f%% above recent minimum %.1f", stats.CohesionRadius, growth*100, minRadius)
}

func (d *EventDetector) resetHistory() {
	d.historyIdx = 0
	d.historyFull = false
}

func (d *EventDetector) checkPredatorStrike(stats WindowStats) *Event {
	inRange := stats.PredatorDistance >= 0 && stats.PredatorDistance < d.th.StrikeRadius
	if !inRange {
		d.striking = false
		return nil
	}
	if d.striking {
		return nil
	}
	d.striking = true
	return d.newEvent(EventPredatorStrike, stats,
		"Predator %.1f from school centroid", stats.PredatorDistance)
}

func (d *EventDetector) checkStall(stats WindowStats) *Event {
	stalled := stats.SchoolCount > 0 && stats.SpeedMean < d.th.StallSpeed
	if !stalled {
		d.stalled = false
		return nil
	}
	if d.stalled {
		return nil
	}
	d.stalled = true
	return d.newEvent(EventStall, stats, "Mean speed %.2f below %.2f", stats.SpeedMean, d.th.StallSpeed)
}

// ThresholdsFromConfig reads event thresholds from the events section.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	e := cfg.Events
	return Thresholds{
		SchoolPolarization: e.SchoolPolarization,
		SchoolWindows:      e.SchoolWindows,
		ScatterGrowth:      e.ScatterGrowth,
		StrikeRadius:       e.StrikeRadius,
		StallSpeed:         e.StallSpeed,
	}
}
