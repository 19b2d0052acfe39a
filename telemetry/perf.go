package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/shoal/shoal"
)

// Step phases, in the order a tick runs them.
const (
	PhaseSnapshot  = shoal.PhaseSnapshot
	PhaseForces    = shoal.PhaseForces
	PhaseApply     = shoal.PhaseApply
	PhaseTelemetry = "telemetry"
)

var phaseOrder = []string{PhaseSnapshot, PhaseForces, PhaseApply, PhaseTelemetry}

// PhaseOrder returns a copy of the phase list in tick order.
func PhaseOrder() []string {
	return append([]string(nil), phaseOrder...)
}

// tickTiming is one finished tick.
type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector times ticks and their phases. It keeps the last windowSize
// ticks in a ring and maintains running sums over them, so Stats only has
// to divide. It also implements shoal.PhaseTimer.
type PerfCollector struct {
	now func() time.Time

	ring []tickTiming
	next int // slot the next tick overwrites
	full bool

	sumTotal  time.Duration
	sumPhases map[string]time.Duration

	// In-flight tick
	tickStart  time.Time
	phase      string
	phaseStart time.Time
	phases     map[string]time.Duration

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// Non-positive sizes fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:       time.Now,
		ring:      make([]tickTiming, windowSize),
		sumPhases: make(map[string]time.Duration),
	}
}

// StartTick opens a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.phase = ""
	p.phases = make(map[string]time.Duration, len(phaseOrder))
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	p.closePhase(p.now())
	p.phase = phase
}

func (p *PerfCollector) closePhase(at time.Time) {
	if p.phase != "" {
		p.phases[p.phase] += at.Sub(p.phaseStart)
	}
	p.phaseStart = at
}

// EndTick closes the tick and pushes it into the window.
func (p *PerfCollector) EndTick() {
	end := p.now()
	p.closePhase(end)
	p.push(tickTiming{total: end.Sub(p.tickStart), phases: p.phases})
	p.phase = ""
}

// push stores t, evicting the oldest tick from the running sums once the
// ring has wrapped.
func (p *PerfCollector) push(t tickTiming) {
	if p.full {
		old := p.ring[p.next]
		p.sumTotal -= old.total
		for name, d := range old.phases {
			p.sumPhases[name] -= d
			if p.sumPhases[name] == 0 {
				delete(p.sumPhases, name)
			}
		}
	}

	p.ring[p.next] = t
	p.sumTotal += t.total
	for name, d := range t.phases {
		p.sumPhases[name] += d
	}

	p.next++
	if p.next == len(p.ring) {
		p.next = 0
		p.full = true
	}
}

func (p *PerfCollector) count() int {
	if p.full {
		return len(p.ring)
	}
	return p.next
}

// RecordFrame marks a rendered frame; the gap to the previous one is the
// frame time.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, 0..100

	TicksPerSecond float64

	FrameDuration time.Duration // graphical mode only
	FPS           float64
}

// Stats returns the window summary. Maps are never nil.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.sumPhases)),
		PhasePct:      make(map[string]float64, len(p.sumPhases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}

	n := p.count()
	if n == 0 {
		return s
	}

	s.MinTickDuration = p.ring[0].total
	for _, t := range p.ring[:n] {
		s.MinTickDuration = min(s.MinTickDuration, t.total)
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
	}

	s.AvgTickDuration = p.sumTotal / time.Duration(n)
	for name, sum := range p.sumPhases {
		avg := sum / time.Duration(n)
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = 100 * float64(avg) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats writes the summary as one "perf" record. Phases under 0.1% are
// left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SnapshotPct  float64 `csv:"snapshot_pct"`
	ForcesPct    float64 `csv:"forces_pct"`
	ApplyPct     float64 `csv:"apply_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SnapshotPct:  s.PhasePct[PhaseSnapshot],
		ForcesPct:    s.PhasePct[PhaseForces],
		ApplyPct:     s.PhasePct[PhaseApply],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
