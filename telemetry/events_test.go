package telemetry

import "testing"

var testThresholds = Thresholds{
	SchoolPolarization: 0.8,
	SchoolWindows:      3,
	ScatterGrowth:      0.5,
	StrikeRadius:       50,
	StallSpeed:         5,
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func calm(tick int32) WindowStats {
	return WindowStats{
		WindowEndTick:    tick,
		SchoolCount:      50,
		SpeedMean:        80,
		Polarization:     0.3,
		CohesionRadius:   100,
		PredatorDistance: -1,
	}
}

func TestEventDetector_SchoolFormed(t *testing.T) {
	d := NewEventDetector(10, testThresholds)

	var fired int
	for i := 0; i < 6; i++ {
		s := calm(int32(i * 600))
		s.Polarization = 0.9
		events := d.Check(s)
		if hasEvent(events, EventSchoolFormed) {
			fired++
			if i != 2 {
				t.Errorf("school_formed fired at window %d, want 2", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("school_formed fired %d times, want 1", fired)
	}

	// Losing polarization re-arms the event.
	d.Check(calm(4000))
	for i := 0; i < 3; i++ {
		s := calm(int32(5000 + i))
		s.Polarization = 0.95
		if events := d.Check(s); hasEvent(events, EventSchoolFormed) != (i == 2) {
			t.Errorf("window %d after re-arm: fired = %v", i, !(i == 2))
		}
	}
}

func TestEventDetector_Scatter(t *testing.T) {
	d := NewEventDetector(10, testThresholds)

	for i := 0; i < 4; i++ {
		if events := d.Check(calm(int32(i))); hasEvent(events, EventScatter) {
			t.Fatalf("unexpected scatter at window %d", i)
		}
	}

	spread := calm(10)
	spread.CohesionRadius = 180
	if !hasEvent(d.Check(spread), EventScatter) {
		t.Error("expected scatter when cohesion radius grows 80%")
	}

	// The same spread right after must not fire again.
	again := calm(11)
	again.CohesionRadius = 185
	if hasEvent(d.Check(again), EventScatter) {
		t.Error("scatter fired twice for one spread")
	}
}

func TestEventDetector_PredatorStrike(t *testing.T) {
	d := NewEventDetector(10, testThresholds)

	far := calm(1)
	far.PredatorDistance = 200
	if hasEvent(d.Check(far), EventPredatorStrike) {
		t.Error("strike fired for distant predator")
	}

	near := calm(2)
	near.PredatorDistance = 20
	if !hasEvent(d.Check(near), EventPredatorStrike) {
		t.Error("expected strike for predator inside radius")
	}
	near.WindowEndTick = 3
	if hasEvent(d.Check(near), EventPredatorStrike) {
		t.Error("strike should fire only on entry")
	}

	// No predators at all is never a strike.
	none := calm(4)
	none.PredatorDistance = -1
	if hasEvent(d.Check(none), EventPredatorStrike) {
		t.Error("strike fired with no predators")
	}
}

func TestEventDetector_Stall(t *testing.T) {
	d := NewEventDetector(10, testThresholds)

	slow := calm(1)
	slow.SpeedMean = 1
	events := d.Check(slow)
	if !hasEvent(events, EventStall) {
		t.Fatal("expected stall")
	}
	if events[len(events)-1].Tick != 1 {
		t.Errorf("event tick = %d, want 1", events[len(events)-1].Tick)
	}

	empty := calm(2)
	empty.SchoolCount = 0
	empty.SpeedMean = 0
	if hasEvent(d.Check(empty), EventStall) {
		t.Error("empty school should not stall")
	}
}
