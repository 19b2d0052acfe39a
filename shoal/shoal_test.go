package shoal

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

func testConfig(school, predators int) Config {
	cfg := DefaultConfig()
	cfg.SchoolFish = school
	cfg.Predators = predators
	return cfg
}

func TestNew_Population(t *testing.T) {
	cfg := testConfig(20, 3)
	s := New(cfg, rand.New(rand.NewSource(1)))
	defer s.Close()

	if s.Len() != 23 {
		t.Fatalf("Len = %d, want 23", s.Len())
	}
	school, preds := s.Counts()
	if school != 20 || preds != 3 {
		t.Errorf("Counts = (%d, %d), want (20, 3)", school, preds)
	}

	seen := make(map[uint32]bool)
	for i, a := range s.Snapshot() {
		wantKind := components.KindSchoolFish
		if i >= 20 {
			wantKind = components.KindPredator
		}
		if a.Kind != wantKind {
			t.Errorf("agent %d kind = %v, want %v", i, a.Kind, wantKind)
		}
		if seen[a.ID] {
			t.Errorf("duplicate ID %d", a.ID)
		}
		seen[a.ID] = true

		if a.Pos.X < 0 || a.Pos.X >= cfg.WorldWidth/2 || a.Pos.Y < 0 || a.Pos.Y >= cfg.WorldHeight/2 {
			t.Errorf("agent %d spawned outside quarter-world: %+v", i, a.Pos)
		}
		if a.Vel != (components.Vec2{X: 100}) {
			t.Errorf("agent %d initial velocity = %+v, want (100,0)", i, a.Vel)
		}
		if a.LastUpdate != 0 {
			t.Errorf("agent %d LastUpdate = %v, want 0", i, a.LastUpdate)
		}
	}
}

func TestNew_Empty(t *testing.T) {
	s := New(testConfig(0, 0), rand.New(rand.NewSource(1)))
	defer s.Close()

	s.Step(1)
	if len(s.Agents()) != 0 {
		t.Error("expected no agents")
	}
	if s.Centroid() != components.Zero {
		t.Errorf("centroid = %+v, want zero", s.Centroid())
	}
}

func TestNew_NegativeCountsClampToZero(t *testing.T) {
	s := New(testConfig(-3, -1), rand.New(rand.NewSource(1)))
	defer s.Close()

	s.Step(1)
	if got := len(s.Agents()); got != 0 {
		t.Errorf("agents = %d, want 0", got)
	}
}

func TestStep_ZeroDtLeavesStateUnchanged(t *testing.T) {
	s := New(testConfig(30, 2), rand.New(rand.NewSource(7)))
	defer s.Close()

	before := s.Snapshot()
	s.Step(0)
	after := s.Snapshot()

	for i := range before {
		if before[i] != after[i] {
			t.Errorf("agent %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestStep_ReadsFrozenSnapshot(t *testing.T) {
	s := New(testConfig(10, 2), rand.New(rand.NewSource(3)))
	defer s.Close()

	before := s.Snapshot()
	var hood systems.Neighborhood
	hood.Reset(before)

	want := make([]systems.Agent, len(before))
	for i, a := range before {
		a.Integrate(hood.Acceleration(a, s.Params()), 0.5)
		want[i] = a
	}

	s.Step(0.5)
	got := s.Snapshot()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("agent %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStep_ParallelMatchesSequential(t *testing.T) {
	seq := testConfig(150, 3)
	seq.Parallel = false
	par := testConfig(150, 3)
	par.Parallel = true
	par.ParallelThreshold = 8

	a := New(seq, rand.New(rand.NewSource(11)))
	defer a.Close()
	b := New(par, rand.New(rand.NewSource(11)))
	defer b.Close()

	for tick := 1; tick <= 20; tick++ {
		tt := float64(tick) / 60
		a.Step(tt)
		b.Step(tt)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestAgents_ReflectPostStepState(t *testing.T) {
	s := New(testConfig(5, 1), rand.New(rand.NewSource(5)))
	defer s.Close()

	s.Step(0.25)
	snap := s.Snapshot()
	views := s.Agents()
	if len(views) != len(snap) {
		t.Fatalf("len(Agents) = %d, want %d", len(views), len(snap))
	}
	for i, v := range views {
		if v.ID != snap[i].ID || v.Kind != snap[i].Kind || v.Position != snap[i].Pos {
			t.Errorf("view %d = %+v, agent %+v", i, v, snap[i])
		}
		if v.Heading != snap[i].Heading() {
			t.Errorf("view %d heading = %v, want %v", i, v.Heading, snap[i].Heading())
		}
	}
	if s.Time() != 0.25 || s.Steps() != 1 {
		t.Errorf("Time/Steps = %v/%d", s.Time(), s.Steps())
	}
}

type recordingTimer struct{ phases []string }

func (r *recordingTimer) StartPhase(p string) { r.phases = append(r.phases, p) }

func TestStep_ReportsPhases(t *testing.T) {
	s := New(testConfig(4, 1), rand.New(rand.NewSource(2)))
	defer s.Close()

	rec := &recordingTimer{}
	s.SetPhaseTimer(rec)
	s.Step(0.1)

	want := []string{PhaseSnapshot, PhaseForces, PhaseApply}
	if len(rec.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", rec.phases, want)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, rec.phases[i], want[i])
		}
	}
}

func TestCentroid_IgnoresPredators(t *testing.T) {
	s := New(testConfig(6, 2), rand.New(rand.NewSource(9)))
	defer s.Close()

	var school []systems.Agent
	for _, a := range s.Snapshot() {
		if !a.IsPredator() {
			school = append(school, a)
		}
	}
	want := systems.Centroid(school)
	got := s.Centroid()
	if !scalar.EqualWithinAbs(got.X, want.X, 1e-9) || !scalar.EqualWithinAbs(got.Y, want.Y, 1e-9) {
		t.Errorf("Centroid = %+v, want %+v", got, want)
	}
}
