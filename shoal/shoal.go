// Package shoal owns the agent population and advances it one step at a time.
package shoal

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// Phase names reported to a PhaseTimer during Step.
const (
	PhaseSnapshot = "snapshot"
	PhaseForces   = "forces"
	PhaseApply    = "apply"
)

// DefaultParallelThreshold is the population size at which Step fans out to workers.
const DefaultParallelThreshold = 64

// Config describes the initial population and the rules it runs under.
type Config struct {
	WorldWidth, WorldHeight float64
	SchoolFish              int
	Predators               int
	SchoolVelocity          components.Vec2
	PredatorVelocity        components.Vec2
	Forces                  systems.ForceParams
	Parallel                bool
	ParallelThreshold       int
}

// DefaultConfig returns a 1920x1080 world with 100 school fish and one predator.
func DefaultConfig() Config {
	return Config{
		WorldWidth:        1920,
		WorldHeight:       1080,
		SchoolFish:        100,
		Predators:         1,
		SchoolVelocity:    components.Vec2{X: 100},
		PredatorVelocity:  components.Vec2{X: 100},
		Forces:            systems.DefaultForceParams(),
		Parallel:          true,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// PhaseTimer receives phase boundaries while a step runs.
type PhaseTimer interface {
	StartPhase(phase string)
}

// AgentView is the read-only per-agent state handed to renderers.
type AgentView struct {
	ID       uint32
	Position components.Vec2
	Heading  float64
	Kind     components.Kind
}

// Shoal is the population. Agents live in an ECS world; entities keeps
// creation order, which is also draw order.
type Shoal struct {
	cfg    Config
	params systems.ForceParams

	world    *ecs.World
	fishMap  *ecs.Map3[components.Position, components.Velocity, components.Fish]
	filter   *ecs.Filter3[components.Position, components.Velocity, components.Fish]
	entities []ecs.Entity
	nextID   uint32

	snapshot []systems.Agent
	hood     systems.Neighborhood
	parallel *parallelState
	timer    PhaseTimer

	time  float64
	steps int
}

// New creates the population: school fish first, then predators. Positions
// are uniform in [0, W/2) x [0, H/2); every agent starts at time 0. Negative
// counts are treated as zero.
func New(cfg Config, rng *rand.Rand) *Shoal {
	cfg.SchoolFish = max(cfg.SchoolFish, 0)
	cfg.Predators = max(cfg.Predators, 0)
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = DefaultParallelThreshold
	}
	world := ecs.NewWorld()

	s := &Shoal{
		cfg:      cfg,
		params:   cfg.Forces,
		world:    world,
		fishMap:  ecs.NewMap3[components.Position, components.Velocity, components.Fish](world),
		filter:   ecs.NewFilter3[components.Position, components.Velocity, components.Fish](world),
		entities: make([]ecs.Entity, 0, cfg.SchoolFish+cfg.Predators),
		snapshot: make([]systems.Agent, 0, cfg.SchoolFish+cfg.Predators),
		parallel: newParallelState(),
	}

	for i := 0; i < cfg.SchoolFish; i++ {
		s.spawn(components.KindSchoolFish, cfg.SchoolVelocity, rng)
	}
	for i := 0; i < cfg.Predators; i++ {
		s.spawn(components.KindPredator, cfg.PredatorVelocity, rng)
	}
	return s
}

func (s *Shoal) spawn(kind components.Kind, vel components.Vec2, rng *rand.Rand) {
	pos := components.Position{
		X: rng.Float64() * s.cfg.WorldWidth / 2,
		Y: rng.Float64() * s.cfg.WorldHeight / 2,
	}
	v := components.Velocity{X: vel.X, Y: vel.Y}
	f := components.Fish{ID: s.nextID, Kind: kind}
	s.nextID++

	e := s.fishMap.NewEntity(&pos, &v, &f)
	s.entities = append(s.entities, e)
}

// SetPhaseTimer installs a timer for step phases. Nil disables timing.
func (s *Shoal) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

func (s *Shoal) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Step advances every agent to simulation time t. All agents read the same
// frozen snapshot; results land in per-agent intent slots and are written
// back only after every acceleration has been computed.
func (s *Shoal) Step(t float64) {
	s.phase(PhaseSnapshot)
	s.takeSnapshot()
	s.hood.Reset(s.snapshot)

	n := len(s.snapshot)
	if n == 0 {
		s.time = t
		s.steps++
		return
	}

	s.phase(PhaseForces)
	intents := s.parallel.prepare(n)
	if s.cfg.Parallel && n >= s.cfg.ParallelThreshold {
		s.parallel.compute(s, n, t)
	} else {
		s.computeChunk(0, n, t)
	}

	s.phase(PhaseApply)
	s.applyIntents(intents)

	s.time = t
	s.steps++
}

// takeSnapshot copies every agent, in creation order, into s.snapshot.
func (s *Shoal) takeSnapshot() {
	s.snapshot = s.snapshot[:0]
	for _, e := range s.entities {
		pos, vel, f := s.fishMap.Get(e)
		s.snapshot = append(s.snapshot, systems.Agent{
			ID:         f.ID,
			Kind:       f.Kind,
			Pos:        pos.Vec(),
			Vel:        vel.Vec(),
			LastUpdate: f.LastUpdate,
		})
	}
}

// computeChunk fills intents [i0, i1) from the snapshot. Reads only.
func (s *Shoal) computeChunk(i0, i1 int, t float64) {
	intents := s.parallel.intents
	for i := i0; i < i1; i++ {
		a := s.snapshot[i]
		acc := s.hood.Acceleration(a, s.params)
		a.Integrate(acc, t)
		intents[i] = a
	}
}

// applyIntents writes computed state back to ECS components.
func (s *Shoal) applyIntents(intents []systems.Agent) {
	for i, e := range s.entities {
		in := &intents[i]
		pos, vel, f := s.fishMap.Get(e)
		pos.X, pos.Y = in.Pos.X, in.Pos.Y
		vel.X, vel.Y = in.Vel.X, in.Vel.Y
		f.LastUpdate = in.LastUpdate
	}
}

// Agents returns the post-step state of every agent in creation order.
func (s *Shoal) Agents() []AgentView {
	out := make([]AgentView, 0, len(s.entities))
	for _, e := range s.entities {
		pos, vel, f := s.fishMap.Get(e)
		out = append(out, AgentView{
			ID:       f.ID,
			Position: pos.Vec(),
			Heading:  vel.Vec().Heading(),
			Kind:     f.Kind,
		})
	}
	return out
}

// Snapshot returns a copy of the full agent state in creation order.
func (s *Shoal) Snapshot() []systems.Agent {
	s.takeSnapshot()
	out := make([]systems.Agent, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Centroid returns the mean school fish position, or zero if there are none.
func (s *Shoal) Centroid() components.Vec2 {
	var sum components.Vec2
	n := 0
	query := s.filter.Query()
	for query.Next() {
		pos, _, f := query.Get()
		if f.Kind != components.KindSchoolFish {
			continue
		}
		sum = sum.Add(pos.Vec())
		n++
	}
	if n == 0 {
		return components.Zero
	}
	return sum.Scale(1 / float64(n))
}

// Counts returns the number of school fish and predators.
func (s *Shoal) Counts() (school, predators int) {
	query := s.filter.Query()
	for query.Next() {
		_, _, f := query.Get()
		if f.Kind == components.KindPredator {
			predators++
		} else {
			school++
		}
	}
	return school, predators
}

// Len returns the total number of agents.
func (s *Shoal) Len() int { return len(s.entities) }

// Time returns the simulation time of the last Step.
func (s *Shoal) Time() float64 { return s.time }

// Steps returns how many times Step has run.
func (s *Shoal) Steps() int { return s.steps }

// Params returns the force constants in use.
func (s *Shoal) Params() systems.ForceParams { return s.params }

// Close stops the worker goroutines. The shoal must not be stepped afterwards.
func (s *Shoal) Close() {
	s.parallel.stopWorkers()
}
