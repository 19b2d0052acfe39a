package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/telemetry"
)

// Quality component weights.
const (
	weightPolarization = 1.0
	weightCohesion     = 0.5
	weightSpacing      = 0.5
	weightStall        = 1.0
)

// warmupWindows are skipped while the school forms from its random start.
const warmupWindows = 1

// divergedFitness is returned for runs whose state stops being finite.
const divergedFitness = 1e6

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Target spacing the school should settle into
	targetCohesion float64
	targetSpacing  float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		maxTicks:       maxTicks,
		seeds:          seeds,
		baseConfig:     baseCfg,
		statsWindow:    5.0,
		targetCohesion: baseCfg.Forces.VisibilityDistance / 2,
		targetSpacing:  baseCfg.Forces.VisibilityDistance / 10,
	}
}

// LastQuality returns the mean quality from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel; fitness is the negated mean quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			qualities[idx] = fe.computeQuality(windows)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, q := range qualities {
		if math.IsNaN(q) {
			return divergedFitness
		}
		total += q
	}
	mean := total / float64(len(qualities))

	fe.mu.Lock()
	fe.lastQuality = mean
	fe.mu.Unlock()

	return -mean
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Config:         &cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		OnStats: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// computeQuality scores a run from its windows. Higher is better; NaN means
// the run diverged.
//
// Per window: polarization, minus the relative error of the cohesion
// radius and nearest-neighbour distance against their targets, minus a
// stall penalty.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return math.NaN()
	}

	stallSpeed := fe.baseConfig.Events.StallSpeed
	var sum float64
	for _, w := range windows[warmupWindows:] {
		if !finite(w.CentroidX, w.CentroidY, w.SpeedMean, w.CohesionRadius) {
			return math.NaN()
		}

		q := weightPolarization * w.Polarization
		q -= weightCohesion * relErr(w.CohesionRadius, fe.targetCohesion)
		q -= weightSpacing * relErr(w.NearestNeighbor, fe.targetSpacing)
		if w.SpeedMean < stallSpeed {
			q -= weightStall
		}
		sum += q
	}
	return sum / float64(len(windows)-warmupWindows)
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return 0
	}
	return math.Abs(got-want) / want
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
