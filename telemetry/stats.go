package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds flock statistics sampled at the end of a window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Steps           int     `csv:"steps"`

	// Population counts at window end
	SchoolCount   int `csv:"school"`
	PredatorCount int `csv:"predators"`

	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Order parameters
	Polarization float64 `csv:"polarization"`
	Milling      float64 `csv:"milling"`
	MeanHeading  float64 `csv:"mean_heading"`

	// Spacing
	CohesionRadius   float64 `csv:"cohesion_radius"`
	NearestNeighbor  float64 `csv:"nearest_neighbor"`
	PredatorDistance float64 `csv:"predator_distance"` // -1 = no predator
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution returns the mean and the 10th, 50th and 90th percentiles.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("steps", s.Steps),
		slog.Int("school", s.SchoolCount),
		slog.Int("predators", s.PredatorCount),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("polarization", s.Polarization),
		slog.Float64("milling", s.Milling),
		slog.Float64("mean_heading", s.MeanHeading),
		slog.Float64("cohesion_radius", s.CohesionRadius),
		slog.Float64("nearest_neighbor", s.NearestNeighbor),
		slog.Float64("predator_distance", s.PredatorDistance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"school", s.SchoolCount,
		"predators", s.PredatorCount,
		"speed_mean", s.SpeedMean,
		"polarization", s.Polarization,
		"milling", s.Milling,
		"cohesion_radius", s.CohesionRadius,
		"nearest_neighbor", s.NearestNeighbor,
		"predator_distance", s.PredatorDistance,
	)
}
