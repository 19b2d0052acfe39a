package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// FlockMetrics describes the school's collective state at one instant.
type FlockMetrics struct {
	SchoolCount   int
	PredatorCount int

	Centroid components.Vec2

	SpeedMean float64
	SpeedStd  float64
	SpeedP10  float64
	SpeedP50  float64
	SpeedP90  float64

	// Polarization is |mean unit velocity|: 1 when every fish swims the same way.
	Polarization float64
	// Milling is |mean (r̂ × v̂)| about the centroid: 1 for a perfect vortex.
	Milling     float64
	MeanHeading float64 // circular mean, radians

	CohesionRadius  float64 // mean distance to centroid
	NearestNeighbor float64 // mean nearest-neighbour distance
	// PredatorDistance is the closest predator's distance to the centroid,
	// or -1 when there are no predators or no school fish.
	PredatorDistance float64
}

// ComputeFlockMetrics measures a snapshot. Predators only contribute to
// PredatorCount and PredatorDistance.
func ComputeFlockMetrics(agents []systems.Agent) FlockMetrics {
	var school, predators []systems.Agent
	for _, a := range agents {
		if a.IsPredator() {
			predators = append(predators, a)
		} else {
			school = append(school, a)
		}
	}

	m := FlockMetrics{
		SchoolCount:      len(school),
		PredatorCount:    len(predators),
		PredatorDistance: -1,
	}
	if len(school) == 0 {
		return m
	}

	m.Centroid = systems.Centroid(school)

	speeds := make([]float64, len(school))
	headings := make([]float64, 0, len(school))
	radii := make([]float64, len(school))
	for i, a := range school {
		speeds[i] = a.Vel.Len()
		if speeds[i] > 0 {
			headings = append(headings, a.Heading())
		}
		radii[i] = a.Pos.Sub(m.Centroid).Len()
	}

	m.SpeedMean, m.SpeedStd = stat.PopMeanStdDev(speeds, nil)
	_, m.SpeedP10, m.SpeedP50, m.SpeedP90 = ComputeDistribution(speeds)
	if len(headings) > 0 {
		m.MeanHeading = stat.CircularMean(headings, nil)
	}
	m.CohesionRadius = stat.Mean(radii, nil)

	// One fold yields both order parameters: the force part sums unit
	// velocities, the torque part sums r̂ × v̂.
	order := components.SumFunc(school, func(a systems.Agent) components.Wrench {
		return components.WrenchAbout(unit(a.Pos.Sub(m.Centroid)), unit(a.Vel))
	})
	mean := order.Div(float64(len(school)))
	m.Polarization = mean.Force.Len()
	m.Milling = math.Abs(mean.Torque)

	m.NearestNeighbor = meanNearestNeighbor(school)

	for _, p := range predators {
		d := p.Pos.Sub(m.Centroid).Len()
		if m.PredatorDistance < 0 || d < m.PredatorDistance {
			m.PredatorDistance = d
		}
	}

	return m
}

func unit(v components.Vec2) components.Vec2 {
	l := v.Len()
	if l == 0 {
		return components.Zero
	}
	return v.Scale(1 / l)
}

// meanNearestNeighbor is O(n²); zero with fewer than two fish.
func meanNearestNeighbor(school []systems.Agent) float64 {
	if len(school) < 2 {
		return 0
	}
	var sum float64
	for i := range school {
		best := math.Inf(1)
		for j := range school {
			if i == j {
				continue
			}
			if d := school[i].Pos.Sub(school[j].Pos).LenSq(); d < best {
				best = d
			}
		}
		sum += math.Sqrt(best)
	}
	return sum / float64(len(school))
}
