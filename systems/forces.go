package systems

import "github.com/pthm-cable/shoal/components"

// ForceParams holds the interaction constants. Immutable once the shoal is built.
type ForceParams struct {
	VisibilityDistance       float64
	AttractionFactor         float64
	RepulsionFactor          float64
	AlignmentFactor          float64
	PredatorAttractionFactor float64
	PredatorRepulsionFactor  float64
	Epsilon                  float64
}

// DefaultForceParams returns the constants used when no config overrides them.
func DefaultForceParams() ForceParams {
	return ForceParams{
		VisibilityDistance:       200,
		AttractionFactor:         1.0,
		RepulsionFactor:          1e4,
		AlignmentFactor:          0.5,
		PredatorAttractionFactor: 0.5,
		PredatorRepulsionFactor:  1e6,
		Epsilon:                  1e-10,
	}
}

// Interaction returns the force other exerts on self and whether other was
// visible. Agents farther than VisibilityDistance, or closer than Epsilon,
// contribute nothing and are not counted.
func Interaction(self, other Agent, p ForceParams) (components.Vec2, bool) {
	delta := other.Pos.Sub(self.Pos)
	d := delta.Len()
	if d > p.VisibilityDistance || d < p.Epsilon {
		return components.Zero, false
	}
	dir := delta.Scale(1 / d)

	attraction := dir.Scale(p.AttractionFactor * d)
	alignment := other.Vel.Sub(self.Vel).Scale(p.AlignmentFactor)
	repulsion := dir.Scale(-p.RepulsionFactor / d)

	return components.SumVec(attraction, alignment, repulsion), true
}

// NeighborAverage averages Interaction over the visible school fish,
// skipping self. Returns zero when nobody is visible.
func NeighborAverage(self Agent, school []Agent, p ForceParams) components.Vec2 {
	var sum components.Vec2
	visible := 0
	for i := range school {
		if school[i].ID == self.ID {
			continue
		}
		f, ok := Interaction(self, school[i], p)
		if !ok {
			continue
		}
		sum = sum.Add(f)
		visible++
	}
	if visible == 0 {
		return components.Zero
	}
	return sum.Scale(1 / float64(visible))
}

// PredatorRepulsion is the mean of -(delta/d²)·PredatorRepulsionFactor over
// all predators. A predator at distance below Epsilon adds zero but still
// counts toward the divisor.
func PredatorRepulsion(self Agent, predators []Agent, p ForceParams) components.Vec2 {
	if len(predators) == 0 {
		return components.Zero
	}
	var sum components.Vec2
	for i := range predators {
		delta := predators[i].Pos.Sub(self.Pos)
		dsq := delta.LenSq()
		if dsq < p.Epsilon*p.Epsilon {
			continue
		}
		sum = sum.Add(delta.Scale(-p.PredatorRepulsionFactor / dsq))
	}
	return sum.Scale(1 / float64(len(predators)))
}

// PredatorAttraction pulls a predator toward the school centroid.
func PredatorAttraction(self Agent, centroid components.Vec2, p ForceParams) components.Vec2 {
	return centroid.Sub(self.Pos).Scale(p.PredatorAttractionFactor)
}

// Neighborhood partitions one snapshot by kind. Build it once per step;
// every agent's acceleration reads the same instance.
type Neighborhood struct {
	School    []Agent
	Predators []Agent
	Centroid  components.Vec2 // mean school fish position, zero if none
}

// Reset rebuilds the partition from snapshot, reusing backing arrays.
func (n *Neighborhood) Reset(snapshot []Agent) {
	n.School = n.School[:0]
	n.Predators = n.Predators[:0]
	for i := range snapshot {
		if snapshot[i].IsPredator() {
			n.Predators = append(n.Predators, snapshot[i])
		} else {
			n.School = append(n.School, snapshot[i])
		}
	}
	n.Centroid = Centroid(n.School)
}

// Acceleration applies the rule for self's kind against the neighborhood.
func (n *Neighborhood) Acceleration(self Agent, p ForceParams) components.Vec2 {
	if self.IsPredator() {
		if len(n.School) == 0 {
			return components.Zero
		}
		return PredatorAttraction(self, n.Centroid, p)
	}
	return PredatorRepulsion(self, n.Predators, p).Add(NeighborAverage(self, n.School, p))
}

// Centroid returns the mean position of agents, or zero for an empty slice.
func Centroid(agents []Agent) components.Vec2 {
	if len(agents) == 0 {
		return components.Zero
	}
	sum := components.SumFunc(agents, func(a Agent) components.Vec2 { return a.Pos })
	return sum.Scale(1 / float64(len(agents)))
}
