// Package systems implements the shoal's interaction rules and integration.
package systems

import "github.com/pthm-cable/shoal/components"

// Agent is the flat, copyable state of one fish.
// Snapshots and worker intents are slices of Agent.
type Agent struct {
	ID         uint32
	Kind       components.Kind
	Pos        components.Vec2
	Vel        components.Vec2
	LastUpdate float64
}

// Heading returns the direction of travel in radians.
func (a Agent) Heading() float64 {
	return a.Vel.Heading()
}

// IsPredator reports whether the agent uses the predator rule.
func (a Agent) IsPredator() bool {
	return a.Kind == components.KindPredator
}
