// Package components defines ECS components and value types for the simulation.
package components

// Kind distinguishes school fish from predators.
// Fixed at creation; selects the interaction rule and render style.
type Kind uint8

const (
	KindSchoolFish Kind = iota
	KindPredator
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindSchoolFish:
		return "school_fish"
	case KindPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() Vec2 { return Vec2{X: p.X, Y: p.Y} }

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() Vec2 { return Vec2{X: v.X, Y: v.Y} }

// Fish holds identity and clock state for one agent.
type Fish struct {
	ID         uint32  // unique for the agent's lifetime, used only for self-exclusion
	Kind       Kind    // never changes after spawn
	LastUpdate float64 // simulation time (seconds) of the last integration step
}
