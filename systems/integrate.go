package systems

import "github.com/pthm-cable/shoal/components"

// Integrate advances the agent to time t with semi-implicit Euler.
// Position moves with the pre-update velocity, then velocity takes the
// acceleration. dt is t - LastUpdate and is not clamped: very large gaps
// between steps can make the flock unstable.
func (a *Agent) Integrate(acc components.Vec2, t float64) {
	dt := t - a.LastUpdate
	a.Pos = a.Pos.Add(a.Vel.Scale(dt))
	a.Vel = a.Vel.Add(acc.Scale(dt))
	a.LastUpdate = t
}
