package components

// Wrench pairs a planar force with a torque about some reference point.
type Wrench struct {
	Force  Vec2
	Torque float64
}

// Add returns the component-wise sum.
func (w Wrench) Add(o Wrench) Wrench {
	return Wrench{Force: w.Force.Add(o.Force), Torque: w.Torque + o.Torque}
}

// Scale multiplies force and torque by k.
func (w Wrench) Scale(k float64) Wrench {
	return Wrench{Force: w.Force.Scale(k), Torque: w.Torque * k}
}

// Div divides force and torque by k. Division by zero yields the zero wrench.
func (w Wrench) Div(k float64) Wrench {
	if k == 0 {
		return Wrench{}
	}
	return w.Scale(1 / k)
}

// WrenchAbout returns the wrench of force f applied at point r relative to the reference.
func WrenchAbout(r, f Vec2) Wrench {
	return Wrench{Force: f, Torque: r.Cross(f)}
}
