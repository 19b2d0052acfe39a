package systems

import (
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func TestIntegrate_PositionUsesPreUpdateVelocity(t *testing.T) {
	a := Agent{Vel: components.Vec2{X: 10}}
	a.Integrate(components.Vec2{Y: 5}, 1)

	if a.Pos != (components.Vec2{X: 10, Y: 0}) {
		t.Errorf("pos = %+v, want (10,0)", a.Pos)
	}
	if a.Vel != (components.Vec2{X: 10, Y: 5}) {
		t.Errorf("vel = %+v, want (10,5)", a.Vel)
	}
	if a.LastUpdate != 1 {
		t.Errorf("LastUpdate = %v, want 1", a.LastUpdate)
	}
}

func TestIntegrate_ZeroDtIsNoOp(t *testing.T) {
	a := Agent{
		Pos:        components.Vec2{X: 3, Y: 4},
		Vel:        components.Vec2{X: -1, Y: 2},
		LastUpdate: 2.5,
	}
	before := a
	a.Integrate(components.Vec2{X: 1000, Y: -1000}, 2.5)
	if a != before {
		t.Errorf("state changed: %+v -> %+v", before, a)
	}
}

func TestIntegrate_ElapsedTimeFromLastUpdate(t *testing.T) {
	a := Agent{Vel: components.Vec2{X: 1}, LastUpdate: 4}
	a.Integrate(components.Vec2{}, 6)
	if a.Pos.X != 2 {
		t.Errorf("pos.X = %v, want 2 (dt = 2)", a.Pos.X)
	}
}

func TestHeading(t *testing.T) {
	a := Agent{Vel: components.Vec2{X: 0, Y: 3}}
	if got, want := a.Heading(), 1.5707963267948966; got != want {
		t.Errorf("heading = %v, want %v", got, want)
	}
}
