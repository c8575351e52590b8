package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Accelerations evaluates the closed-form Lagrangian equations of motion
// for point masses on massless rigid links.
func Accelerations(s State, p Params) (a1, a2 float64, err error) {
	a1, a2, den := accelerations(s, p)
	if den == 0 || math.IsNaN(den) || math.IsNaN(a1) || math.IsNaN(a2) ||
		math.IsInf(a1, 0) || math.IsInf(a2, 0) {
		return 0, 0, &dynamo.SimulationError{
			State:   s.Vector(),
			Wrapped: fmt.Errorf("%w: singular acceleration (den=%v)", dynamo.ErrInvalidState, den),
		}
	}
	return a1, a2, nil
}

func accelerations(s State, p Params) (a1, a2, den1 float64) {
	theta1, theta2, omega1, omega2 := s.Angle1, s.Angle2, s.Velocity1, s.Velocity2
	m1, m2, g := p.Mass1, p.Mass2, p.Gravity
	l1, l2 := p.Meters()

	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	den1 = (m1+m2)*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	a1 = (m2*l1*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(theta2)*cosD +
		m2*l2*omega2*omega2*sinD -
		(m1+m2)*g*math.Sin(theta1)) / den1

	a2 = (-m2*l2*omega2*omega2*sinD*cosD +
		(m1+m2)*g*math.Sin(theta1)*cosD -
		(m1+m2)*l1*omega1*omega1*sinD -
		(m1+m2)*g*math.Sin(theta2)) / den2

	return a1, a2, den1
}

// Energy is kinetic plus potential energy with the pivot as zero reference.
// Totals are negative near the rest position.
func Energy(s State, p Params) float64 {
	theta1, theta2, omega1, omega2 := s.Angle1, s.Angle2, s.Velocity1, s.Velocity2
	m1, m2, g := p.Mass1, p.Mass2, p.Gravity
	l1, l2 := p.Meters()

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := v1sq + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	pe := -m1*g*l1*math.Cos(theta1) - m2*g*(l1*math.Cos(theta1)+l2*math.Cos(theta2))

	return ke + pe
}

// DoublePendulum exposes Params to the generic integrators and analysis
// tools.
type DoublePendulum struct {
	Params
}

func NewDoublePendulum(p Params) *DoublePendulum {
	return &DoublePendulum{Params: p}
}

func (d *DoublePendulum) StateDim() int { return 4 }

func (d *DoublePendulum) Derive(x dynamo.State, t float64) dynamo.State {
	s := FromVector(x)
	a1, a2, _ := accelerations(s, d.Params)
	return dynamo.State{s.Velocity1, s.Velocity2, a1, a2}
}

func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	return Energy(FromVector(x), d.Params)
}
