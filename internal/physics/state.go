package physics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// State is the only quantity that evolves under integration. Angles are not
// normalized and may grow past ±2π over long runs.
type State struct {
	Angle1    float64
	Angle2    float64
	Velocity1 float64
	Velocity2 float64
}

// InitialState holds both links horizontal and at rest.
func InitialState() State {
	return State{Angle1: math.Pi / 2, Angle2: math.Pi / 2}
}

// Vector returns the integrator layout [angle1, angle2, velocity1, velocity2].
func (s State) Vector() dynamo.State {
	return dynamo.State{s.Angle1, s.Angle2, s.Velocity1, s.Velocity2}
}

// FromVector is the inverse of Vector. Short vectors yield zero components.
func FromVector(x dynamo.State) State {
	var v [4]float64
	copy(v[:], x)
	return State{Angle1: v[0], Angle2: v[1], Velocity1: v[2], Velocity2: v[3]}
}

func (s State) IsFinite() bool {
	return s.Vector().IsValid()
}

// SpeedSquared is velocity1² + velocity2².
func (s State) SpeedSquared() float64 {
	return s.Velocity1*s.Velocity1 + s.Velocity2*s.Velocity2
}
