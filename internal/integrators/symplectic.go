package integrators

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// SemiImplicitEuler updates velocities first and then advances positions
// with the updated velocities. When Damping > 0 the new velocities decay by
// exp(-Damping*dt), the exact solution of linear drag over the step.
type SemiImplicitEuler struct {
	Damping float64
}

func NewSemiImplicitEuler(damping float64) *SemiImplicitEuler {
	return &SemiImplicitEuler{Damping: damping}
}

func (e *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	dx := dyn.Derive(x, t)

	decay := 1.0
	if e.Damping > 0 {
		decay = math.Exp(-e.Damping * dt)
	}

	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		v := (x[half+i] + dx[half+i]*dt) * decay
		result[half+i] = v
		result[i] = x[i] + v*dt
	}
	return result
}
