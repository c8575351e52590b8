package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

// Step advances s by dt with one semi-implicit Euler stage, applying
// exponential velocity damping when enabled. Identical inputs always give
// identical outputs.
//
// A non-finite result is reported as a *dynamo.SimulationError wrapping
// dynamo.ErrInvalidState; the input state is returned unchanged.
func Step(s State, p Params, dt float64) (State, error) {
	if err := p.Validate(); err != nil {
		return s, err
	}
	if !(dt >= 0) || math.IsInf(dt, 0) {
		return s, fmt.Errorf("%w: dt must be non-negative and finite, got %v", dynamo.ErrParameterBounds, dt)
	}

	integ := integrators.NewSemiImplicitEuler(p.DampingRate())
	next := integ.Step(NewDoublePendulum(p), s.Vector(), 0, dt)
	if !next.IsValid() {
		return s, &dynamo.SimulationError{State: next, Wrapped: dynamo.ErrInvalidState}
	}
	return FromVector(next), nil
}
