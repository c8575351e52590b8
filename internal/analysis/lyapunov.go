package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two trajectories separated by perturbation along x[0]
// 2. After every step measure their separation d and pull the shadow
// trajectory back to distance d0 along the same direction
// 3. λ ≈ Σ ln(d/d0) / t
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) (float64, error) {
	if len(x0) == 0 {
		return 0, fmt.Errorf("%w: empty state", dynamo.ErrDimensionMismatch)
	}
	xp := x0.Clone()
	xp[0] += perturbation
	return separationRate(dyn, integ, x0, xp, dt, duration, perturbation)
}

// LyapunovSpectrum perturbs each state dimension independently and runs the
// trajectories in parallel. newInteg must return a fresh integrator per call
// because integrators keep scratch buffers.
func LyapunovSpectrum(
	ctx context.Context,
	dyn dynamo.System,
	newInteg func() dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) ([]float64, error) {
	n := len(x0)
	spectrum := make([]float64, n)

	err := dynamo.RunAll(ctx, n, func(ctx context.Context, i int) error {
		xp := x0.Clone()
		xp[i] += perturbation
		lambda, err := separationRate(dyn, newInteg(), x0, xp, dt, duration, perturbation)
		if err != nil {
			return fmt.Errorf("dimension %d: %w", i, err)
		}
		spectrum[i] = lambda
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spectrum, nil
}

func separationRate(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0, x0p dynamo.State,
	dt, duration, d0 float64,
) (float64, error) {
	if !(dt > 0) || !(d0 > 0) {
		return 0, fmt.Errorf("%w: dt=%v perturbation=%v", dynamo.ErrParameterBounds, dt, d0)
	}

	x := x0.Clone()
	xp := x0p.Clone()
	t := 0.0
	sumLog := 0.0
	steps := 0

	for t < duration {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		t += dt
		steps++

		if !x.IsValid() || !xp.IsValid() {
			return 0, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if steps == 0 {
		return 0, nil
	}
	return sumLog / t, nil
}
