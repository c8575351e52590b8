// Package dynamo provides the core primitives shared by the pendulum engine.
//
// The package defines the vocabulary used by every other package:
//
//   - [State]: flat vector holding generalized positions then velocities
//   - [System]: interface for second-order ODE systems (dX/dt = f(X, t))
//   - [Hamiltonian]: systems that can report their total mechanical energy
//   - [Integrator]: numerical stepper interface
//   - [AdaptiveIntegrator]: steppers that can reject a step and resize it
//   - [Damped]: systems whose velocity damping the integrator applies
//   - [Configurable]: runtime parameter access by name
//
// # Example
//
//	dp := physics.NewDoublePendulum(physics.DefaultParams())
//	integ, err := integrators.ForSystem("semi-implicit", dp)
//	if err != nil {
//	    return err
//	}
//	x = integ.Step(dp, x, t, dt)
//	if !x.IsValid() {
//	    return dynamo.ErrInvalidState
//	}
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. Use [RunAll]
// to evaluate independent jobs in parallel.
package dynamo
