// Package physics models the planar double pendulum: two point masses on
// massless rigid links swinging under uniform gravity.
//
// The package covers four concerns:
//
//   - [Params]: physical configuration, validated at the setter boundary
//   - [Positions]: kinematics from angles to screen-space joint positions
//   - [Accelerations], [Step]: Lagrangian dynamics and the semi-implicit
//     Euler update with optional exponential damping
//   - [Energy]: total mechanical energy for conservation diagnostics
//
// [DoublePendulum] adapts the model to [dynamo.System],
// [dynamo.Hamiltonian] and [dynamo.Configurable] so generic integrators
// and analysis tools can drive it.
//
// # Units
//
// Link lengths are expressed in screen pixels and converted to metres with
// [MetersPerPixel] before any force or energy computation. Masses are in
// kilograms, gravity in m/s², angles in radians from the downward vertical.
//
// # Energy Conservation
//
//	e0 := physics.Energy(s, p)
//	s, err = physics.Step(s, p, dt)
//	drift := math.Abs(physics.Energy(s, p)-e0) / math.Abs(e0)
package physics
