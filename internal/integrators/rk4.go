package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method, the accuracy
// reference in integrator comparisons. It has no damping term, so
// ForSystem refuses it for a pendulum with damping on. The slope buffers
// are reused between calls; one RK4 per goroutine.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	tmp            dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.k1) == n {
		return
	}
	r.k1 = make(dynamo.State, n)
	r.k2 = make(dynamo.State, n)
	r.k3 = make(dynamo.State, n)
	r.k4 = make(dynamo.State, n)
	r.tmp = make(dynamo.State, n)
}

// along sets r.tmp to x + h*k.
func (r *RK4) along(x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		r.tmp[i] = x[i] + h*k[i]
	}
	return r.tmp
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.resize(len(x))
	half := dt / 2

	copy(r.k1, dyn.Derive(x, t))
	copy(r.k2, dyn.Derive(r.along(x, r.k1, half), t+half))
	copy(r.k3, dyn.Derive(r.along(x, r.k2, half), t+half))
	copy(r.k4, dyn.Derive(r.along(x, r.k3, dt), t+dt))

	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt/6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return next
}
