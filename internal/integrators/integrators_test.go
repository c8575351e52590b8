package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// freeRotor has no forces: velocities change only through damping.
type freeRotor struct{}

func (f *freeRotor) StateDim() int { return 4 }

func (f *freeRotor) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[2], x[3], 0, 0}
}

// dampedRotor is a freeRotor that reports a damping rate.
type dampedRotor struct {
	freeRotor
	rate float64
}

func (d *dampedRotor) DampingRate() float64 { return d.rate }

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestSemiImplicitEulerOrdering(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewSemiImplicitEuler(0)

	x := integ.Step(dyn, dynamo.State{1.0, 0.0}, 0, 0.1)

	// v' = 0 - 1*0.1, x' = 1 + v'*0.1
	if math.Abs(x[1]-(-0.1)) > 1e-15 {
		t.Errorf("velocity = %v, want -0.1", x[1])
	}
	if math.Abs(x[0]-0.99) > 1e-15 {
		t.Errorf("position = %v, want 0.99 (uses updated velocity)", x[0])
	}
}

func TestSemiImplicitEulerBoundedEnergy(t *testing.T) {
	dyn := &harmonicOscillator{}
	semi := NewSemiImplicitEuler(0)
	explicit := NewEuler()

	xs := dynamo.State{1.0, 0.0}
	xe := dynamo.State{1.0, 0.0}
	e0 := dyn.Energy(xs)
	dt := 0.01
	maxSemi := 0.0

	for i := 0; i < 10000; i++ {
		xs = semi.Step(dyn, xs, float64(i)*dt, dt)
		xe = explicit.Step(dyn, xe, float64(i)*dt, dt)
		maxSemi = math.Max(maxSemi, math.Abs(dyn.Energy(xs)-e0)/e0)
	}

	if maxSemi > 0.01 {
		t.Errorf("semi-implicit energy drift %.4f exceeds 1%%", maxSemi)
	}
	explicitDrift := math.Abs(dyn.Energy(xe)-e0) / e0
	if explicitDrift < maxSemi {
		t.Errorf("explicit Euler drift %.4f should exceed semi-implicit %.4f", explicitDrift, maxSemi)
	}
}

func TestSemiImplicitEulerDampingIsExponential(t *testing.T) {
	dyn := &freeRotor{}
	c, dt := 0.5, 1.0/60
	integ := NewSemiImplicitEuler(c)

	x := dynamo.State{0, 0, 2.0, -1.0}
	prev := x[2]*x[2] + x[3]*x[3]
	for i := 0; i < 120; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
		speed := x[2]*x[2] + x[3]*x[3]
		if speed > prev {
			t.Fatalf("step %d: speed² rose from %v to %v", i, prev, speed)
		}
		prev = speed
	}

	want := 2.0 * math.Exp(-c*120*dt)
	if math.Abs(x[2]-want) > 1e-12 {
		t.Errorf("velocity1 = %v, want exact decay %v", x[2], want)
	}
	linear := 2.0 * math.Pow(1-c*dt, 120)
	if math.Abs(x[2]-linear) < 1e-6 {
		t.Errorf("damping matches first-order approximation, expected exponential")
	}
}

func TestSemiImplicitEulerDeterministic(t *testing.T) {
	dyn := &harmonicOscillator{}
	a := NewSemiImplicitEuler(0.3).Step(dyn, dynamo.State{0.7, -0.2}, 0, 1.0/60)
	b := NewSemiImplicitEuler(0.3).Step(dyn, dynamo.State{0.7, -0.2}, 0, 1.0/60)

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("component %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		x := integ.Step(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0.01)
		if !x.IsValid() {
			t.Errorf("%s produced invalid state", name)
		}
	}

	if _, err := New("nonexistent"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestForSystemCarriesDamping(t *testing.T) {
	dyn := &dampedRotor{rate: 0.5}

	integ, err := ForSystem("semi-implicit", dyn)
	if err != nil {
		t.Fatalf("ForSystem: %v", err)
	}
	x := integ.Step(dyn, dynamo.State{0, 0, 1, 1}, 0, 0.1)
	if want := math.Exp(-0.05); math.Abs(x[2]-want) > 1e-12 {
		t.Errorf("velocity after damped step = %v, want %v", x[2], want)
	}

	dyn.rate = 0
	if err := Retune(integ, dyn); err != nil {
		t.Fatalf("Retune: %v", err)
	}
	if got := integ.(*SemiImplicitEuler).Damping; got != 0 {
		t.Errorf("Damping after retune = %v, want 0", got)
	}
}

func TestForSystemRejectsUndampedIntegrators(t *testing.T) {
	for _, name := range []string{"euler", "rk4", "rk45", "verlet", "leapfrog"} {
		if _, err := ForSystem(name, &dampedRotor{rate: 0.2}); !errors.Is(err, dynamo.ErrDampingUnsupported) {
			t.Errorf("%s with damping: got %v, want ErrDampingUnsupported", name, err)
		}
		if _, err := ForSystem(name, &dampedRotor{}); err != nil {
			t.Errorf("%s without damping: %v", name, err)
		}
	}
	if _, err := ForSystem("rk4", &harmonicOscillator{}); err != nil {
		t.Errorf("undamped system: %v", err)
	}
	if _, err := ForSystem("nope", &freeRotor{}); err == nil {
		t.Error("unknown integrator should fail")
	}
}
