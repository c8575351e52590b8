package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// MetersPerPixel maps pixel-scale link lengths to physical units.
const MetersPerPixel = 0.01

const (
	DefaultLength   = 150.0
	DefaultMass     = 10.0
	DefaultGravity  = 9.81
	DefaultDamping  = 0.1
	MinHitRadius    = 8.0
	HitRadiusMargin = 8.0
)

// Parameter names accepted by SetParam.
const (
	ParamLength1 = "length1"
	ParamLength2 = "length2"
	ParamMass1   = "mass1"
	ParamMass2   = "mass2"
	ParamGravity = "gravity"
	ParamDamping = "damping"
)

// Range is the inclusive interval and UI step of a tunable parameter.
type Range struct {
	Min, Max, Step float64
}

func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Nudge moves v by n steps and keeps it inside the range, snapped to the
// step grid anchored at Min.
func (r Range) Nudge(v float64, n int) float64 {
	v = r.Clamp(v + float64(n)*r.Step)
	if r.Step <= 0 {
		return v
	}
	k := math.Round((v - r.Min) / r.Step)
	return r.Clamp(r.Min + k*r.Step)
}

var Ranges = map[string]Range{
	ParamLength1: {Min: 50, Max: 250, Step: 10},
	ParamLength2: {Min: 50, Max: 250, Step: 10},
	ParamMass1:   {Min: 1, Max: 50, Step: 1},
	ParamMass2:   {Min: 1, Max: 50, Step: 1},
	ParamGravity: {Min: 1, Max: 20, Step: 0.1},
	ParamDamping: {Min: 0.01, Max: 1, Step: 0.01},
}

// ParamNames lists tunable parameters in display order.
var ParamNames = []string{ParamLength1, ParamLength2, ParamMass1, ParamMass2, ParamGravity, ParamDamping}

// Params is immutable for the duration of one integration step.
type Params struct {
	Length1            float64 `yaml:"length1"`
	Length2            float64 `yaml:"length2"`
	Mass1              float64 `yaml:"mass1"`
	Mass2              float64 `yaml:"mass2"`
	Gravity            float64 `yaml:"gravity"`
	DampingEnabled     bool    `yaml:"damping_enabled"`
	DampingCoefficient float64 `yaml:"damping_coefficient"`
}

func DefaultParams() Params {
	return Params{
		Length1:            DefaultLength,
		Length2:            DefaultLength,
		Mass1:              DefaultMass,
		Mass2:              DefaultMass,
		Gravity:            DefaultGravity,
		DampingCoefficient: DefaultDamping,
	}
}

// Validate checks the preconditions of the equations of motion. It does not
// enforce UI ranges; see SetParam for that.
func (p Params) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{ParamLength1, p.Length1},
		{ParamLength2, p.Length2},
		{ParamMass1, p.Mass1},
		{ParamMass2, p.Mass2},
		{ParamGravity, p.Gravity},
	}
	for _, c := range checks {
		if !(c.value > 0) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", dynamo.ErrParameterBounds, c.name, c.value)
		}
	}
	if !(p.DampingCoefficient >= 0) || math.IsInf(p.DampingCoefficient, 0) {
		return fmt.Errorf("%w: damping must be non-negative and finite, got %v", dynamo.ErrParameterBounds, p.DampingCoefficient)
	}
	return nil
}

// DampingRate is the per-second decay rate actually applied to velocities.
func (p Params) DampingRate() float64 {
	if !p.DampingEnabled || p.DampingCoefficient <= 0 {
		return 0
	}
	return p.DampingCoefficient
}

// Meters returns both link lengths in physical units.
func (p Params) Meters() (l1, l2 float64) {
	return p.Length1 * MetersPerPixel, p.Length2 * MetersPerPixel
}

// EnergyScale is the depth of the potential well below the pivot, used as
// a reference magnitude when the initial energy is close to zero.
func (p Params) EnergyScale() float64 {
	l1, l2 := p.Meters()
	return p.Gravity * (p.Mass1*l1 + p.Mass2*(l1+l2))
}

// HitRadius is the pointer pick radius around a mass, in pixels.
func HitRadius(mass float64) float64 {
	return math.Max(MinHitRadius, mass) + HitRadiusMargin
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		ParamLength1: p.Length1,
		ParamLength2: p.Length2,
		ParamMass1:   p.Mass1,
		ParamMass2:   p.Mass2,
		ParamGravity: p.Gravity,
		ParamDamping: p.DampingCoefficient,
	}
}

// SetParam assigns a named parameter after checking it against Ranges.
// Rejected values leave p unchanged.
func (p *Params) SetParam(name string, value float64) error {
	r, ok := Ranges[name]
	if !ok {
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	if !r.Contains(value) {
		return fmt.Errorf("%w: %s=%v outside [%v, %v]", dynamo.ErrParameterBounds, name, value, r.Min, r.Max)
	}
	switch name {
	case ParamLength1:
		p.Length1 = value
	case ParamLength2:
		p.Length2 = value
	case ParamMass1:
		p.Mass1 = value
	case ParamMass2:
		p.Mass2 = value
	case ParamGravity:
		p.Gravity = value
	case ParamDamping:
		p.DampingCoefficient = value
	}
	return nil
}
