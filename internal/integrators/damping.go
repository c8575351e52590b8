package integrators

import (
	"fmt"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// ForSystem returns a fresh integrator by name, tuned to dyn's damping.
func ForSystem(name string, dyn dynamo.System) (dynamo.Integrator, error) {
	integ, err := New(name)
	if err != nil {
		return nil, err
	}
	if err := Retune(integ, dyn); err != nil {
		return nil, err
	}
	return integ, nil
}

// Retune copies dyn's current damping rate into integ. Call it again after
// changing a system parameter. Only the semi-implicit integrator applies
// damping; others are rejected while the rate is positive.
func Retune(integ dynamo.Integrator, dyn dynamo.System) error {
	d, ok := dyn.(dynamo.Damped)
	if !ok {
		return nil
	}
	rate := d.DampingRate()
	if e, ok := integ.(*SemiImplicitEuler); ok {
		e.Damping = rate
		return nil
	}
	if rate > 0 {
		return fmt.Errorf("%w: %T at rate %.3g/s", dynamo.ErrDampingUnsupported, integ, rate)
	}
	return nil
}
