package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

// Source yields uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// RandomizeSpread is the half-width of the uniform angle perturbation.
const RandomizeSpread = 0.05

func checkParams(p physics.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for name, v := range p.GetParams() {
		if r := physics.Ranges[name]; !r.Contains(v) {
			return fmt.Errorf("%w: %s=%v outside [%v, %v]", dynamo.ErrParameterBounds, name, v, r.Min, r.Max)
		}
	}
	return nil
}

// SetParam assigns one named parameter. Invalid values are rejected and
// leave the configuration untouched.
func (s *Session) SetParam(name string, value float64) error {
	p := s.params
	if err := p.SetParam(name, value); err != nil {
		s.log.Debug("parameter rejected", zap.String("param", name), zap.Float64("value", value), zap.Error(err))
		return err
	}
	s.applyParams(p)
	return nil
}

// SetParams replaces the whole configuration after range checks.
func (s *Session) SetParams(p physics.Params) error {
	if err := checkParams(p); err != nil {
		return err
	}
	s.applyParams(p)
	return nil
}

// applyParams restarts the conservation baseline: energies recorded under
// different parameters are not comparable.
func (s *Session) applyParams(p physics.Params) {
	if p == s.params {
		return
	}
	s.params = p
	s.drift.Reset()
	s.drift.SetFloor(p.EnergyScale())
}

func (s *Session) SetLength1(v float64) error { return s.SetParam(physics.ParamLength1, v) }
func (s *Session) SetLength2(v float64) error { return s.SetParam(physics.ParamLength2, v) }
func (s *Session) SetMass1(v float64) error   { return s.SetParam(physics.ParamMass1, v) }
func (s *Session) SetMass2(v float64) error   { return s.SetParam(physics.ParamMass2, v) }
func (s *Session) SetGravity(v float64) error { return s.SetParam(physics.ParamGravity, v) }

func (s *Session) SetDampingCoefficient(v float64) error {
	return s.SetParam(physics.ParamDamping, v)
}

func (s *Session) SetDampingEnabled(on bool) {
	p := s.params
	p.DampingEnabled = on
	s.applyParams(p)
}

// NudgeParam moves a parameter by n UI steps, clamped to its range.
func (s *Session) NudgeParam(name string, n int) error {
	r, ok := physics.Ranges[name]
	if !ok {
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return s.SetParam(name, r.Nudge(s.params.GetParams()[name], n))
}

// Display toggles; they never affect computation.
func (s *Session) SetShowTrails(on bool) { s.showTrails = on }
func (s *Session) SetShowEnergy(on bool) { s.showEnergy = on }
func (s *Session) ShowTrails() bool      { return s.showTrails }
func (s *Session) ShowEnergy() bool      { return s.showEnergy }

// Randomize adds an independent offset in [-RandomizeSpread, RandomizeSpread)
// to each angle. Velocities, trails and the energy log are kept, so the
// divergence from the unperturbed path stays visible.
func (s *Session) Randomize(src Source) error {
	if s.drag != TargetNone {
		return ErrBusy
	}
	s.state.Angle1 += (src.Float64()*2 - 1) * RandomizeSpread
	s.state.Angle2 += (src.Float64()*2 - 1) * RandomizeSpread
	s.log.Debug("angles randomized", zap.Float64("angle1", s.state.Angle1), zap.Float64("angle2", s.state.Angle2))
	return nil
}
