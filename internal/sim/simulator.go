package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type Config struct {
	Dt       float64
	Duration float64

	// Adaptive lets the integrator pick each step within Tolerance,
	// starting from Dt and staying in [MinDt, MaxDt]. Zero bounds default
	// to Dt/1024 and 16*Dt.
	Adaptive  bool
	Tolerance float64
	MinDt     float64
	MaxDt     float64
}

// Observer sees every accepted state, including the initial one.
type Observer interface {
	OnStep(x dynamo.State, t float64)
}

type Result struct {
	States     []dynamo.State
	Times      []float64
	Energy     []float64 // empty unless the system is a dynamo.Hamiltonian
	Metrics    map[string]float64
	StepsTaken int
}

// Simulator runs a system headless with a fixed or adaptive step. It is the batch
// counterpart of the interactive session and is used for comparisons and
// offline analysis.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{dyn: dyn, integrator: integrator}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)    { s.observers = append(s.observers, o) }

// Run integrates from x0 for cfg.Duration. A non-finite state stops the run
// with a *dynamo.SimulationError; the partial result is still returned.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d", dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	if cfg.Adaptive {
		if cfg.MinDt <= 0 {
			cfg.MinDt = cfg.Dt / 1024
		}
		if cfg.MaxDt <= 0 {
			cfg.MaxDt = cfg.Dt * 16
		}
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		States:  make([]dynamo.State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}
	ham, hasEnergy := s.dyn.(dynamo.Hamiltonian)

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	s.record(result, x, t, ham, hasEnergy)

	for i := 0; s.more(i, steps, t, cfg); i++ {
		if err := ctx.Err(); err != nil {
			s.collect(result)
			return result, err
		}

		var next dynamo.State
		taken := cfg.Dt
		if cfg.Adaptive {
			var err error
			next, taken, dt, err = s.adaptiveStep(x, t, math.Min(dt, cfg.Duration-t), cfg)
			if err != nil {
				s.collect(result)
				return result, &dynamo.SimulationError{Step: i + 1, Time: t, State: x, Wrapped: err}
			}
			dt = math.Min(dt, cfg.MaxDt)
		} else {
			next = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		}
		if !next.IsValid() {
			s.collect(result)
			return result, &dynamo.SimulationError{Step: i + 1, Time: t + taken, State: next, Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		t += taken
		result.StepsTaken++
		s.record(result, x, t, ham, hasEnergy)
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) more(i, steps int, t float64, cfg Config) bool {
	if cfg.Adaptive {
		return cfg.Duration-t > 1e-12
	}
	return i < steps
}

// adaptiveStep takes one accepted step of at most dt and returns the new
// state, the step actually taken and the suggested next step. Integrators
// without an error estimate are checked by step doubling.
func (s *Simulator) adaptiveStep(x dynamo.State, t, dt float64, cfg Config) (dynamo.State, float64, float64, error) {
	if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		for {
			next, suggested, err := adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
			if err == nil {
				return next, dt, suggested, nil
			}
			if !errors.Is(err, dynamo.ErrUnstable) || suggested < cfg.MinDt {
				return x, dt, suggested, err
			}
			dt = suggested
		}
	}

	for {
		full := s.integrator.Step(s.dyn, x, t, dt)
		half := s.integrator.Step(s.dyn, x, t, dt/2)
		fine := s.integrator.Step(s.dyn, half, t+dt/2, dt/2)

		errNorm := full.Sub(fine).Norm()
		if errNorm > cfg.Tolerance && dt/2 >= cfg.MinDt {
			dt /= 2
			continue
		}
		suggested := dt
		if errNorm < cfg.Tolerance/10 {
			suggested = dt * 2
		}
		return fine, dt, suggested, nil
	}
}

func (s *Simulator) record(r *Result, x dynamo.State, t float64, ham dynamo.Hamiltonian, hasEnergy bool) {
	r.States = append(r.States, x.Clone())
	r.Times = append(r.Times, t)
	if hasEnergy {
		r.Energy = append(r.Energy, ham.Energy(x))
	}
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", dynamo.ErrParameterBounds, cfg.Duration)
	}
	if cfg.Adaptive && !(cfg.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", dynamo.ErrParameterBounds)
	}
	return nil
}
