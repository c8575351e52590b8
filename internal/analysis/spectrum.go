package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type Spectrum struct {
	Freq  []float64 // Hz
	Power []float64
}

// PowerSpectrum returns the one-sided power spectrum of samples taken every
// dt seconds. The mean is removed first so the DC bin does not dominate.
func PowerSpectrum(samples []float64, dt float64) (*Spectrum, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", dynamo.ErrDimensionMismatch, n)
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: dt=%v", dynamo.ErrParameterBounds, dt)
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	half := n/2 + 1
	s := &Spectrum{
		Freq:  make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		mag := cmplx.Abs(bins[k])
		s.Freq[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = mag * mag / float64(n)
	}
	return s, nil
}

// Dominant returns the frequency of the strongest non-DC bin.
func (s *Spectrum) Dominant() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freq[k], s.Power[k]
		}
	}
	return freq, power
}

// Sample integrates from x0 and records x[idx] after every step.
func Sample(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, idx int, dt float64, steps int) ([]float64, error) {
	if idx < 0 || idx >= len(x0) {
		return nil, fmt.Errorf("%w: index %d for state of length %d", dynamo.ErrDimensionMismatch, idx, len(x0))
	}
	out := make([]float64, 0, steps)
	x := x0.Clone()
	t := 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, t, dt)
		t += dt
		if !x.IsValid() {
			return out, &dynamo.SimulationError{Step: i + 1, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}
		out = append(out, x[idx])
	}
	return out, nil
}
