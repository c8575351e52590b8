package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// EnergyDrift compares every observed energy with the first sample since the
// last Reset. Relative drift is |E - E0| / max(|E0|, floor); the floor keeps
// the ratio meaningful when the reference energy is close to zero.
type EnergyDrift struct {
	name     string
	dyn      dynamo.Hamiltonian
	floor    float64
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

// NewEnergyDrift builds the metric. dyn may be nil when energies are fed
// through ObserveEnergy.
func NewEnergyDrift(dyn dynamo.Hamiltonian, floor float64) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		dyn:   dyn,
		floor: floor,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	if e.dyn == nil {
		return
	}
	e.ObserveEnergy(e.dyn.Energy(x))
}

func (e *EnergyDrift) ObserveEnergy(energy float64) {
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, e.relative(energy))
}

func (e *EnergyDrift) relative(energy float64) float64 {
	denom := math.Max(math.Abs(e.initial), e.floor)
	if denom == 0 {
		return 0
	}
	return math.Abs(energy-e.initial) / denom
}

// SetFloor changes the reference magnitude, e.g. after a parameter change.
func (e *EnergyDrift) SetFloor(floor float64) { e.floor = floor }

// Value is the largest relative drift seen so far.
func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// Current is the relative drift of the latest sample.
func (e *EnergyDrift) Current() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.relative(e.current)
}

// PercentConserved reports 100 for a perfectly conserved run.
func (e *EnergyDrift) PercentConserved() float64 {
	return 100 * (1 - e.Current())
}

func (e *EnergyDrift) Initial() (float64, bool) {
	return e.initial, e.samples > 0
}

func (e *EnergyDrift) Samples() int { return e.samples }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.current = 0
	e.maxDrift = 0
	e.samples = 0
}
