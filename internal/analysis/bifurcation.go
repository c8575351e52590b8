package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

// BifurcationPoint holds the distinct section values seen at one parameter
// value. Few values mean periodic motion; a smear means chaos.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

type SweepConfig struct {
	Param      string
	Min, Max   float64
	Steps      int
	CrossIdx   int // section variable, sampled on upward zero crossings
	RecordIdx  int
	Dt         float64
	Transient  float64
	Record     float64
	Resolution float64 // values closer than this are merged
}

// BifurcationDiagram sweeps a parameter of a configurable system and
// records x[RecordIdx] on each upward zero crossing of x[CrossIdx]. integ
// is retuned after every change so damping sweeps take effect. The original
// parameter value is restored before returning.
func BifurcationDiagram(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	cfg SweepConfig,
) ([]BifurcationPoint, error) {
	tunable, ok := dyn.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("%w: system is not configurable", dynamo.ErrUnknownParameter)
	}
	original, ok := tunable.GetParams()[cfg.Param]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, cfg.Param)
	}
	defer func() {
		tunable.SetParam(cfg.Param, original)
		integrators.Retune(integ, dyn)
	}()

	if cfg.Steps < 2 {
		cfg.Steps = 2
	}
	if cfg.Resolution <= 0 {
		cfg.Resolution = 1e-3
	}
	paramStep := (cfg.Max - cfg.Min) / float64(cfg.Steps-1)

	results := make([]BifurcationPoint, 0, cfg.Steps)
	for i := 0; i < cfg.Steps; i++ {
		param := cfg.Min + float64(i)*paramStep
		if err := tunable.SetParam(cfg.Param, param); err != nil {
			return results, err
		}
		if err := integrators.Retune(integ, dyn); err != nil {
			return results, err
		}

		x := x0.Clone()
		t := 0.0
		for t < cfg.Transient {
			x = integ.Step(dyn, x, t, cfg.Dt)
			t += cfg.Dt
		}

		values := make([]float64, 0, 64)
		seen := make(map[int64]bool)
		for t < cfg.Transient+cfg.Record {
			prev := x[cfg.CrossIdx]
			x = integ.Step(dyn, x, t, cfg.Dt)
			t += cfg.Dt
			if !x.IsValid() {
				return results, &dynamo.SimulationError{Time: t, State: x, Wrapped: dynamo.ErrUnstable}
			}
			if prev < 0 && x[cfg.CrossIdx] >= 0 {
				val := x[cfg.RecordIdx]
				key := int64(math.Round(val / cfg.Resolution))
				if !seen[key] {
					seen[key] = true
					values = append(values, val)
				}
			}
		}

		results = append(results, BifurcationPoint{Param: param, Values: values})
	}

	return results, nil
}

// BifurcationToASCII plots one column per swept value.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var ys span
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				ys, found = spanAt(v), true
			}
			ys.include(v)
		}
	}
	if !found {
		return ""
	}
	ys = ys.nonEmpty()

	g := newGrid(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			if row, ok := ys.cell(v, height); ok {
				g.set(col, row, dot)
			}
		}
	}
	return g.String()
}
