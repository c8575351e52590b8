package sim

import (
	"context"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

// Trial is one integrator's outcome in a comparison.
type Trial struct {
	Integrator string
	Result     *Result
	Err        error
}

// Compare runs the same initial condition under each named integrator in
// parallel. metrics is called once per trial so each run gets its own
// metric instances. Integrators are tuned to dyn's damping, so a damped
// system fails every integrator but the semi-implicit one. A failing
// integrator is reported in its Trial and does not cancel the others.
func Compare(
	ctx context.Context,
	dyn dynamo.System,
	names []string,
	x0 dynamo.State,
	cfg Config,
	metrics func() []dynamo.Metric,
) ([]Trial, error) {
	trials := make([]Trial, len(names))

	err := dynamo.RunAll(ctx, len(names), func(ctx context.Context, idx int) error {
		trials[idx].Integrator = names[idx]
		integ, err := integrators.ForSystem(names[idx], dyn)
		if err != nil {
			trials[idx].Err = err
			return nil
		}

		s := New(dyn, integ)
		if metrics != nil {
			for _, m := range metrics() {
				s.AddMetric(m)
			}
		}
		trials[idx].Result, trials[idx].Err = s.Run(ctx, x0, cfg)
		return ctx.Err()
	})
	return trials, err
}
