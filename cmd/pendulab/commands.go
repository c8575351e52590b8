package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/loop"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/session"
	"github.com/san-kum/pendulab/internal/sim"
	"github.com/san-kum/pendulab/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(true)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := cfg.SessionOptions()
	opts.Logger = log
	sess, err := session.New(opts)
	if err != nil {
		return err
	}

	var src session.Source
	if cfg.Seed != 0 {
		src = rand.New(rand.NewSource(cfg.Seed))
	}
	m := viz.NewModel(sess, viz.Options{
		Theme:  viz.GetTheme(theme),
		Source: src,
		MaxDt:  cfg.MaxDt,
		Logger: log,
	})

	log.Info("starting live view", zap.Any("params", cfg.Params))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// runHeadless drives the same session and loop as the live view from a
// manual clock, one frame per dt.
func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := cfg.SessionOptions()
	opts.Logger = log
	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	if cfg.Dt > cfg.MaxDt {
		log.Warn("dt exceeds max_dt, steps will be clamped", zap.Float64("dt", cfg.Dt), zap.Float64("max_dt", cfg.MaxDt))
	}

	clock := loop.NewManualClock(time.Unix(0, 0))
	lp := loop.New(sess, clock, cfg.MaxDt, log)
	frame := time.Duration(cfg.Dt * float64(time.Second))
	frames := int(cfg.Duration/cfg.Dt+0.5) + 1 // first frame primes the loop

	e0 := sess.Energy()
	fmt.Printf("running %.1fs at dt=%.5f (%d frames)...\n", cfg.Duration, cfg.Dt, frames-1)
	start := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for i := 0; i < frames; i++ {
		if ctx.Err() != nil {
			fmt.Println("interrupted")
			break
		}
		if err := lp.Frame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		clock.Advance(frame)
	}

	snap := sess.Snapshot(clock.Now())
	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d  simulated: %.3fs\n", snap.Steps, snap.Time)
	fmt.Printf("final state: theta1=%.6f theta2=%.6f omega1=%.6f omega2=%.6f\n",
		snap.State.Angle1, snap.State.Angle2, snap.State.Velocity1, snap.State.Velocity2)
	fmt.Printf("energy: %.4f J -> %.4f J\n", e0, sess.Energy())
	l1, l2 := sess.TrailLens()
	fmt.Printf("buffers: trails %d/%d points, energy %d samples\n", l1, l2, sess.EnergyLen())
	if snap.ConservationOK {
		fmt.Printf("conserved: %.3f%%  (max drift %.3e)\n", snap.Conservation, snap.MaxDrift)
	} else if snap.Params.DampingEnabled {
		fmt.Printf("damping on (%.2f/s), conservation not tracked\n", snap.Params.DampingCoefficient)
	}

	if len(snap.Energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(snap.Energy,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("energy, last %d steps (J)", len(snap.Energy))),
		))
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	adaptive, _ := cmd.Flags().GetBool("adaptive")
	tol, _ := cmd.Flags().GetFloat64("tol")

	p := cfg.Params
	if p.DampingEnabled {
		fmt.Println("note: damping is off here, integrators are compared on the conservative system")
		p.DampingEnabled = false
	}
	dyn := physics.NewDoublePendulum(p)
	x0 := cfg.GetInitState().Vector()
	floor := p.EnergyScale()

	mode := "fixed"
	if adaptive {
		mode = fmt.Sprintf("adaptive, tol=%.0e", tol)
	}
	fmt.Printf("comparing integrators (dt=%.5f, duration=%.1fs, %s)\n\n", cfg.Dt, cfg.Duration, mode)
	start := time.Now()
	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Adaptive: adaptive, Tolerance: tol}
	trials, err := sim.Compare(cmd.Context(), dyn, names, x0, simCfg,
		func() []dynamo.Metric {
			return []dynamo.Metric{metrics.NewEnergyDrift(dyn, floor), metrics.NewFlips()}
		})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "integrator\tfinal_theta1\tmax_drift\tfinal_drift\tflips\tsteps")
	for _, tr := range trials {
		if tr.Err != nil && tr.Result == nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", tr.Integrator, tr.Err)
			continue
		}
		res := tr.Result
		final := res.States[len(res.States)-1]
		finalDrift := 0.0
		if n := len(res.Energy); n > 0 {
			finalDrift = (res.Energy[n-1] - res.Energy[0]) / math.Max(math.Abs(res.Energy[0]), floor)
		}
		note := ""
		if tr.Err != nil {
			note = " (" + tr.Err.Error() + ")"
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.3e\t%+.3e\t%.0f\t%d%s\n",
			tr.Integrator, final[0], res.Metrics["energy_drift"], finalDrift, res.Metrics["flips"], res.StepsTaken, note)
	}
	w.Flush()
	fmt.Printf("\n%v\n", time.Since(start))
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	perturb, _ := cmd.Flags().GetFloat64("perturb")
	full, _ := cmd.Flags().GetBool("spectrum")

	dyn := physics.NewDoublePendulum(cfg.Params)
	x0 := cfg.GetInitState().Vector()
	if _, err := integrators.ForSystem(cfg.Integrator, dyn); err != nil {
		return err
	}
	newInteg := func() dynamo.Integrator {
		integ, _ := integrators.ForSystem(cfg.Integrator, dyn)
		return integ
	}

	fmt.Printf("lyapunov estimate (%s, dt=%.5f, %.1fs, d0=%.1e)\n\n", cfg.Integrator, cfg.Dt, cfg.Duration, perturb)
	if full {
		spectrum, err := analysis.LyapunovSpectrum(cmd.Context(), dyn, newInteg, x0, cfg.Dt, cfg.Duration, perturb)
		if err != nil {
			return err
		}
		labels := []string{"theta1", "theta2", "omega1", "omega2"}
		for i, v := range spectrum {
			fmt.Printf("  %-7s %+.4f /s\n", labels[i], v)
		}
		return nil
	}

	lambda, err := analysis.LyapunovExponent(dyn, newInteg(), x0, cfg.Dt, cfg.Duration, perturb)
	if err != nil {
		return err
	}
	fmt.Printf("lambda: %+.4f /s\n", lambda)
	if lambda > 0.1 {
		fmt.Printf("chaotic: nearby starts separate e-fold every %.2fs\n", 1/lambda)
	} else {
		fmt.Println("regular motion")
	}
	return nil
}

func spectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmax, _ := cmd.Flags().GetFloat64("fmax")
	dyn := physics.NewDoublePendulum(cfg.Params)
	integ, err := integrators.ForSystem(cfg.Integrator, dyn)
	if err != nil {
		return err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	samples, err := analysis.Sample(dyn, integ, cfg.GetInitState().Vector(), 0, cfg.Dt, steps)
	if err != nil {
		return err
	}
	ps, err := analysis.PowerSpectrum(samples, cfg.Dt)
	if err != nil {
		return err
	}

	n := sort.SearchFloat64s(ps.Freq, fmax)
	n = max(2, min(n, len(ps.Power)))
	fmt.Println(asciigraph.Plot(ps.Power[:n],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum of theta1, 0-%.1f hz", ps.Freq[n-1])),
	))
	fmt.Println()

	freq, _ := ps.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	xIdx, _ := cmd.Flags().GetInt("x")
	yIdx, _ := cmd.Flags().GetInt("y")
	poincare, _ := cmd.Flags().GetBool("poincare")
	dyn := physics.NewDoublePendulum(cfg.Params)
	integ, err := integrators.ForSystem(cfg.Integrator, dyn)
	if err != nil {
		return err
	}

	x0 := cfg.GetInitState().Vector()
	labels := []string{"theta1", "theta2", "omega1", "omega2"}

	if poincare {
		sec, err := analysis.GeneratePoincareSection(dyn, integ, x0, 0, 0, xIdx, yIdx, cfg.Dt, cfg.Duration)
		if err != nil {
			return err
		}
		fmt.Printf("poincare section at theta1 = 0 (upward), %d crossings\n", len(sec.Points))
		fmt.Printf("x: %s  y: %s\n\n", labels[xIdx], labels[yIdx])
		fmt.Print(analysis.PoincareSectionToASCII(sec, 70, 25))
		return nil
	}

	portrait, err := analysis.GeneratePhasePortrait(dyn, integ, x0, xIdx, yIdx, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}
	fmt.Printf("phase portrait  x: %s  y: %s  (%d points)\n\n", labels[xIdx], labels[yIdx], len(portrait.Points))
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 25))
	return nil
}

func bifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	param, _ := flags.GetString("param")
	lo, _ := flags.GetFloat64("min")
	hi, _ := flags.GetFloat64("max")
	steps, _ := flags.GetInt("steps")
	transient, _ := flags.GetFloat64("transient")
	if param == physics.ParamDamping {
		cfg.Params.DampingEnabled = true
	}
	dyn := physics.NewDoublePendulum(cfg.Params)
	integ, err := integrators.ForSystem(cfg.Integrator, dyn)
	if err != nil {
		return err
	}

	data, err := analysis.BifurcationDiagram(dyn, integ, cfg.GetInitState().Vector(), analysis.SweepConfig{
		Param:     param,
		Min:       lo,
		Max:       hi,
		Steps:     steps,
		CrossIdx:  0,
		RecordIdx: 1,
		Dt:        cfg.Dt,
		Transient: transient,
		Record:    cfg.Duration,
	})
	if err != nil {
		return err
	}

	fmt.Printf("theta2 at theta1 = 0 crossings, %s from %.2f to %.2f\n\n", param, lo, hi)
	fmt.Print(analysis.BifurcationToASCII(data, 70, 20))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "preset\ttheta1\ttheta2\tdt\tduration\tdamping")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		damp := "off"
		if p.Params.DampingEnabled {
			damp = fmt.Sprintf("%.2f", p.Params.DampingCoefficient)
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.5f\t%.0fs\t%s\n", name, p.InitState.Theta1, p.InitState.Theta2, p.Dt, p.Duration, damp)
	}
	return w.Flush()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := config.Save(args[0], cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(strings.TrimLeft(string(out), "\n"))
	return nil
}
