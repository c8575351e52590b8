package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/viz"
)

var (
	configFile string
	preset     string
	verbose    bool
	logFile    string
	theme      string

	dt         float64
	duration   float64
	seed       int64
	integrator string

	theta1, theta2 float64
	omega1, omega2 float64

	length1, length2 float64
	mass1, mass2     float64
	gravity          float64
	damping          float64
	damped           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pendulab",
		Short:        "interactive double pendulum lab",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", fmt.Sprintf("use preset configuration %v", config.ListPresets()))
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	pf.StringVar(&logFile, "log", "", "write logs to this file")

	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	pf.Int64Var(&seed, "seed", 0, "random seed for randomize (0 = time based)")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, fmt.Sprintf("integrator %v", integrators.Names()))

	pf.Float64Var(&theta1, "theta1", 0, "initial angle of the first link (rad)")
	pf.Float64Var(&theta2, "theta2", 0, "initial angle of the second link (rad)")
	pf.Float64Var(&omega1, "omega1", 0, "initial angular velocity of the first link (rad/s)")
	pf.Float64Var(&omega2, "omega2", 0, "initial angular velocity of the second link (rad/s)")

	pf.Float64Var(&length1, "length1", physics.DefaultLength, "first link length (px)")
	pf.Float64Var(&length2, "length2", physics.DefaultLength, "second link length (px)")
	pf.Float64Var(&mass1, "mass1", physics.DefaultMass, "first mass")
	pf.Float64Var(&mass2, "mass2", physics.DefaultMass, "second mass")
	pf.Float64Var(&gravity, "gravity", physics.DefaultGravity, "gravitational acceleration")
	pf.Float64Var(&damping, "damping", physics.DefaultDamping, "damping coefficient (1/s)")
	pf.BoolVar(&damped, "damped", false, "enable damping")

	rootCmd.Flags().StringVar(&theme, "theme", viz.ThemeNeon.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report energy conservation",
		RunE:  runHeadless,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrators...]",
		Short: "compare energy drift across integrators",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Bool("adaptive", false, "let each integrator pick its step size")
	compareCmd.Flags().Float64("tol", 1e-8, "local error tolerance for --adaptive")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest lyapunov exponent",
		RunE:  lyapunov,
	}
	lyapunovCmd.Flags().Float64("perturb", 1e-8, "initial separation")
	lyapunovCmd.Flags().Bool("spectrum", false, "perturb every state component")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "power spectrum of the first angle",
		RunE:  spectrum,
	}
	spectrumCmd.Flags().Float64("fmax", 5, "highest frequency to plot (hz)")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase portrait or poincare section",
		RunE:  phasePlot,
	}
	phaseCmd.Flags().Int("x", 0, "state index for x-axis (0=theta1 1=theta2 2=omega1 3=omega2)")
	phaseCmd.Flags().Int("y", 2, "state index for y-axis")
	phaseCmd.Flags().Bool("poincare", false, "record only upward zero crossings of theta1")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "sweep a parameter across a poincare section",
		RunE:  bifurcation,
	}
	bifurcationCmd.Flags().String("param", physics.ParamGravity, fmt.Sprintf("parameter to sweep %v", physics.ParamNames))
	bifurcationCmd.Flags().Float64("min", 5, "sweep start")
	bifurcationCmd.Flags().Float64("max", 15, "sweep end")
	bifurcationCmd.Flags().Int("steps", 40, "number of parameter values")
	bifurcationCmd.Flags().Float64("transient", 10, "seconds discarded before recording")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpConfig,
	}

	rootCmd.AddCommand(runCmd, compareCmd, lyapunovCmd, spectrumCmd, phaseCmd, bifurcationCmd, presetsCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file and explicitly set flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	floats := []struct {
		name string
		src  float64
		dst  *float64
	}{
		{"dt", dt, &cfg.Dt},
		{"time", duration, &cfg.Duration},
		{"theta1", theta1, &cfg.InitState.Theta1},
		{"theta2", theta2, &cfg.InitState.Theta2},
		{"omega1", omega1, &cfg.InitState.Omega1},
		{"omega2", omega2, &cfg.InitState.Omega2},
		{"length1", length1, &cfg.Params.Length1},
		{"length2", length2, &cfg.Params.Length2},
		{"mass1", mass1, &cfg.Params.Mass1},
		{"mass2", mass2, &cfg.Params.Mass2},
		{"gravity", gravity, &cfg.Params.Gravity},
		{"damping", damping, &cfg.Params.DampingCoefficient},
	}
	for _, f := range floats {
		if flags.Changed(f.name) {
			*f.dst = f.src
		}
	}
	if flags.Changed("damped") {
		cfg.Params.DampingEnabled = damped
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger never writes to the terminal in live mode, where bubbletea
// owns the screen.
func newLogger(live bool) (*zap.Logger, error) {
	switch {
	case logFile != "":
		zc := zap.NewDevelopmentConfig()
		if !verbose {
			zc = zap.NewProductionConfig()
		}
		zc.OutputPaths = []string{logFile}
		zc.ErrorOutputPaths = []string{logFile}
		return zc.Build()
	case live:
		return zap.NewNop(), nil
	case verbose:
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
