package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/history"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/session"
)

const (
	DefaultDt          = 1.0 / 120
	DefaultDuration    = 10.0
	DefaultIntegrator  = "semi-implicit"
	DefaultTrailWindow = 3.0
)

type Config struct {
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	MaxDt      float64         `yaml:"max_dt"`
	Duration   float64         `yaml:"duration"`
	Seed       int64           `yaml:"seed"`
	Params     physics.Params  `yaml:"params"`
	InitState  InitStateConfig `yaml:"init_state"`
	Display    DisplayConfig   `yaml:"display"`
}

// InitStateConfig holds angles in radians and angular velocities in rad/s.
type InitStateConfig struct {
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	Omega1 float64 `yaml:"omega1"`
	Omega2 float64 `yaml:"omega2"`
}

type DisplayConfig struct {
	TrailWindow    float64 `yaml:"trail_window"`
	EnergyCapacity int     `yaml:"energy_capacity"`
	ShowTrails     bool    `yaml:"show_trails"`
	ShowEnergy     bool    `yaml:"show_energy"`
}

func DefaultConfig() *Config {
	start := physics.InitialState()
	return &Config{
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		MaxDt:      session.MaxDt,
		Duration:   DefaultDuration,
		Params:     physics.DefaultParams(),
		InitState: InitStateConfig{
			Theta1: start.Angle1,
			Theta2: start.Angle2,
		},
		Display: DisplayConfig{
			TrailWindow:    DefaultTrailWindow,
			EnergyCapacity: history.DefaultEnergyCapacity,
			ShowTrails:     true,
			ShowEnergy:     true,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; presets are shared and must not be mutated.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if !c.GetInitState().IsFinite() {
		return fmt.Errorf("%w: init_state %+v", dynamo.ErrInvalidState, c.InitState)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"dt", c.Dt},
		{"max_dt", c.MaxDt},
		{"duration", c.Duration},
		{"display.trail_window", c.Display.TrailWindow},
	} {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrParameterBounds, f.name, f.value)
		}
	}
	if c.Display.EnergyCapacity <= 0 {
		return fmt.Errorf("%w: display.energy_capacity must be positive, got %d", dynamo.ErrParameterBounds, c.Display.EnergyCapacity)
	}
	return nil
}

func (c *Config) GetInitState() physics.State {
	return physics.State{
		Angle1:    c.InitState.Theta1,
		Angle2:    c.InitState.Theta2,
		Velocity1: c.InitState.Omega1,
		Velocity2: c.InitState.Omega2,
	}
}

func (c *Config) TrailWindow() time.Duration {
	return time.Duration(c.Display.TrailWindow * float64(time.Second))
}

// SessionOptions maps the config onto session options. Pivot and logger are
// left for the caller.
func (c *Config) SessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.Params = c.Params
	opts.Initial = c.GetInitState()
	opts.MaxDt = c.MaxDt
	opts.TrailWindow = c.TrailWindow()
	opts.EnergyCapacity = c.Display.EnergyCapacity
	opts.ShowTrails = c.Display.ShowTrails
	opts.ShowEnergy = c.Display.ShowEnergy
	return opts
}
