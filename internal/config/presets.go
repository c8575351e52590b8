package config

import (
	"math"
	"sort"
)

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"symmetric": preset(func(c *Config) {
		c.Duration = 30
		c.InitState = InitStateConfig{Theta1: 1.5, Theta2: 1.5}
	}),
	"chaos": preset(func(c *Config) {
		c.Dt = 1.0 / 240
		c.Duration = 60
		c.InitState = InitStateConfig{Theta1: 3.0, Theta2: 3.0}
	}),
	"gentle": preset(func(c *Config) {
		c.Duration = 30
		c.InitState = InitStateConfig{Theta1: 0.3, Theta2: 0.3}
	}),
	"damped": preset(func(c *Config) {
		c.Duration = 30
		c.InitState = InitStateConfig{Theta1: math.Pi / 2, Theta2: math.Pi}
		c.Params.DampingEnabled = true
		c.Params.DampingCoefficient = 0.3
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
