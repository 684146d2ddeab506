// Package config defines the YAML description of a particle system and
// the built-in presets.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phaselab/phaselab/internal/section"
	"github.com/phaselab/phaselab/internal/system"
)

const (
	DefaultDt      = 0.01
	DefaultSpeed   = 1.0
	DefaultHistory = 2048
)

// VarConfig mirrors system.Variable. Initial values stay textual; the
// builder treats anything non-numeric as 0.
type VarConfig struct {
	Name        string `yaml:"name"`
	Order       int    `yaml:"order"`
	Initial     string `yaml:"initial,omitempty"`
	InitialDot  string `yaml:"initial_dot,omitempty"`
	InitialDDot string `yaml:"initial_ddot,omitempty"`
	Expr        string `yaml:"expr"`
}

type ParticleConfig struct {
	Name  string      `yaml:"name"`
	Color string      `yaml:"color,omitempty"`
	Vars  []VarConfig `yaml:"vars"`
}

type PoincareConfig struct {
	Mode       string  `yaml:"mode,omitempty"`
	Period     string  `yaml:"period,omitempty"`
	PlaneVar   string  `yaml:"plane_var,omitempty"`
	PlaneValue float64 `yaml:"plane_value,omitempty"`
	Direction  string  `yaml:"direction,omitempty"`
	PlotX      string  `yaml:"plot_x,omitempty"`
	PlotY      string  `yaml:"plot_y,omitempty"`
}

type Config struct {
	Name      string           `yaml:"name,omitempty"`
	Dt        float64          `yaml:"dt"`
	Speed     float64          `yaml:"speed"`
	History   int              `yaml:"history"`
	Particles []ParticleConfig `yaml:"particles"`
	Poincare  PoincareConfig   `yaml:"poincare,omitempty"`
}

// DefaultConfig is the Lorenz preset.
func DefaultConfig() *Config {
	cfg, err := Preset("lorenz")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a system file. Missing tunables fall back to their
// defaults; a missing poincare block leaves sampling off.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize clamps non-positive tunables back to their defaults.
func (c *Config) Normalize() {
	if c.Dt <= 0 {
		c.Dt = DefaultDt
	}
	if c.Speed <= 0 {
		c.Speed = DefaultSpeed
	}
	if c.History <= 0 {
		c.History = DefaultHistory
	}
}

// Clone deep-copies the particle list so edits to one config never leak
// into presets or other holders.
func (c *Config) Clone() *Config {
	out := *c
	out.Particles = make([]ParticleConfig, len(c.Particles))
	for i, p := range c.Particles {
		out.Particles[i] = p
		out.Particles[i].Vars = append([]VarConfig(nil), p.Vars...)
	}
	return &out
}

// GetParticles converts the config into builder input.
func (c *Config) GetParticles() []system.Particle {
	parts := make([]system.Particle, 0, len(c.Particles))
	for _, p := range c.Particles {
		vars := make([]system.Variable, 0, len(p.Vars))
		for _, v := range p.Vars {
			vars = append(vars, system.Variable{
				Name:        v.Name,
				Order:       v.Order,
				Initial:     v.Initial,
				InitialDot:  v.InitialDot,
				InitialDDot: v.InitialDDot,
				Expr:        v.Expr,
			})
		}
		parts = append(parts, system.Particle{Name: p.Name, Vars: vars})
	}
	return parts
}

// GetSection parses the Poincaré block. Unknown modes disable sampling;
// unknown directions fall back to positive.
func (c *Config) GetSection() section.Config {
	sc := section.Config{
		Period:     c.Poincare.Period,
		PlaneVar:   c.Poincare.PlaneVar,
		PlaneValue: c.Poincare.PlaneValue,
		PlotX:      c.Poincare.PlotX,
		PlotY:      c.Poincare.PlotY,
	}
	switch c.Poincare.Mode {
	case "time":
		sc.Mode = section.ModeTime
	case "plane":
		sc.Mode = section.ModePlane
	default:
		sc.Mode = section.ModeOff
	}
	switch c.Poincare.Direction {
	case "negative":
		sc.Direction = section.DirNegative
	case "both":
		sc.Direction = section.DirBoth
	default:
		sc.Direction = section.DirPositive
	}
	return sc
}

// Preset returns a private copy of a built-in system.
func Preset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p.Clone(), nil
}

// PresetNames lists the built-in systems, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
