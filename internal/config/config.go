package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/dynpar/internal/astro"
	"github.com/san-kum/dynpar/internal/dynpar"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSemiMajor    = 4.5
	DefaultSemiMinor    = 3.4
	DefaultMag1         = 3.9
	DefaultMag2         = 5.3
	DefaultPartialYears = 11.0
	DefaultLogLevel     = "info"
)

type Config struct {
	Orbit      OrbitConfig      `yaml:"orbit"`
	Photometry PhotometryConfig `yaml:"photometry"`
	Solver     SolverConfig     `yaml:"solver"`
	Constants  astro.Constants  `yaml:"constants,omitempty"`
	Log        LogConfig        `yaml:"log"`
}

type OrbitConfig struct {
	SemiMajorArcsec   float64 `yaml:"semi_major_arcsec"`
	SemiMinorArcsec   float64 `yaml:"semi_minor_arcsec"`
	PartialOrbitYears float64 `yaml:"partial_orbit_years"`
}

type PhotometryConfig struct {
	ApparentMag1 float64 `yaml:"apparent_mag1"`
	ApparentMag2 float64 `yaml:"apparent_mag2"`
}

type SolverConfig struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	StableSteps   int     `yaml:"stable_steps"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func DefaultConfig() *Config {
	return &Config{
		Orbit: OrbitConfig{
			SemiMajorArcsec:   DefaultSemiMajor,
			SemiMinorArcsec:   DefaultSemiMinor,
			PartialOrbitYears: DefaultPartialYears,
		},
		Photometry: PhotometryConfig{
			ApparentMag1: DefaultMag1,
			ApparentMag2: DefaultMag2,
		},
		Solver: SolverConfig{
			Tolerance:     dynpar.DefaultTolerance,
			MaxIterations: dynpar.DefaultMaxIterations,
			StableSteps:   dynpar.DefaultStableSteps,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Validate checks the keys that can be judged without running the solver.
// Geometric consistency of the orbit is left to the solver's domain checks.
func (c *Config) Validate() error {
	positive := []struct {
		key string
		v   float64
	}{
		{"orbit.semi_major_arcsec", c.Orbit.SemiMajorArcsec},
		{"orbit.semi_minor_arcsec", c.Orbit.SemiMinorArcsec},
		{"orbit.partial_orbit_years", c.Orbit.PartialOrbitYears},
		{"solver.tolerance", c.Solver.Tolerance},
	}
	for _, p := range positive {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", p.key, p.v)
		}
	}
	if c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive, got %d", c.Solver.MaxIterations)
	}
	if c.Solver.StableSteps <= 0 {
		return fmt.Errorf("solver.stable_steps must be positive, got %d", c.Solver.StableSteps)
	}
	if !c.constants().IsValid() {
		return fmt.Errorf("constants must be finite and positive")
	}
	return nil
}

func (c *Config) constants() astro.Constants {
	return astro.Default().Merge(c.Constants)
}

func (c *Config) Inputs() dynpar.Inputs {
	return dynpar.Inputs{
		SemiMajorArcsec:   c.Orbit.SemiMajorArcsec,
		SemiMinorArcsec:   c.Orbit.SemiMinorArcsec,
		ApparentMag1:      c.Photometry.ApparentMag1,
		ApparentMag2:      c.Photometry.ApparentMag2,
		PartialOrbitYears: c.Orbit.PartialOrbitYears,
		Constants:         c.constants(),
	}
}

func (c *Config) SolverConfig() dynpar.Config {
	return dynpar.Config{
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
		StableSteps:   c.Solver.StableSteps,
	}
}
