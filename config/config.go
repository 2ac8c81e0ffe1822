// Package config provides configuration loading and access for the dot field.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tunable parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Dots      DotsConfig      `yaml:"dots"`
	Spring    SpringConfig    `yaml:"spring"`
	Gradient  GradientConfig  `yaml:"gradient"`
	Motion    MotionConfig    `yaml:"motion"`
	Frames    FramesConfig    `yaml:"frames"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TargetFPS  int     `yaml:"target_fps"`
	PixelScale float64 `yaml:"pixel_scale"` // 0 = use window DPI scale
}

// DotsConfig holds lattice parameters.
type DotsConfig struct {
	Diameter    float64 `yaml:"diameter"`     // dot diameter in points
	Spacing     float64 `yaml:"spacing"`      // base lattice spacing in points
	TargetCount int     `yaml:"target_count"` // dot-count budget; spacing scales up to respect it
	MaxCapacity int     `yaml:"max_capacity"` // hard ceiling on per-frame instance storage
}

// SpringConfig holds the damped oscillator parameters.
type SpringConfig struct {
	Stiffness       float64 `yaml:"stiffness"`
	Damping         float64 `yaml:"damping"`
	Mass            float64 `yaml:"mass"`
	MaxDisplacement float64 `yaml:"max_displacement"` // points
	EffectRadius    float64 `yaml:"effect_radius"`    // points
}

// GradientConfig selects the active gradient preset.
type GradientConfig struct {
	Preset int `yaml:"preset"`
}

// MotionConfig holds motion intensity and accessibility settings.
type MotionConfig struct {
	Intensity     string `yaml:"intensity"` // low | default | high
	ReducedMotion bool   `yaml:"reduced_motion"`
}

// FramesConfig holds frame pipelining parameters.
type FramesConfig struct {
	InFlight int `yaml:"in_flight"` // buffered frame copies, clamped to [1, 4]
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // frames averaged per perf report
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // nominal timestep: 1 / target_fps
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.sanitize()
	cfg.computeDerived()

	return cfg, nil
}

// sanitize clamps invalid values to safe minimums instead of erroring.
// Steady-state code assumes every loaded value is positive.
func (c *Config) sanitize() {
	if c.Screen.Width < 1 {
		c.Screen.Width = 1
	}
	if c.Screen.Height < 1 {
		c.Screen.Height = 1
	}
	if c.Screen.TargetFPS < 1 {
		c.Screen.TargetFPS = 60
	}
	if c.Dots.Diameter <= 0 {
		c.Dots.Diameter = 4
	}
	if c.Dots.Spacing <= 0 {
		c.Dots.Spacing = 10
	}
	if c.Dots.TargetCount < 1 {
		c.Dots.TargetCount = 18000
	}
	if c.Dots.MaxCapacity < c.Dots.TargetCount {
		c.Dots.MaxCapacity = c.Dots.TargetCount * 2
	}
	if c.Spring.Stiffness <= 0 {
		c.Spring.Stiffness = 28
	}
	if c.Spring.Damping <= 0 {
		c.Spring.Damping = 14
	}
	if c.Spring.Mass <= 0 {
		c.Spring.Mass = 1
	}
	if c.Spring.MaxDisplacement <= 0 {
		c.Spring.MaxDisplacement = 24
	}
	if c.Spring.EffectRadius <= 0 {
		c.Spring.EffectRadius = 120
	}
	if c.Frames.InFlight < 1 {
		c.Frames.InFlight = 3
	} else if c.Frames.InFlight > 4 {
		c.Frames.InFlight = 4
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = 1.0 / float32(c.Screen.TargetFPS)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
