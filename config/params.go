package config

// Intensity selects a motion intensity preset.
type Intensity int

// Intensity presets.
const (
	IntensityLow Intensity = iota
	IntensityDefault
	IntensityHigh
)

// ParseIntensity maps a config string to an Intensity. Unknown values
// fall back to the default preset.
func ParseIntensity(s string) Intensity {
	switch s {
	case "low":
		return IntensityLow
	case "high":
		return IntensityHigh
	default:
		return IntensityDefault
	}
}

// String returns the config spelling of the preset.
func (i Intensity) String() string {
	switch i {
	case IntensityLow:
		return "low"
	case IntensityHigh:
		return "high"
	default:
		return "default"
	}
}

// Params is the immutable per-frame configuration consumed by the
// simulation and renderer. It is replaced wholesale on settings changes;
// derivations (intensity, reduced motion) are pure transforms that never
// mutate the base value in place.
type Params struct {
	DotDiameter     float32
	Spacing         float32
	EffectRadius    float32
	MaxDisplacement float32
	Stiffness       float32
	Damping         float32
	Mass            float32
	TargetDotCount  int
}

// Intensity multipliers applied to {MaxDisplacement, Stiffness, Damping}.
const (
	lowDisplacementScale  = 0.65
	lowStiffnessScale     = 0.65
	lowDampingScale       = 0.85
	highDisplacementScale = 1.2
	highStiffnessScale    = 1.35
	highDampingScale      = 1.1
)

// Reduced-motion multipliers. Gradient drift is disabled separately by
// the renderer when reduced motion is active.
const (
	reducedDisplacementScale = 0.6
	reducedStiffnessScale    = 0.8
	reducedDampingScale      = 1.2
)

// BaseParams builds the base Params from the loaded config.
func (c *Config) BaseParams() Params {
	return Params{
		DotDiameter:     float32(c.Dots.Diameter),
		Spacing:         float32(c.Dots.Spacing),
		EffectRadius:    float32(c.Spring.EffectRadius),
		MaxDisplacement: float32(c.Spring.MaxDisplacement),
		Stiffness:       float32(c.Spring.Stiffness),
		Damping:         float32(c.Spring.Damping),
		Mass:            float32(c.Spring.Mass),
		TargetDotCount:  c.Dots.TargetCount,
	}
}

// WithIntensity returns a copy of p scaled by the given intensity preset.
func (p Params) WithIntensity(i Intensity) Params {
	switch i {
	case IntensityLow:
		p.MaxDisplacement *= lowDisplacementScale
		p.Stiffness *= lowStiffnessScale
		p.Damping *= lowDampingScale
	case IntensityHigh:
		p.MaxDisplacement *= highDisplacementScale
		p.Stiffness *= highStiffnessScale
		p.Damping *= highDampingScale
	}
	return p
}

// WithReducedMotion returns a copy of p scaled for reduced motion.
func (p Params) WithReducedMotion() Params {
	p.MaxDisplacement *= reducedDisplacementScale
	p.Stiffness *= reducedStiffnessScale
	p.Damping *= reducedDampingScale
	return p
}

// InvMass returns 1/mass, guarding against non-positive mass.
func (p Params) InvMass() float32 {
	if p.Mass <= 0 {
		return 1
	}
	return 1 / p.Mass
}

// Settings are the user-facing options exposed by the settings layer.
// Each field takes one of a small fixed set of values; ApplyTo maps them
// onto the configuration model.
type Settings struct {
	DotDiameter    float32 // 3 | 4 | 6
	Spacing        float32 // 12 | 10 | 8
	TargetDotCount int     // 12000 | 18000 | 22000
	EffectRadius   float32 // 90 | 120 | 160
	Intensity      Intensity
	GradientPreset int
	ReducedMotion  bool
}

// DefaultSettings returns the settings matching the loaded config.
func (c *Config) DefaultSettings() Settings {
	return Settings{
		DotDiameter:    float32(c.Dots.Diameter),
		Spacing:        float32(c.Dots.Spacing),
		TargetDotCount: c.Dots.TargetCount,
		EffectRadius:   float32(c.Spring.EffectRadius),
		Intensity:      ParseIntensity(c.Motion.Intensity),
		GradientPreset: c.Gradient.Preset,
		ReducedMotion:  c.Motion.ReducedMotion,
	}
}

// ApplyTo overrides the geometry fields of base with the user's choices
// and applies the intensity preset. Reduced motion is combined with the
// system setting by the caller, so it is not applied here.
func (s Settings) ApplyTo(base Params) Params {
	if s.DotDiameter > 0 {
		base.DotDiameter = s.DotDiameter
	}
	if s.Spacing > 0 {
		base.Spacing = s.Spacing
	}
	if s.TargetDotCount > 0 {
		base.TargetDotCount = s.TargetDotCount
	}
	if s.EffectRadius > 0 {
		base.EffectRadius = s.EffectRadius
	}
	return base.WithIntensity(s.Intensity)
}
