// Package renderer draws the dot field as instanced quad impostors with an
// SDF circle mask and gradient coloring, and manages the rotating per-frame
// resource sets that let CPU updates and GPU consumption overlap.
package renderer

import "math"

// MaxGradientStops matches the fixed uniform array size in the fragment
// shader. Presets carry between 2 and MaxGradientStops stops.
const MaxGradientStops = 4

// GradientStop pairs a position in [0,1] with a linear RGBA color.
type GradientStop struct {
	Pos   float32
	Color [4]float32
}

// GradientPreset is a named, fixed multi-stop gradient. The axis runs from
// Start to End in normalized canvas space; dots project their animated
// position onto it to pick a color. DriftPeriod > 0 enables a slow sine
// perturbation of the axis endpoints.
type GradientPreset struct {
	Name           string
	Stops          []GradientStop
	Start          [2]float32
	End            [2]float32
	DriftAmplitude float32 // normalized canvas units
	DriftPeriod    float32 // seconds, 0 = static axis
}

// presets is the fixed catalog, selected by index.
var presets = []GradientPreset{
	{
		Name: "aurora",
		Stops: []GradientStop{
			{Pos: 0.0, Color: [4]float32{0.10, 0.85, 0.65, 1}},
			{Pos: 0.5, Color: [4]float32{0.15, 0.40, 0.95, 1}},
			{Pos: 1.0, Color: [4]float32{0.60, 0.20, 0.90, 1}},
		},
		Start:          [2]float32{0.0, 0.0},
		End:            [2]float32{1.0, 1.0},
		DriftAmplitude: 0.06,
		DriftPeriod:    14,
	},
	{
		Name: "ember",
		Stops: []GradientStop{
			{Pos: 0.0, Color: [4]float32{0.98, 0.35, 0.15, 1}},
			{Pos: 0.6, Color: [4]float32{0.95, 0.70, 0.20, 1}},
			{Pos: 1.0, Color: [4]float32{0.85, 0.10, 0.45, 1}},
		},
		Start:          [2]float32{0.0, 1.0},
		End:            [2]float32{1.0, 0.0},
		DriftAmplitude: 0.05,
		DriftPeriod:    11,
	},
	{
		Name: "glacier",
		Stops: []GradientStop{
			{Pos: 0.0, Color: [4]float32{0.75, 0.92, 1.00, 1}},
			{Pos: 1.0, Color: [4]float32{0.10, 0.30, 0.75, 1}},
		},
		Start: [2]float32{0.5, 0.0},
		End:   [2]float32{0.5, 1.0},
	},
	{
		Name: "orchid",
		Stops: []GradientStop{
			{Pos: 0.0, Color: [4]float32{0.95, 0.55, 0.90, 1}},
			{Pos: 0.35, Color: [4]float32{0.70, 0.30, 0.95, 1}},
			{Pos: 0.7, Color: [4]float32{0.30, 0.25, 0.85, 1}},
			{Pos: 1.0, Color: [4]float32{0.10, 0.60, 0.80, 1}},
		},
		Start:          [2]float32{0.0, 0.5},
		End:            [2]float32{1.0, 0.5},
		DriftAmplitude: 0.08,
		DriftPeriod:    18,
	},
}

// PresetCount returns the catalog size.
func PresetCount() int {
	return len(presets)
}

// Preset returns the preset at index i, clamped to the catalog range.
func Preset(i int) GradientPreset {
	if i < 0 {
		i = 0
	} else if i >= len(presets) {
		i = len(presets) - 1
	}
	return presets[i]
}

// ColorAt returns the piecewise-linearly interpolated color at t in [0,1].
// It mirrors the fragment shader's stop walk and backs the CPU-side tests.
func (g GradientPreset) ColorAt(t float32) [4]float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	color := g.Stops[0].Color
	for i := 1; i < len(g.Stops); i++ {
		s0 := g.Stops[i-1].Pos
		s1 := g.Stops[i].Pos
		span := s1 - s0
		if span < 1e-5 {
			span = 1e-5
		}
		w := (t - s0) / span
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		for c := 0; c < 4; c++ {
			color[c] = color[c] + (g.Stops[i].Color[c]-color[c])*w
		}
	}
	return color
}

// AxisAt returns the gradient axis endpoints at the given elapsed time.
// driftStrength scales the preset's drift amplitude; zero (reduced motion)
// or a zero drift period leaves the axis static.
func (g GradientPreset) AxisAt(time, driftStrength float32) (start, end [2]float32) {
	start, end = g.Start, g.End
	if driftStrength == 0 || g.DriftPeriod == 0 || g.DriftAmplitude == 0 {
		return start, end
	}

	phase := 2 * math.Pi * float64(time) / float64(g.DriftPeriod)
	dx := g.DriftAmplitude * driftStrength * float32(math.Sin(phase))
	dy := g.DriftAmplitude * driftStrength * float32(math.Cos(phase))

	start[0] += dx
	start[1] += dy
	end[0] -= dx
	end[1] -= dy
	return start, end
}
