package renderer

import (
	"math"
	"testing"
)

func TestPresetCatalogValid(t *testing.T) {
	if PresetCount() < 1 {
		t.Fatal("empty preset catalog")
	}

	for i := 0; i < PresetCount(); i++ {
		g := Preset(i)
		if g.Name == "" {
			t.Errorf("preset %d has no name", i)
		}
		if len(g.Stops) < 2 || len(g.Stops) > MaxGradientStops {
			t.Errorf("preset %q has %d stops", g.Name, len(g.Stops))
		}
		if g.Stops[0].Pos != 0 || g.Stops[len(g.Stops)-1].Pos != 1 {
			t.Errorf("preset %q does not span [0,1]", g.Name)
		}
		for s := 1; s < len(g.Stops); s++ {
			if g.Stops[s].Pos <= g.Stops[s-1].Pos {
				t.Errorf("preset %q stops not strictly ascending", g.Name)
			}
		}
	}
}

func TestPresetIndexClamped(t *testing.T) {
	if Preset(-1).Name != Preset(0).Name {
		t.Error("negative index should clamp to the first preset")
	}
	if Preset(999).Name != Preset(PresetCount()-1).Name {
		t.Error("oversized index should clamp to the last preset")
	}
}

func TestColorAtEndpoints(t *testing.T) {
	for i := 0; i < PresetCount(); i++ {
		g := Preset(i)
		if got := g.ColorAt(0); got != g.Stops[0].Color {
			t.Errorf("preset %q ColorAt(0) = %v, want first stop %v", g.Name, got, g.Stops[0].Color)
		}
		last := g.Stops[len(g.Stops)-1].Color
		if got := g.ColorAt(1); got != last {
			t.Errorf("preset %q ColorAt(1) = %v, want last stop %v", g.Name, got, last)
		}
	}
}

func TestColorAtClampsInput(t *testing.T) {
	g := Preset(0)
	if g.ColorAt(-5) != g.ColorAt(0) {
		t.Error("t below range should clamp to 0")
	}
	if g.ColorAt(5) != g.ColorAt(1) {
		t.Error("t above range should clamp to 1")
	}
}

func TestColorAtMidpointBlends(t *testing.T) {
	var glacier GradientPreset
	for i := 0; i < PresetCount(); i++ {
		if g := Preset(i); len(g.Stops) == 2 {
			glacier = g
			break
		}
	}
	if glacier.Name == "" {
		t.Skip("no two-stop preset in the catalog")
	}

	got := glacier.ColorAt(0.5)
	for c := 0; c < 4; c++ {
		want := (glacier.Stops[0].Color[c] + glacier.Stops[1].Color[c]) / 2
		if math.Abs(float64(got[c]-want)) > 1e-6 {
			t.Errorf("channel %d: got %v, want %v", c, got[c], want)
		}
	}
}

func TestAxisStaticUnderReducedMotion(t *testing.T) {
	g := Preset(0)
	if g.DriftPeriod == 0 {
		t.Fatal("test preset needs drift enabled")
	}

	// With drift strength zero the axis must not move over a full minute.
	for sec := 0; sec <= 60; sec++ {
		start, end := g.AxisAt(float32(sec), 0)
		if start != g.Start || end != g.End {
			t.Fatalf("axis drifted at t=%ds under reduced motion: %v -> %v", sec, start, end)
		}
	}
}

func TestAxisDriftsWhenEnabled(t *testing.T) {
	g := Preset(0)

	s0, e0 := g.AxisAt(0, 1)
	s1, e1 := g.AxisAt(g.DriftPeriod/4, 1)
	if s0 == s1 && e0 == e1 {
		t.Error("expected the axis to move a quarter period apart")
	}

	// Drift is a bounded perturbation around the preset endpoints.
	for sec := 0; sec <= 60; sec++ {
		start, _ := g.AxisAt(float32(sec), 1)
		dx := math.Abs(float64(start[0] - g.Start[0]))
		dy := math.Abs(float64(start[1] - g.Start[1]))
		if dx > float64(g.DriftAmplitude)+1e-6 || dy > float64(g.DriftAmplitude)+1e-6 {
			t.Fatalf("drift at t=%ds exceeds amplitude: %v", sec, start)
		}
	}
}
