package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/systems"
)

func newHeadlessApp(t *testing.T) *App {
	t.Helper()
	if err := config.Init(""); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	app, err := NewApp(Options{Headless: true})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	t.Cleanup(app.Unload)
	return app
}

func TestNewAppHeadless(t *testing.T) {
	app := newHeadlessApp(t)

	if app.DotCount() == 0 {
		t.Fatal("expected a populated lattice")
	}
	if app.ring.Capacity() < app.DotCount() {
		t.Errorf("ring capacity %d below dot count %d", app.ring.Capacity(), app.DotCount())
	}
	if app.ring.SlotCount() != config.Cfg().Frames.InFlight {
		t.Errorf("slot count %d, want %d", app.ring.SlotCount(), config.Cfg().Frames.InFlight)
	}
	if app.dots != nil || app.panel != nil {
		t.Error("headless app should not build renderer resources")
	}
}

func TestUpdateHeadlessAdvancesAndDisplaces(t *testing.T) {
	app := newHeadlessApp(t)

	for i := 0; i < 30; i++ {
		app.UpdateHeadless()
	}

	if app.Frame() != 30 {
		t.Errorf("frame counter %d, want 30", app.Frame())
	}

	// The scripted orbit contact must have displaced dots near its path.
	moved := 0
	for i := 0; i < app.field.Count(); i++ {
		if app.field.Offset(i).Length() > 0.01 {
			moved++
		}
	}
	if moved == 0 {
		t.Error("no dots displaced by the scripted contact")
	}
}

func TestApplyConfigurationRebuildsOnDensityChange(t *testing.T) {
	app := newHeadlessApp(t)
	before := app.DotCount()

	s := app.settings
	s.Spacing = 8
	app.ApplyConfiguration(s)

	if app.DotCount() <= before {
		t.Errorf("denser spacing should add dots: %d -> %d", before, app.DotCount())
	}

	// Motion-only changes must not discard the lattice.
	after := app.DotCount()
	s.Intensity = config.IntensityHigh
	app.ApplyConfiguration(s)
	if app.DotCount() != after {
		t.Errorf("intensity change rebuilt the grid: %d -> %d", after, app.DotCount())
	}
	if app.params.Stiffness <= config.Cfg().BaseParams().Stiffness {
		t.Error("high intensity not reflected in effective params")
	}
}

func TestApplyConfigurationGrowthFailureKeepsGrid(t *testing.T) {
	app := newHeadlessApp(t)
	app.NotifyCanvasResized(5000, 5000)
	before := app.DotCount()

	// A budget past the storage ceiling cannot be honored; the previous
	// grid keeps serving instead of crashing.
	s := app.settings
	s.Spacing = 8
	s.TargetDotCount = config.Cfg().Dots.MaxCapacity * 2
	app.ApplyConfiguration(s)

	if app.DotCount() != before {
		t.Errorf("grid changed despite failed growth: %d -> %d", before, app.DotCount())
	}

	// The pipeline still runs on the old grid.
	app.UpdateHeadless()
	if app.Frame() != 1 {
		t.Errorf("frame did not complete after failed growth: %d", app.Frame())
	}
}

func TestNotifyCanvasResized(t *testing.T) {
	app := newHeadlessApp(t)
	before := app.DotCount()

	app.NotifyCanvasResized(800, 844)
	if app.DotCount() <= before {
		t.Errorf("wider canvas should add dots: %d -> %d", before, app.DotCount())
	}

	// Resize discards per-dot state along with the lattice.
	for i := 0; i < app.field.Count(); i++ {
		if app.field.Offset(i) != (systems.Vec2{}) {
			t.Fatalf("dot %d carried displacement across resize", i)
		}
	}
}

func TestReducedMotionShrinksDisplacement(t *testing.T) {
	run := func(reduced bool) float32 {
		app := newHeadlessApp(t)
		app.NotifySystemReducedMotion(reduced)

		for i := 0; i < 60; i++ {
			app.UpdateHeadless()
		}

		var peak float32
		for i := 0; i < app.field.Count(); i++ {
			if m := app.field.Offset(i).Length(); m > peak {
				peak = m
			}
		}
		return peak
	}

	normal := run(false)
	reduced := run(true)

	if normal <= 0 || reduced <= 0 {
		t.Fatalf("expected motion in both runs: %v / %v", normal, reduced)
	}
	if reduced >= normal {
		t.Errorf("reduced-motion peak %v not below normal %v", reduced, normal)
	}
}

func TestFrameDTSanitized(t *testing.T) {
	app := newHeadlessApp(t)
	nominal := config.Cfg().Derived.DT32

	cases := []struct {
		in   float32
		want float32
	}{
		{in: 1.0 / 60.0, want: 1.0 / 60.0},
		{in: 0, want: nominal},
		{in: -1, want: nominal},
		{in: 5, want: nominal}, // stalled frame
		{in: float32(math.NaN()), want: nominal},
	}
	for _, c := range cases {
		if got := app.frameDT(c.in); got != c.want {
			t.Errorf("frameDT(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
