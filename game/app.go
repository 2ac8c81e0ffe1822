// Package game wires the touch store, grid, simulation dispatch, frame
// ring, and renderer into a per-frame pipeline.
package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
	"github.com/pthm-cable/dotfield/systems"
	"github.com/pthm-cable/dotfield/telemetry"
	"github.com/pthm-cable/dotfield/ui"
)

// maxFrameDT bounds the integration timestep. A stalled or backgrounded
// frame reports a huge elapsed time; integrating with it would make the
// spring overshoot catastrophically, so the nominal refresh interval is
// substituted instead.
const maxFrameDT = 0.1

// Options configures app construction.
type Options struct {
	Headless  bool
	LogStats  bool
	OutputDir string
}

// App holds the complete dot field state. One frame producer calls Update
// and Draw; input may arrive from any goroutine through the touch store.
type App struct {
	cfg      *config.Config
	settings config.Settings
	params   config.Params // effective params, presets applied

	systemReducedMotion bool
	reducedMotion       bool // user setting OR system setting

	touches *systems.TouchStore
	field   *systems.Field
	ring    *renderer.FrameRing
	dots    *renderer.DotRenderer
	preset  renderer.GradientPreset
	panel   *ui.SettingsPanel

	perf     *telemetry.PerfCollector
	output   *telemetry.OutputManager
	logStats bool

	canvasW, canvasH float32 // points
	pixelScale       float32
	mouseDown        bool

	elapsed float64
	frame   uint64
	current *renderer.FrameSlot // slot acquired by Update, drawn by Draw
}

// NewApp builds the full pipeline. Renderer construction is skipped in
// headless mode; any resource that cannot be created aborts construction.
func NewApp(opts Options) (*App, error) {
	cfg := config.Cfg()

	a := &App{
		cfg:        cfg,
		settings:   cfg.DefaultSettings(),
		touches:    systems.NewTouchStore(),
		field:      systems.NewField(),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:   opts.LogStats,
		canvasW:    cfg.Derived.ScreenW32,
		canvasH:    cfg.Derived.ScreenH32,
		pixelScale: resolvePixelScale(cfg),
	}

	a.recomputeParams()
	a.preset = renderer.Preset(a.settings.GradientPreset)

	grid := systems.BuildGrid(a.canvasW, a.canvasH, a.params.Spacing, a.params.TargetDotCount)
	a.field.Rebuild(grid)

	ring, err := renderer.NewFrameRing(cfg.Frames.InFlight, a.field.Count(), cfg.Dots.MaxCapacity)
	if err != nil {
		return nil, err
	}
	a.ring = ring

	if !opts.Headless {
		dots, err := renderer.NewDotRenderer("shaders/dot.vs", "shaders/dot.fs")
		if err != nil {
			return nil, err
		}
		a.dots = dots
		a.panel = ui.NewSettingsPanel(a.settings)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	a.output = output
	if err := a.output.WriteConfig(cfg); err != nil {
		slog.Warn("writing config snapshot failed", "error", err)
	}

	slog.Info("dot field ready",
		"dots", a.field.Count(),
		"spacing", a.field.Spacing(),
		"in_flight", ring.SlotCount(),
	)
	return a, nil
}

// resolvePixelScale maps canvas points to render-target pixels. The raylib
// backend draws in screen points, so the scale is 1 unless overridden.
func resolvePixelScale(cfg *config.Config) float32 {
	if cfg.Screen.PixelScale > 0 {
		return float32(cfg.Screen.PixelScale)
	}
	return 1
}

// recomputeParams rebuilds the effective params from the base config, the
// user settings, and the combined reduced-motion state. Every derivation is
// a pure transform of the base configuration.
func (a *App) recomputeParams() {
	a.reducedMotion = a.settings.ReducedMotion || a.systemReducedMotion
	p := a.settings.ApplyTo(a.cfg.BaseParams())
	if a.reducedMotion {
		p = p.WithReducedMotion()
	}
	a.params = p
}

// rebuildGrid recomputes the lattice and grows the frame ring to match.
// If the ring cannot grow, the previous grid keeps serving and the density
// change silently fails to take effect, per the non-fatal growth contract.
func (a *App) rebuildGrid() {
	grid := systems.BuildGrid(a.canvasW, a.canvasH, a.params.Spacing, a.params.TargetDotCount)
	if err := a.ring.Resize(len(grid.Rest)); err != nil {
		slog.Error("frame storage growth failed, keeping previous grid",
			"error", err,
			"requested", len(grid.Rest),
			"current", a.field.Count(),
		)
		return
	}
	a.field.Rebuild(grid)
	slog.Info("grid rebuilt",
		"dots", a.field.Count(),
		"spacing", a.field.Spacing(),
		"canvas_w", a.canvasW,
		"canvas_h", a.canvasH,
	)
}

// ApplyConfiguration maps user-facing settings onto the configuration
// model. Changes to dot size or density rebuild the grid, discarding all
// per-dot simulation state.
func (a *App) ApplyConfiguration(s config.Settings) {
	old := a.settings
	a.settings = s
	a.recomputeParams()
	a.preset = renderer.Preset(s.GradientPreset)

	if s.DotDiameter != old.DotDiameter || s.Spacing != old.Spacing || s.TargetDotCount != old.TargetDotCount {
		a.rebuildGrid()
	}
}

// NotifyCanvasResized rebuilds the grid for a new canvas size in points.
func (a *App) NotifyCanvasResized(w, h float32) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	a.canvasW, a.canvasH = w, h
	a.rebuildGrid()
}

// NotifySystemReducedMotion combines the platform accessibility setting
// with the user's own reduced-motion toggle.
func (a *App) NotifySystemReducedMotion(enabled bool) {
	a.systemReducedMotion = enabled
	a.recomputeParams()
}

// Touches returns the touch state store, the write path for input code.
func (a *App) Touches() *systems.TouchStore {
	return a.touches
}

// Frame returns the number of completed frames.
func (a *App) Frame() uint64 {
	return a.frame
}

// DotCount returns the current lattice size.
func (a *App) DotCount() int {
	return a.field.Count()
}

// frameDT sanitizes a measured frame time. Non-finite or out-of-range
// values fall back to the nominal refresh interval.
func (a *App) frameDT(measured float32) float32 {
	nominal := a.cfg.Derived.DT32
	if math.IsNaN(float64(measured)) || math.IsInf(float64(measured), 0) {
		return nominal
	}
	if measured <= 0 || measured > maxFrameDT {
		return nominal
	}
	return measured
}

// step runs one simulation frame into a freshly acquired slot: snapshot
// the touches, dispatch the parallel dot update, and derive the frame
// uniforms. The slot stays bound until Draw (or the headless path) releases
// it, so the draw never reads a half-written buffer.
func (a *App) step(dt float32) *renderer.FrameSlot {
	slot := a.ring.Acquire()
	a.perf.StartFrame()
	a.elapsed += float64(dt)

	a.perf.StartPhase(telemetry.PhaseTouches)
	slot.TouchCount = a.touches.Snapshot(slot.Touches[:])

	a.perf.StartPhase(telemetry.PhaseSimulate)
	u := systems.SimUniformsFor(a.params, dt, a.pixelScale, slot.TouchCount)
	slot.Count = a.field.Count()
	if slot.Count <= len(slot.Positions) {
		a.field.Step(u, slot.Touches[:], slot.Positions)
	} else {
		// A failed storage growth left the ring smaller than the field;
		// draw the instances that fit rather than writing past the buffers.
		slot.Count = len(slot.Positions)
	}
	slot.Sim = u

	slot.Uniforms = renderer.FrameUniformsFor(
		a.params, a.preset,
		a.canvasW*a.pixelScale, a.canvasH*a.pixelScale,
		a.pixelScale, float32(a.elapsed), a.reducedMotion,
	)
	return slot
}

// finishFrame records telemetry and releases the slot's admission token.
func (a *App) finishFrame() {
	a.perf.EndFrame()
	a.ring.Release()
	a.frame++

	window := uint64(a.cfg.Telemetry.PerfWindow)
	if a.frame%window != 0 {
		return
	}
	stats := a.perf.Stats()
	if a.logStats {
		stats.LogStats(a.field.Count())
	}
	if err := a.output.WritePerf(stats, a.frame, a.field.Count()); err != nil {
		slog.Warn("writing perf window failed", "error", err)
	}
}

// Unload stops the workers and releases renderer resources.
func (a *App) Unload() {
	a.field.Close()
	if a.dots != nil {
		a.dots.Unload()
	}
	if err := a.output.Close(); err != nil {
		slog.Warn("closing output failed", "error", err)
	}
}
