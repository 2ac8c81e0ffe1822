package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dotfield/systems"
	"github.com/pthm-cable/dotfield/telemetry"
)

// mouseTouchID is the synthetic contact id used for the primary mouse button.
const mouseTouchID = -1

// Update processes input and runs one simulation frame.
func (a *App) Update() {
	a.handleInput()
	dt := a.frameDT(rl.GetFrameTime())
	a.current = a.step(dt)
}

// Draw uploads the frame's instances and issues the draw, then releases the
// frame slot. The simulation dispatch for this slot completed in Update, so
// the draw consumes fully written positions.
func (a *App) Draw() {
	slot := a.current
	if slot == nil {
		return
	}
	a.current = nil

	a.perf.StartPhase(telemetry.PhaseUpload)
	a.dots.UploadInstances(slot)

	a.perf.StartPhase(telemetry.PhaseDraw)
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.dots.Draw(slot)

	if a.panel.Visible() {
		if s, changed := a.panel.Draw(); changed {
			a.ApplyConfiguration(s)
		}
	}
	rl.EndDrawing()

	a.finishFrame()
}

// handleInput feeds pointer contacts into the touch store and handles
// window-level keys. The store is written once per frame with the full
// mapping; pointer ids are whatever the platform reports.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.panel.Toggle()
	}

	mapping := make(map[int32]systems.Vec2, systems.MaxTouches)

	count := int(rl.GetTouchPointCount())
	for i := 0; i < count; i++ {
		pos := rl.GetTouchPosition(int32(i))
		mapping[rl.GetTouchPointId(int32(i))] = systems.Vec2{X: pos.X, Y: pos.Y}
	}

	// Mouse acts as a single extra contact unless the settings panel owns it.
	if count == 0 && !a.panel.Visible() && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		mapping[mouseTouchID] = systems.Vec2{X: pos.X, Y: pos.Y}
	}

	a.touches.Set(mapping)
}

// handleResize propagates window size changes into a grid rebuild.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	a.NotifyCanvasResized(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}
