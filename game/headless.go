package game

import (
	"math"

	"github.com/pthm-cable/dotfield/systems"
)

// Headless drive: one scripted contact orbiting the canvas center, used for
// perf soak runs without a window.
const (
	orbitPeriod = 4.0  // seconds per revolution
	orbitRadius = 0.25 // fraction of the smaller canvas edge
)

// UpdateHeadless advances one frame at the nominal timestep.
func (a *App) UpdateHeadless() {
	dt := a.cfg.Derived.DT32

	r := orbitRadius * float64(min(a.canvasW, a.canvasH))
	angle := 2 * math.Pi * a.elapsed / orbitPeriod
	a.touches.Set(map[int32]systems.Vec2{
		0: {
			X: a.canvasW/2 + float32(r*math.Cos(angle)),
			Y: a.canvasH/2 + float32(r*math.Sin(angle)),
		},
	})

	a.step(dt)
	a.finishFrame()
}
