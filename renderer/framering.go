package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/systems"
)

// FrameUniforms is the per-frame render parameter block. It is derived once
// per frame and read-only to the draw path.
type FrameUniforms struct {
	CanvasW       float32 // pixels
	CanvasH       float32 // pixels
	DotRadius     float32 // pixels
	Smoothing     float32 // edge feather in pixels, scales with the radius
	GradientStart [2]float32
	GradientEnd   [2]float32
	Time          float32
	DriftStrength float32
	StopCount     int32
	Stops         [MaxGradientStops]float32
	Colors        [MaxGradientStops][4]float32
}

// FrameUniformsFor derives the frame uniforms from the active params,
// gradient preset, and clock. Reduced motion zeroes the drift strength,
// freezing the gradient axis.
func FrameUniformsFor(p config.Params, g GradientPreset, canvasW, canvasH, pixelScale, time float32, reducedMotion bool) FrameUniforms {
	radius := p.DotDiameter / 2 * pixelScale
	smoothing := radius * 0.4
	if smoothing < 0.5 {
		smoothing = 0.5
	}

	drift := float32(1)
	if reducedMotion {
		drift = 0
	}
	start, end := g.AxisAt(time, drift)

	u := FrameUniforms{
		CanvasW:       canvasW,
		CanvasH:       canvasH,
		DotRadius:     radius,
		Smoothing:     smoothing,
		GradientStart: start,
		GradientEnd:   end,
		Time:          time,
		DriftStrength: drift,
		StopCount:     int32(len(g.Stops)),
	}
	for i := 0; i < len(g.Stops) && i < MaxGradientStops; i++ {
		u.Stops[i] = g.Stops[i].Pos
		u.Colors[i] = g.Stops[i].Color
	}
	return u
}

// FrameSlot is one copy of every per-frame record set: frame uniforms,
// simulation uniforms, instance positions and transforms, and the touch
// snapshot. A slot is bound exclusively for one frame's write-then-read
// sequence.
type FrameSlot struct {
	Uniforms   FrameUniforms
	Sim        systems.SimUniforms
	Positions  []systems.Vec2
	Transforms []rl.Matrix
	Touches    [systems.MaxTouches]systems.Vec2
	TouchCount int
	Count      int // dot instances valid this frame
}

// FrameRing rotates N identically-shaped frame slots in round-robin order,
// paired with a counting admission gate sized to N. A new frame only begins
// once an earlier in-flight frame has released its slot, so the CPU can
// prepare frame k+1 while frame k's buffers are still being consumed without
// either side observing a half-written record, and without unbounded queuing
// when the device falls behind.
type FrameRing struct {
	slots       []FrameSlot
	gate        chan struct{}
	frame       uint64
	capacity    int
	maxCapacity int
}

// NewFrameRing creates a ring of inFlight slots, each sized for capacity
// instances. maxCapacity bounds later growth.
func NewFrameRing(inFlight, capacity, maxCapacity int) (*FrameRing, error) {
	if inFlight < 1 {
		inFlight = 1
	}
	if maxCapacity < capacity {
		maxCapacity = capacity
	}

	r := &FrameRing{
		slots:       make([]FrameSlot, inFlight),
		gate:        make(chan struct{}, inFlight),
		maxCapacity: maxCapacity,
	}
	for i := 0; i < inFlight; i++ {
		r.gate <- struct{}{}
	}
	if err := r.Resize(capacity); err != nil {
		return nil, err
	}
	return r, nil
}

// Acquire blocks until a slot is admitted, then returns the next slot in
// round-robin order. Every Acquire must be paired with a Release once the
// frame's buffers are no longer in use.
func (r *FrameRing) Acquire() *FrameSlot {
	<-r.gate
	slot := &r.slots[r.frame%uint64(len(r.slots))]
	r.frame++
	return slot
}

// Release returns one admission token, marking an in-flight frame complete.
func (r *FrameRing) Release() {
	r.gate <- struct{}{}
}

// Resize replaces the instance storage of all slots at once, sized for n
// instances. Growth beyond the configured ceiling fails so the caller can
// keep serving the previous capacity instead of crashing.
func (r *FrameRing) Resize(n int) error {
	if n < 0 {
		n = 0
	}
	if n > r.maxCapacity {
		return fmt.Errorf("frame ring: %d instances exceeds capacity ceiling %d", n, r.maxCapacity)
	}

	for i := range r.slots {
		r.slots[i].Positions = make([]systems.Vec2, n)
		r.slots[i].Transforms = make([]rl.Matrix, n)
		r.slots[i].Count = 0
	}
	r.capacity = n
	return nil
}

// Capacity returns the per-slot instance capacity.
func (r *FrameRing) Capacity() int {
	return r.capacity
}

// SlotCount returns the number of buffered frame copies.
func (r *FrameRing) SlotCount() int {
	return len(r.slots)
}
