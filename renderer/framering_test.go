package renderer

import (
	"testing"
	"time"

	"github.com/pthm-cable/dotfield/config"
)

func TestFrameRing_RoundRobin(t *testing.T) {
	r, err := NewFrameRing(3, 16, 64)
	if err != nil {
		t.Fatalf("failed to create ring: %v", err)
	}
	if r.SlotCount() != 3 {
		t.Fatalf("expected 3 slots, got %d", r.SlotCount())
	}

	var first [3]*FrameSlot
	for i := range first {
		first[i] = r.Acquire()
		r.Release()
	}
	for i := 0; i < 3; i++ {
		if got := r.Acquire(); got != first[i] {
			t.Errorf("frame %d did not revisit slot %d in order", 3+i, i)
		}
		r.Release()
	}

	// Distinct slots within one rotation.
	if first[0] == first[1] || first[1] == first[2] || first[0] == first[2] {
		t.Error("rotation handed out the same slot twice")
	}
}

func TestFrameRing_GateBoundsInFlightFrames(t *testing.T) {
	r, err := NewFrameRing(2, 16, 64)
	if err != nil {
		t.Fatalf("failed to create ring: %v", err)
	}

	r.Acquire()
	r.Acquire()

	// Both tokens held: a third frame must wait for a release.
	acquired := make(chan struct{})
	go func() {
		r.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("third acquire proceeded with both slots in flight")
	case <-time.After(50 * time.Millisecond):
	}

	r.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire did not proceed after release")
	}
}

func TestFrameRing_ResizeReplacesAllSlots(t *testing.T) {
	r, err := NewFrameRing(3, 16, 64)
	if err != nil {
		t.Fatalf("failed to create ring: %v", err)
	}

	slot := r.Acquire()
	slot.Count = 16
	r.Release()

	if err := r.Resize(40); err != nil {
		t.Fatalf("resize within ceiling failed: %v", err)
	}
	if r.Capacity() != 40 {
		t.Errorf("capacity %d after resize, want 40", r.Capacity())
	}

	for i := 0; i < r.SlotCount(); i++ {
		s := r.Acquire()
		if len(s.Positions) != 40 || len(s.Transforms) != 40 {
			t.Errorf("slot buffers not resized: %d/%d", len(s.Positions), len(s.Transforms))
		}
		if s.Count != 0 {
			t.Errorf("slot count not reset after resize: %d", s.Count)
		}
		r.Release()
	}
}

func TestFrameRing_GrowthPastCeilingFails(t *testing.T) {
	r, err := NewFrameRing(3, 16, 32)
	if err != nil {
		t.Fatalf("failed to create ring: %v", err)
	}

	if err := r.Resize(33); err == nil {
		t.Fatal("expected error growing past the ceiling")
	}
	// Failed growth leaves the previous capacity serving.
	if r.Capacity() != 16 {
		t.Errorf("capacity changed after failed resize: %d", r.Capacity())
	}
	slot := r.Acquire()
	if len(slot.Positions) != 16 {
		t.Errorf("slot buffers changed after failed resize: %d", len(slot.Positions))
	}
	r.Release()
}

func TestFrameRing_ClampsSlotCount(t *testing.T) {
	r, err := NewFrameRing(0, 8, 8)
	if err != nil {
		t.Fatalf("failed to create ring: %v", err)
	}
	if r.SlotCount() != 1 {
		t.Errorf("expected slot count clamped to 1, got %d", r.SlotCount())
	}
}

func TestFrameUniformsFor(t *testing.T) {
	p := config.Params{DotDiameter: 4, Spacing: 10, EffectRadius: 120, MaxDisplacement: 24}
	g := Preset(0)

	u := FrameUniformsFor(p, g, 780, 1688, 2, 10, false)

	if u.DotRadius != 4 {
		t.Errorf("radius %v, want diameter/2 * pixelScale = 4", u.DotRadius)
	}
	if u.Smoothing != u.DotRadius*0.4 {
		t.Errorf("smoothing %v, want %v", u.Smoothing, u.DotRadius*0.4)
	}
	if u.StopCount != int32(len(g.Stops)) {
		t.Errorf("stop count %d, want %d", u.StopCount, len(g.Stops))
	}
	if u.DriftStrength != 1 {
		t.Errorf("drift strength %v, want 1", u.DriftStrength)
	}

	// Tiny dots keep a minimum feather so edges stay resolvable.
	small := p
	small.DotDiameter = 1
	if su := FrameUniformsFor(small, g, 780, 1688, 1, 0, false); su.Smoothing != 0.5 {
		t.Errorf("smoothing floor not applied: %v", su.Smoothing)
	}
}

func TestFrameUniformsReducedMotionFreezesAxis(t *testing.T) {
	p := config.Params{DotDiameter: 4}
	g := Preset(0)

	u := FrameUniformsFor(p, g, 390, 844, 1, 7.3, true)

	if u.DriftStrength != 0 {
		t.Errorf("drift strength %v under reduced motion, want 0", u.DriftStrength)
	}
	if u.GradientStart != g.Start || u.GradientEnd != g.End {
		t.Errorf("axis moved under reduced motion: %v -> %v", u.GradientStart, u.GradientEnd)
	}
}
