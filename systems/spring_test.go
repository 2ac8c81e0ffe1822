package systems

import (
	"math"
	"testing"
)

func testUniforms(touchCount int) SimUniforms {
	return SimUniforms{
		DT:              1.0 / 60.0,
		Stiffness:       28,
		Damping:         14,
		EffectRadius:    120,
		MaxDisplacement: 24,
		InvMass:         1,
		PixelScale:      1,
		TouchCount:      int32(touchCount),
	}
}

func TestTargetOffset_FalloffMonotonic(t *testing.T) {
	u := testUniforms(1)
	touches := []Vec2{{X: 0, Y: 0}}

	prev := float32(math.Inf(1))
	for d := float32(1); d < u.EffectRadius; d += 1 {
		mag := TargetOffset(Vec2{X: d}, touches, &u).Length()
		if mag > prev {
			t.Fatalf("falloff not monotonic: |Δ*|=%v at d=%v after %v", mag, d, prev)
		}
		prev = mag
	}
}

func TestTargetOffset_ApproachesMaxAtZeroDistance(t *testing.T) {
	u := testUniforms(1)
	touches := []Vec2{{X: 0, Y: 0}}

	mag := TargetOffset(Vec2{X: 1e-6}, touches, &u).Length()
	if math.Abs(float64(mag-u.MaxDisplacement)) > 1e-3 {
		t.Errorf("expected |Δ*| ≈ %v as d→0, got %v", u.MaxDisplacement, mag)
	}
}

func TestTargetOffset_ZeroBeyondEffectRadius(t *testing.T) {
	u := testUniforms(1)
	touches := []Vec2{{X: 0, Y: 0}}

	for _, d := range []float32{120, 121, 500} {
		target := TargetOffset(Vec2{X: d}, touches, &u)
		if target != (Vec2{}) {
			t.Errorf("expected zero target at d=%v, got %v", d, target)
		}
	}
}

func TestTargetOffset_OpposingTouchesCancel(t *testing.T) {
	u := testUniforms(2)
	// Equidistant touches on either side push in opposite directions.
	touches := []Vec2{{X: 10}, {X: -10}}

	mag := TargetOffset(Vec2{}, touches, &u).Length()
	if mag > 1e-5 {
		t.Errorf("expected opposing contributions to cancel, got |Δ*|=%v", mag)
	}
}

func TestTargetOffset_SameDirectionClampedToMax(t *testing.T) {
	u := testUniforms(2)
	// Both touches close by on the same side; raw sum far exceeds the bound.
	touches := []Vec2{{X: 10}, {X: 12}}

	target := TargetOffset(Vec2{}, touches, &u)
	mag := target.Length()

	if math.Abs(float64(mag-u.MaxDisplacement)) > 1e-3 {
		t.Errorf("expected clamped magnitude %v, got %v", u.MaxDisplacement, mag)
	}
	if target.X >= 0 {
		t.Errorf("expected push away from touches (negative X), got %v", target)
	}
}

func TestIntegrateSpring_VelocityFirstOrdering(t *testing.T) {
	u := testUniforms(0)
	offset := Vec2{X: 10}
	velocity := Vec2{X: -3}
	target := Vec2{X: 2}

	// Semi-implicit Euler: the updated velocity feeds the position update.
	ax := u.InvMass * (-u.Stiffness*(offset.X-target.X) - u.Damping*velocity.X)
	wantV := velocity.X + ax*u.DT
	wantX := offset.X + wantV*u.DT

	gotOffset, gotVelocity := IntegrateSpring(offset, velocity, target, &u)
	if gotVelocity.X != wantV {
		t.Errorf("velocity: got %v, want %v", gotVelocity.X, wantV)
	}
	if gotOffset.X != wantX {
		t.Errorf("offset: got %v, want %v", gotOffset.X, wantX)
	}
}

func TestIntegrateSpring_SettlesWithoutGrowth(t *testing.T) {
	u := testUniforms(0)
	initial := u.MaxDisplacement

	offset := Vec2{X: initial}
	var velocity, target Vec2

	settled := -1
	for step := 1; step <= 600; step++ {
		offset, velocity = IntegrateSpring(offset, velocity, target, &u)
		mag := offset.Length()

		if mag > initial+1e-4 {
			t.Fatalf("step %d: |offset|=%v exceeds initial %v", step, mag, initial)
		}
		if settled < 0 && mag < 0.01*initial {
			settled = step
		}
	}

	if settled < 0 {
		t.Fatal("spring did not settle below 1% of release amplitude in 600 steps")
	}
	if settled > 300 {
		t.Errorf("spring settled too slowly: %d steps", settled)
	}
}

func TestIntegrateSpring_ClampZeroesVelocity(t *testing.T) {
	u := testUniforms(0)

	// A large inbound velocity carries the offset past the bound.
	offset, velocity := IntegrateSpring(Vec2{X: 23}, Vec2{X: 200}, Vec2{}, &u)

	mag := offset.Length()
	if float64(mag) > float64(u.MaxDisplacement)*(1+1e-6) {
		t.Errorf("clamped |offset|=%v exceeds bound %v", mag, u.MaxDisplacement)
	}
	if math.Abs(float64(mag-u.MaxDisplacement)) > 1e-3 {
		t.Errorf("expected |offset| pinned at %v, got %v", u.MaxDisplacement, mag)
	}
	if velocity != (Vec2{}) {
		t.Errorf("expected zeroed velocity at the boundary, got %v", velocity)
	}
}
