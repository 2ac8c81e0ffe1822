package systems

import "github.com/pthm-cable/dotfield/config"

// distanceEpsilon floors the dot-to-touch distance so the direction
// division is always defined, even when a touch lands exactly on a rest
// position.
const distanceEpsilon = 1e-4

// SimUniforms is the per-frame physics parameter block consumed by the
// dispatch kernel. It is derived once per frame and read-only during the
// dispatch; its layout tracks the simulation uniform record shared with
// the renderer side.
type SimUniforms struct {
	DT              float32
	Stiffness       float32
	Damping         float32
	EffectRadius    float32
	MaxDisplacement float32
	InvMass         float32
	PixelScale      float32
	TouchCount      int32
	DotCount        int32
}

// SimUniformsFor derives the per-frame uniforms from the active params.
func SimUniformsFor(p config.Params, dt, pixelScale float32, touchCount int) SimUniforms {
	return SimUniforms{
		DT:              dt,
		Stiffness:       p.Stiffness,
		Damping:         p.Damping,
		EffectRadius:    p.EffectRadius,
		MaxDisplacement: p.MaxDisplacement,
		InvMass:         p.InvMass(),
		PixelScale:      pixelScale,
		TouchCount:      int32(touchCount),
	}
}

// TargetOffset computes the displacement target for a dot at rest from the
// active touches. Each touch inside the effect radius contributes a push
// directed away from it, weighted by 1 - smoothstep(0, effectRadius, d);
// contributions superpose linearly, so opposing touches cancel. The summed
// magnitude is clamped to MaxDisplacement (direction preserved) before the
// spring integrates toward it.
func TargetOffset(rest Vec2, touches []Vec2, u *SimUniforms) Vec2 {
	var sum Vec2
	for t := 0; t < int(u.TouchCount) && t < len(touches); t++ {
		r := rest.Sub(touches[t])
		d := r.Length()
		if d < distanceEpsilon {
			d = distanceEpsilon
		}
		if d >= u.EffectRadius {
			continue
		}
		w := u.MaxDisplacement * (1 - smoothstep(0, u.EffectRadius, d)) / d
		sum.X += r.X * w
		sum.Y += r.Y * w
	}

	if mag := sum.Length(); mag > u.MaxDisplacement {
		return sum.Scale(u.MaxDisplacement / mag)
	}
	return sum
}

// IntegrateSpring advances one dot one step toward target as a damped
// harmonic oscillator using semi-implicit Euler: the velocity update feeds
// the position update within the same step. Explicit Euler diverges at the
// stiffness/damping/timestep combinations this runs with.
//
// If the integrated displacement exceeds MaxDisplacement it is rescaled to
// exactly the bound and the velocity zeroed, so a dot pinned at the boundary
// by a very close touch cannot accumulate runaway oscillation.
func IntegrateSpring(offset, velocity, target Vec2, u *SimUniforms) (Vec2, Vec2) {
	ax := u.InvMass * (-u.Stiffness*(offset.X-target.X) - u.Damping*velocity.X)
	ay := u.InvMass * (-u.Stiffness*(offset.Y-target.Y) - u.Damping*velocity.Y)

	velocity.X += ax * u.DT
	velocity.Y += ay * u.DT
	offset.X += velocity.X * u.DT
	offset.Y += velocity.Y * u.DT

	if mag := offset.Length(); mag > u.MaxDisplacement {
		offset = offset.Scale(u.MaxDisplacement / mag)
		velocity = Vec2{}
	}
	return offset, velocity
}
