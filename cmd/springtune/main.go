// Package main searches for stiffness/damping pairs that settle the dot
// spring quickly without excessive overshoot, printing YAML-ready values.
//
// Usage: go run ./cmd/springtune -max-evals 400
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/systems"
)

// Search bounds. Values outside these produce either sluggish or unstable
// springs at a 60 Hz timestep.
const (
	minStiffness = 5.0
	maxStiffness = 80.0
	minDamping   = 2.0
	maxDamping   = 40.0

	simDT       = 1.0 / 60.0
	maxSimSteps = 1200 // 20 seconds, treated as failure to settle
)

// settleResult captures one candidate evaluation.
type settleResult struct {
	steps     int     // steps until |offset| stays below 1% of the release amplitude
	overshoot float64 // peak |offset| beyond the release amplitude, in amplitude units
}

// simulate releases a single dot from maximum displacement with no active
// touches and integrates until it settles.
func simulate(stiffness, damping float64, p config.Params) settleResult {
	u := systems.SimUniforms{
		DT:              simDT,
		Stiffness:       float32(stiffness),
		Damping:         float32(damping),
		EffectRadius:    p.EffectRadius,
		MaxDisplacement: p.MaxDisplacement,
		InvMass:         p.InvMass(),
		PixelScale:      1,
	}

	amplitude := float64(p.MaxDisplacement)
	threshold := 0.01 * amplitude

	offset := systems.Vec2{X: p.MaxDisplacement}
	var velocity, target systems.Vec2
	peak := amplitude

	for step := 1; step <= maxSimSteps; step++ {
		offset, velocity = systems.IntegrateSpring(offset, velocity, target, &u)
		mag := float64(offset.Length())
		if mag > peak {
			peak = mag
		}
		if mag < threshold && float64(velocity.Length()) < threshold {
			return settleResult{steps: step, overshoot: (peak - amplitude) / amplitude}
		}
	}
	return settleResult{steps: maxSimSteps, overshoot: (peak - amplitude) / amplitude}
}

// denormalize maps the unit search space onto the physical bounds.
func denormalize(x []float64) (stiffness, damping float64) {
	cx := math.Min(math.Max(x[0], 0), 1)
	cy := math.Min(math.Max(x[1], 0), 1)
	return minStiffness + cx*(maxStiffness-minStiffness),
		minDamping + cy*(maxDamping-minDamping)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxEvals := flag.Int("max-evals", 400, "Maximum number of evaluations")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	base := config.Cfg().BaseParams()

	evals := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evals++
			stiffness, damping := denormalize(x)
			r := simulate(stiffness, damping, base)
			// Settle time dominates; overshoot beyond 20% of the release
			// amplitude is penalized steeply.
			penalty := 0.0
			if r.overshoot > 0.2 {
				penalty = (r.overshoot - 0.2) * 2000
			}
			return float64(r.steps) + penalty
		},
	}

	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	// Start from the configured spring, normalized into the search space.
	initX := []float64{
		(float64(base.Stiffness) - minStiffness) / (maxStiffness - minStiffness),
		(float64(base.Damping) - minDamping) / (maxDamping - minDamping),
	}

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		log.Fatalf("optimization failed: %v", err)
	}

	stiffness, damping := denormalize(result.X)
	r := simulate(stiffness, damping, base)

	fmt.Printf("evaluations: %d\n", evals)
	fmt.Printf("settle time: %d steps (%.2fs), overshoot %.1f%%\n",
		r.steps, float64(r.steps)*simDT, r.overshoot*100)
	fmt.Println("suggested config:")
	fmt.Printf("spring:\n  stiffness: %.1f\n  damping: %.1f\n", stiffness, damping)
}
