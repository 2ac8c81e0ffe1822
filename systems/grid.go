package systems

import "math"

// minSpacing guards against degenerate lattices from bad input.
const minSpacing = 1.0

// Grid holds the lattice rest positions produced by BuildGrid.
type Grid struct {
	Rest    []Vec2
	Spacing float32 // realized spacing, never below the base spacing
	Cols    int
	Rows    int
}

// BuildGrid computes a row-major, axis-aligned lattice covering the canvas
// plus a one-spacing margin on each side, so edge dots sit fully off-screen.
//
// If the estimated dot count (canvasArea / spacing²) exceeds targetCount, the
// spacing is scaled up by sqrt(estimate/target) so the realized count stays
// at or near the budget. Spacing is never scaled below the base value. The
// result is deterministic for a given (canvas, spacing, targetCount) tuple.
func BuildGrid(canvasW, canvasH, spacing float32, targetCount int) Grid {
	if canvasW < 1 {
		canvasW = 1
	}
	if canvasH < 1 {
		canvasH = 1
	}
	if spacing < minSpacing {
		spacing = minSpacing
	}

	estimate := canvasW * canvasH / (spacing * spacing)
	if targetCount > 0 && estimate > float32(targetCount) {
		spacing *= float32(math.Sqrt(float64(estimate) / float64(targetCount)))
	}

	// One extra spacing unit of coverage on every side.
	cols := int((canvasW+2*spacing)/spacing) + 1
	rows := int((canvasH+2*spacing)/spacing) + 1

	rest := make([]Vec2, 0, cols*rows)
	for r := 0; r < rows; r++ {
		y := -spacing + float32(r)*spacing
		for c := 0; c < cols; c++ {
			rest = append(rest, Vec2{X: -spacing + float32(c)*spacing, Y: y})
		}
	}

	return Grid{Rest: rest, Spacing: spacing, Cols: cols, Rows: rows}
}
