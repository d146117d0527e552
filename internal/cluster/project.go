package cluster

import (
	"math"
	"math/rand"
)

// projectionSeed keeps the projection matrix identical within a run and
// across runs, so clustering stays deterministic given its input.
const projectionSeed = 42

// Project reduces vectors to targetDims via a seeded Gaussian random
// projection. Inputs already at or below the target pass through.
func Project(vectors [][]float64, targetDims int) [][]float64 {
	if len(vectors) == 0 || targetDims <= 0 || len(vectors[0]) <= targetDims {
		return vectors
	}

	sourceDims := len(vectors[0])
	rng := rand.New(rand.NewSource(projectionSeed))
	scale := 1 / math.Sqrt(float64(targetDims))

	matrix := make([][]float64, targetDims)
	for i := range matrix {
		row := make([]float64, sourceDims)
		for j := range row {
			row[j] = rng.NormFloat64() * scale
		}
		matrix[i] = row
	}

	projected := make([][]float64, len(vectors))
	for v, vec := range vectors {
		out := make([]float64, targetDims)
		for i, row := range matrix {
			var sum float64
			for j := range vec {
				sum += row[j] * vec[j]
			}
			out[i] = sum
		}
		projected[v] = out
	}

	return projected
}
