package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineDistance(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, CosineDistance([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 1, CosineDistance([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, 2, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.InDelta(t, 1, CosineDistance([]float64{0, 0}, []float64{1, 1}), 1e-9)
}

func TestDBSCANTwoClustersAndNoise(t *testing.T) {
	t.Parallel()

	// Two tight direction groups plus one outlier between them.
	points := [][]float64{
		{1, 0.01}, {1, 0.02}, {1, -0.01},
		{0.01, 1}, {0.02, 1}, {-0.01, 1},
		{1, 1},
	}

	assignments := DBSCAN(points, 0.05, 3)
	require.Len(t, assignments, len(points))

	assert.Equal(t, assignments[0], assignments[1])
	assert.Equal(t, assignments[0], assignments[2])
	assert.Equal(t, assignments[3], assignments[4])
	assert.Equal(t, assignments[3], assignments[5])
	assert.NotEqual(t, assignments[0], assignments[3])
	assert.Equal(t, Noise, assignments[6])
}

func TestDBSCANAllNoise(t *testing.T) {
	t.Parallel()

	points := [][]float64{{1, 0}, {0, 1}, {-1, 0}}
	assignments := DBSCAN(points, 0.01, 2)

	for _, a := range assignments {
		assert.Equal(t, Noise, a)
	}
}

func TestDBSCANEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DBSCAN(nil, 0.3, 5))
}

func TestProjectReducesDimensions(t *testing.T) {
	t.Parallel()

	vectors := [][]float64{
		{1, 0, 0, 0, 0, 0, 0, 0},
		{0, 1, 0, 0, 0, 0, 0, 0},
	}

	reduced := Project(vectors, 3)
	require.Len(t, reduced, 2)
	assert.Len(t, reduced[0], 3)

	// Seeded projection is deterministic.
	again := Project(vectors, 3)
	assert.Equal(t, reduced, again)
}

func TestProjectPassThrough(t *testing.T) {
	t.Parallel()

	vectors := [][]float64{{1, 2}}
	assert.Equal(t, vectors, Project(vectors, 5))
}
