package cluster

import "math"

// Noise is the assignment for points no cluster claims.
const Noise = -1

// CosineDistance is 1 - cosine similarity; zero vectors are maximally
// distant from everything.
func CosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// DBSCAN assigns density-based cluster ids without a pre-specified
// cluster count. Points with fewer than minPoints neighbours within eps
// that no cluster reaches stay at Noise. Cluster ids are assigned in
// discovery order; callers renumber as needed.
func DBSCAN(points [][]float64, eps float64, minPoints int) []int {
	const unvisited = -2

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = unvisited
	}

	neighbours := func(idx int) []int {
		var result []int
		for j := range points {
			if j == idx {
				continue
			}
			if CosineDistance(points[idx], points[j]) <= eps {
				result = append(result, j)
			}
		}
		return result
	}

	nextCluster := 0
	for i := range points {
		if assignments[i] != unvisited {
			continue
		}

		seed := neighbours(i)
		if len(seed)+1 < minPoints {
			assignments[i] = Noise
			continue
		}

		clusterID := nextCluster
		nextCluster++
		assignments[i] = clusterID

		// Expand the cluster breadth-first through core points.
		queue := append([]int(nil), seed...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if assignments[j] == Noise {
				assignments[j] = clusterID
				continue
			}
			if assignments[j] != unvisited {
				continue
			}
			assignments[j] = clusterID

			reachable := neighbours(j)
			if len(reachable)+1 >= minPoints {
				queue = append(queue, reachable...)
			}
		}
	}

	for i := range assignments {
		if assignments[i] == unvisited {
			assignments[i] = Noise
		}
	}

	return assignments
}
