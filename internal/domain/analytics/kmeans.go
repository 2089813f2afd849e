package analytics

import (
	"fmt"
	"math"
	"math/rand"
)

// KMeans partitions points around k centroids, keeping the best of several
// seeded k-means++ restarts.
type KMeans struct {
	K       int
	Inits   int
	MaxIter int
	// Tol is relative to the mean per-dimension variance of the data.
	Tol  float64
	Seed int64
}

// DefaultKMeans returns the standard restart and convergence settings for k.
func DefaultKMeans(k int) KMeans {
	return KMeans{K: k, Inits: 10, MaxIter: 300, Tol: 1e-4, Seed: 42}
}

// ClusterCount picks k for n points: round(sqrt(n)) clamped to [2,6] and
// never more than n.
func ClusterCount(n int) int {
	k := int(math.Round(math.Sqrt(float64(n))))
	k = max(2, min(6, k))
	return min(k, n)
}

// Fit returns one cluster label per point.
func (km KMeans) Fit(points [][]float64) ([]int, error) {
	n := len(points)
	if km.K < 1 || n < km.K {
		return nil, fmt.Errorf("%w: k=%d n=%d", ErrTooFewPoints, km.K, n)
	}
	d := len(points[0])
	for i, p := range points {
		if len(p) != d {
			return nil, fmt.Errorf("%w: row %d has %d dims, want %d", ErrClustering, i, len(p), d)
		}
	}

	tol := km.Tol * meanVariance(points)
	rng := rand.New(rand.NewSource(km.Seed)) //nolint:gosec // reproducible clustering

	var (
		bestLabels  []int
		bestInertia = math.Inf(1)
	)
	for run := 0; run < max(1, km.Inits); run++ {
		centers := km.seed(points, rng)
		labels, inertia := km.lloyd(points, centers, tol)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	if bestLabels == nil {
		return nil, fmt.Errorf("%w: no finite solution", ErrClustering)
	}
	return bestLabels, nil
}

// seed picks initial centers with k-means++.
func (km KMeans) seed(points [][]float64, rng *rand.Rand) [][]float64 {
	n := len(points)
	centers := make([][]float64, 0, km.K)
	centers = append(centers, clone(points[rng.Intn(n)]))

	dist := make([]float64, n)
	for i, p := range points {
		dist[i] = sqDist(p, centers[0])
	}
	for len(centers) < km.K {
		var total float64
		for _, v := range dist {
			total += v
		}
		next := rng.Intn(n)
		if total > 0 {
			r := rng.Float64() * total
			for i, v := range dist {
				r -= v
				if r <= 0 {
					next = i
					break
				}
			}
		}
		c := clone(points[next])
		centers = append(centers, c)
		for i, p := range points {
			dist[i] = math.Min(dist[i], sqDist(p, c))
		}
	}
	return centers
}

// lloyd refines centers until their total shift is within tol.
func (km KMeans) lloyd(points, centers [][]float64, tol float64) ([]int, float64) {
	labels := make([]int, len(points))
	d := len(points[0])
	for iter := 0; iter < max(1, km.MaxIter); iter++ {
		assign(points, centers, labels)

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for c := range sums {
			sums[c] = make([]float64, d)
		}
		for i, p := range points {
			counts[labels[i]]++
			for j, v := range p {
				sums[labels[i]][j] += v
			}
		}
		var shift float64
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			shift += sqDist(centers[c], sums[c])
			centers[c] = sums[c]
		}
		if shift <= tol {
			break
		}
	}
	inertia := assign(points, centers, labels)
	return labels, inertia
}

// assign labels each point with its nearest center and returns the inertia.
func assign(points, centers [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, center := range centers {
			if dd := sqDist(p, center); dd < bestDist {
				best, bestDist = c, dd
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

func meanVariance(points [][]float64) float64 {
	n := float64(len(points))
	d := len(points[0])
	if d == 0 {
		return 0
	}
	var total float64
	for j := 0; j < d; j++ {
		var mean float64
		for _, p := range points {
			mean += p[j]
		}
		mean /= n
		var v float64
		for _, p := range points {
			v += (p[j] - mean) * (p[j] - mean)
		}
		total += v / n
	}
	return total / float64(d)
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		diff := a[i] - b[i]
		s += diff * diff
	}
	return s
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
