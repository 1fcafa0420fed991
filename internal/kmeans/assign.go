package kmeans

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// minParallelSamples is the smallest input worth fanning out over workers.
const minParallelSamples = 4096

// Assign maps every sample to its nearest centroid and reports whether any
// sample's cluster differs from prev. prev may be nil, in which case every
// sample counts as changed.
func Assign(samples []Sample, centroids []Centroid, prev []int) ([]int, bool) {
	if prev == nil {
		prev = make([]int, len(samples))
		for i := range prev {
			prev[i] = Unassigned
		}
	}
	next := make([]int, len(samples))
	return next, assignInto(next, samples, centroids, prev, 1) > 0
}

// Nearest returns the index of the centroid closest to s. Ties go to the
// lowest index.
func Nearest(s Sample, centroids []Centroid) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := distance(s, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// assignInto writes the nearest centroid of each sample into dst and returns
// the number of samples whose index differs from prev.
func assignInto(dst []int, samples []Sample, centroids []Centroid, prev []int, workers int) int {
	n := len(samples)
	if workers <= 1 || n < minParallelSamples {
		return assignRange(dst, samples, centroids, prev, 0, n)
	}

	chunk := (n + workers - 1) / workers
	changes := make([]int, workers)

	var g errgroup.Group
	for w := range workers {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := min(lo+chunk, n)
		g.Go(func() error {
			changes[w] = assignRange(dst, samples, centroids, prev, lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, c := range changes {
		total += c
	}
	return total
}

func assignRange(dst []int, samples []Sample, centroids []Centroid, prev []int, lo, hi int) int {
	changed := 0
	for i := lo; i < hi; i++ {
		nearest := Nearest(samples[i], centroids)
		if prev[i] != nearest {
			changed++
		}
		dst[i] = nearest
	}
	return changed
}

// distance is the Euclidean distance between a sample and a centroid.
// Channel differences are integral, so equal distances compare equal and
// the tie-break stays exact.
func distance(s Sample, c Centroid) float64 {
	return math.Sqrt(squaredDistance(s, c))
}

func squaredDistance(s Sample, c Centroid) float64 {
	dr := float64(s.R) - float64(c.R)
	dg := float64(s.G) - float64(c.G)
	db := float64(s.B) - float64(c.B)
	return dr*dr + dg*dg + db*db
}
