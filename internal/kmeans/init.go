package kmeans

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Init selects how the first k centroids are chosen.
type Init int

const (
	// InitNaive picks k samples uniformly at random, with replacement.
	// Duplicate seeds are allowed and commonly leave clusters empty.
	InitNaive Init = iota
	// InitKMeansPlusPlus picks each further seed with probability
	// proportional to its squared distance from the nearest existing seed.
	InitKMeansPlusPlus
)

func (i Init) String() string {
	switch i {
	case InitNaive:
		return "naive"
	case InitKMeansPlusPlus:
		return "kmeans++"
	default:
		return fmt.Sprintf("Init(%d)", int(i))
	}
}

// ParseInit converts a CLI/config name into an Init.
func ParseInit(s string) (Init, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naive", "random", "":
		return InitNaive, nil
	case "kmeans++", "kmeanspp", "plusplus":
		return InitKMeansPlusPlus, nil
	default:
		return 0, fmt.Errorf("unknown init method: %s (valid: naive, kmeans++)", s)
	}
}

func initialize(init Init, samples []Sample, k int, rng Rand) ([]Centroid, error) {
	switch init {
	case InitNaive:
		return InitRandom(samples, k, rng)
	case InitKMeansPlusPlus:
		return InitPlusPlus(samples, k, rng)
	default:
		return nil, fmt.Errorf("kmeans: unknown init method %d", int(init))
	}
}

// InitRandom draws k centroids from samples at uniformly random indices
// without checking for duplicates.
func InitRandom(samples []Sample, k int, rng Rand) ([]Centroid, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientData
	}

	centroids := make([]Centroid, 0, k)
	for len(centroids) < k {
		centroids = append(centroids, Centroid(samples[rng.IntN(len(samples))]))
	}
	return centroids, nil
}

// InitPlusPlus seeds centroids with k-means++. Once every sample coincides
// with an existing seed the remaining seeds are drawn uniformly, so
// duplicates are still possible when k exceeds the distinct colour count.
func InitPlusPlus(samples []Sample, k int, rng Rand) ([]Centroid, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientData
	}

	centroids := make([]Centroid, 0, k)
	centroids = append(centroids, Centroid(samples[rng.IntN(len(samples))]))

	weights := make([]float64, len(samples))
	for i, s := range samples {
		weights[i] = squaredDistance(s, centroids[0])
	}
	cumulative := make([]float64, len(samples))

	for len(centroids) < k {
		total := floats.Sum(weights)
		var next Centroid
		if total == 0 {
			next = Centroid(samples[rng.IntN(len(samples))])
		} else {
			floats.CumSum(cumulative, weights)
			target := rng.Float64() * total
			idx := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > target })
			if idx == len(cumulative) {
				idx = len(cumulative) - 1
			}
			next = Centroid(samples[idx])
		}
		centroids = append(centroids, next)

		for i, s := range samples {
			if d := squaredDistance(s, next); d < weights[i] {
				weights[i] = d
			}
		}
	}
	return centroids, nil
}
