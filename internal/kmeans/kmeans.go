package kmeans

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// MaxIterations is the hard upper bound on assign/recompute cycles.
	MaxIterations = 100

	// Unassigned marks a sample that has not been assigned to any centroid.
	Unassigned = -1
)

var (
	// ErrInsufficientData is returned when there are no samples to cluster.
	ErrInsufficientData = errors.New("kmeans: no samples to cluster")

	// ErrInvalidClusterCount is returned when k is not positive.
	ErrInvalidClusterCount = errors.New("kmeans: cluster count must be at least 1")

	// ErrInvalidIterationCap is returned when the iteration cap is outside 1..MaxIterations.
	ErrInvalidIterationCap = errors.New("kmeans: iteration cap out of range")
)

// Sample is one pixel's colour.
type Sample struct {
	R, G, B uint8
}

// Centroid is the rounded mean colour of the samples assigned to a cluster.
type Centroid struct {
	R, G, B uint8
}

// Outcome records which terminal state ended a run.
type Outcome int

const (
	// Stable means no sample changed cluster in the last iteration.
	Stable Outcome = iota + 1
	// IterationCapReached means the run stopped at the iteration cap.
	IterationCapReached
)

func (o Outcome) String() string {
	switch o {
	case Stable:
		return "stable"
	case IterationCapReached:
		return "iteration-cap"
	default:
		return "unknown"
	}
}

// Result is the full output of a run.
type Result struct {
	// Centroids holds exactly k colours, in cluster index order.
	Centroids []Centroid
	// Assignments maps each sample index to its final cluster.
	Assignments []int
	// Counts is the number of samples in each cluster at the last recomputation.
	Counts []int
	// Iterations is the number of assign/recompute cycles that ran.
	Iterations int
	Outcome    Outcome
	// Inertia is the sum of squared distances from each sample to its centroid.
	Inertia float64
}

// Cluster partitions samples into k clusters and returns their centroids.
func Cluster(samples []Sample, k int, opts ...Option) ([]Centroid, error) {
	res, err := Run(samples, k, opts...)
	if err != nil {
		return nil, err
	}
	return res.Centroids, nil
}

// Run is Cluster with the run's bookkeeping attached.
func Run(samples []Sample, k int, opts ...Option) (*Result, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientData
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidClusterCount, k)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxIterations < 1 || o.maxIterations > MaxIterations {
		return nil, fmt.Errorf("%w: got %d (valid: 1-%d)", ErrInvalidIterationCap, o.maxIterations, MaxIterations)
	}

	logger := o.logger
	logger.Debug("starting run", "samples", len(samples), "k", k, "init", o.init.String(), "workers", o.workers)

	centroids, err := initialize(o.init, samples, k, o.rng)
	if err != nil {
		return nil, err
	}

	state := NewState(centroids, len(samples))
	res := &Result{Outcome: IterationCapReached}
	for res.Iterations < o.maxIterations {
		res.Iterations++
		changed := state.Step(samples, o.workers)
		logger.Trace("iteration", "n", res.Iterations, "changed", changed)
		if changed == 0 {
			res.Outcome = Stable
			break
		}
	}

	res.Centroids = state.Centroids
	res.Assignments = state.Assignments
	res.Counts = state.Counts
	res.Inertia = inertia(samples, state.Centroids, state.Assignments)

	logger.Debug("run finished", "outcome", res.Outcome.String(), "iterations", res.Iterations, "inertia", res.Inertia)
	return res, nil
}

// State is the mutable part of a run: the current centroids and the
// assignment of every sample to one of them.
type State struct {
	Centroids   []Centroid
	Assignments []int
	Counts      []int

	scratch []int
}

// NewState creates a state for n samples with every sample unassigned.
func NewState(centroids []Centroid, n int) *State {
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = Unassigned
	}
	return &State{
		Centroids:   centroids,
		Assignments: assignments,
		Counts:      make([]int, len(centroids)),
		scratch:     make([]int, n),
	}
}

// Step runs one assign/recompute cycle and returns the number of samples
// whose cluster changed.
func (s *State) Step(samples []Sample, workers int) int {
	changed := assignInto(s.scratch, samples, s.Centroids, s.Assignments, workers)
	s.Assignments, s.scratch = s.scratch, s.Assignments
	s.Centroids, s.Counts = Recompute(samples, s.Assignments, len(s.Centroids))
	return changed
}

// Recompute returns the rounded component-wise mean of the samples assigned
// to each of the k clusters, along with each cluster's size. A cluster with
// no samples divides by one and so comes out black.
func Recompute(samples []Sample, assignments []int, k int) ([]Centroid, []int) {
	sums := make([][3]int, k)
	counts := make([]int, k)
	for i, s := range samples {
		c := assignments[i]
		if c < 0 || c >= k {
			continue
		}
		sums[c][0] += int(s.R)
		sums[c][1] += int(s.G)
		sums[c][2] += int(s.B)
		counts[c]++
	}

	centroids := make([]Centroid, k)
	for i := range k {
		n := max(counts[i], 1)
		centroids[i] = Centroid{
			R: mean(sums[i][0], n),
			G: mean(sums[i][1], n),
			B: mean(sums[i][2], n),
		}
	}
	return centroids, counts
}

// mean rounds half away from zero.
func mean(sum, n int) uint8 {
	return uint8(math.Round(float64(sum) / float64(n)))
}

func inertia(samples []Sample, centroids []Centroid, assignments []int) float64 {
	var total float64
	var p, c [3]float64
	for i, s := range samples {
		idx := assignments[i]
		if idx < 0 || idx >= len(centroids) {
			continue
		}
		p = [3]float64{float64(s.R), float64(s.G), float64(s.B)}
		cc := centroids[idx]
		c = [3]float64{float64(cc.R), float64(cc.G), float64(cc.B)}
		d := floats.Distance(p[:], c[:], 2)
		total += d * d
	}
	return total
}
