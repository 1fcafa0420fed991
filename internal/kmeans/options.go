package kmeans

import (
	"math/rand/v2"

	"github.com/hashicorp/go-hclog"
)

// Rand is the random source used to seed centroids.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

type options struct {
	rng           Rand
	maxIterations int
	init          Init
	workers       int
	logger        hclog.Logger
}

func defaultOptions() options {
	return options{
		rng:           globalRand{},
		maxIterations: MaxIterations,
		init:          InitNaive,
		workers:       1,
		logger:        hclog.NewNullLogger(),
	}
}

// Option configures a clustering run.
type Option func(*options)

// WithRand sets the random source used for seeding.
// A nil source falls back to the shared math/rand/v2 source.
func WithRand(r Rand) Option {
	return func(o *options) {
		if r == nil {
			r = globalRand{}
		}
		o.rng = r
	}
}

// WithSeed seeds a private PCG source, making the run reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) // #nosec G115 -- seed bits are reinterpreted, not range-checked
	}
}

// WithMaxIterations lowers the iteration cap. Values outside
// 1..MaxIterations make Run fail with ErrInvalidIterationCap.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithInit selects the seeding strategy.
func WithInit(init Init) Option {
	return func(o *options) {
		o.init = init
	}
}

// WithWorkers splits the assignment phase across n goroutines.
// Values below 2 keep the run single-threaded.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithLogger sets the logger for run progress. Nil disables logging.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = hclog.NewNullLogger()
		}
		o.logger = l
	}
}
