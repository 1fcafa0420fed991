package colour

import (
	"fmt"
	"image"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/kmeans"
)

// MaxColours is the largest palette the extractor will produce.
const MaxColours = 256

// Extractor defines the interface for color extraction algorithms.
type Extractor interface {
	// Extract extracts a color palette from an image.
	// The count parameter specifies the number of colors to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the color extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses k-means clustering for color extraction.
	AlgorithmKMeans Algorithm = "kmeans"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// ExtractorOptions tunes how an extractor runs.
type ExtractorOptions struct {
	// Seed makes the run reproducible. Nil draws from the shared source.
	Seed *int64
	// MaxIterations caps assign/recompute cycles. Zero means kmeans.MaxIterations.
	MaxIterations int
	Init          kmeans.Init
	// Workers splits the assignment phase. Zero or one runs serially.
	Workers int
	// Scale resizes the image before sampling. Zero or one samples every pixel.
	Scale  float64
	Logger hclog.Logger
}

// NewExtractor creates a new Extractor based on the specified algorithm.
// Returns an error if the algorithm is not recognized.
func NewExtractor(alg Algorithm, opts ExtractorOptions) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeansExtractor(opts), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	Algorithm  Algorithm
	ColorCount int
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:  AlgorithmKMeans,
		ColorCount: 5,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s", c.Algorithm)
	}
	if c.ColorCount < 1 {
		return fmt.Errorf("color count must be at least 1, got %d", c.ColorCount)
	}
	if c.ColorCount > MaxColours {
		return fmt.Errorf("color count too large: %d (maximum: %d)", c.ColorCount, MaxColours)
	}
	return nil
}
