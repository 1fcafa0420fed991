package colour

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	imgutil "github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/kmeans"
)

// KMeansExtractor implements color extraction using k-means clustering.
type KMeansExtractor struct {
	opts   ExtractorOptions
	logger hclog.Logger
}

// NewKMeansExtractor creates a KMeansExtractor.
func NewKMeansExtractor(opts ExtractorOptions) *KMeansExtractor {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &KMeansExtractor{
		opts:   opts,
		logger: logger.Named("kmeans"),
	}
}

// Extract clusters the image's pixels into exactly count colours. The
// palette keeps the engine's centroid order, so empty clusters show up as
// black entries rather than being dropped.
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 {
		return nil, fmt.Errorf("color count must be at least 1, got %d", count)
	}
	if count > MaxColours {
		return nil, fmt.Errorf("color count too large: %d (maximum: %d)", count, MaxColours)
	}

	if e.opts.Scale > 0 && e.opts.Scale != 1 {
		before := img.Bounds()
		img = imgutil.Downscale(img, e.opts.Scale)
		e.logger.Debug("downscaled image", "from", before.Size().String(), "to", img.Bounds().Size().String())
	}

	samples := imgutil.Samples(img)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no pixels found in image: %w", kmeans.ErrInsufficientData)
	}

	res, err := kmeans.Run(samples, count, e.runOptions()...)
	if err != nil {
		return nil, fmt.Errorf("k-means clustering failed: %w", err)
	}

	e.logger.Debug("clustered image",
		"samples", len(samples),
		"colours", count,
		"iterations", res.Iterations,
		"outcome", res.Outcome.String(),
	)

	return NewPaletteFromResult(res), nil
}

func (e *KMeansExtractor) runOptions() []kmeans.Option {
	opts := []kmeans.Option{
		kmeans.WithInit(e.opts.Init),
		kmeans.WithWorkers(e.opts.Workers),
		kmeans.WithLogger(e.logger),
	}
	if e.opts.Seed != nil {
		opts = append(opts, kmeans.WithSeed(*e.opts.Seed))
	}
	if e.opts.MaxIterations > 0 {
		opts = append(opts, kmeans.WithMaxIterations(e.opts.MaxIterations))
	}
	return opts
}
