// Package config holds the extract settings and layers them: built-in
// defaults, then SWATCH_* environment variables, then explicit flags.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/kmeans"
	"github.com/jmylchreest/swatch/internal/seed"
)

// EnvPrefix prefixes every environment variable swatch reads.
const EnvPrefix = "SWATCH_"

// Config is the full set of extract settings.
type Config struct {
	Colours       int
	Algorithm     string
	Format        string
	Output        string
	Preview       string
	Scale         float64
	MaxIterations int
	Init          string
	Workers       int
	SeedMode      string
	Seed          int64
	Cache         bool
	CacheDir      string
	CacheMaxAge   time.Duration
	RefreshCache  bool
	AllowPrivate  bool
}

// Default returns the built-in settings: five colours from a half-size
// copy of the image, as the browser tool did.
func Default() Config {
	return Config{
		Colours:       5,
		Algorithm:     string(colour.AlgorithmKMeans),
		Format:        "hex",
		Preview:       "auto",
		Scale:         image.DefaultScale,
		MaxIterations: kmeans.MaxIterations,
		Init:          kmeans.InitNaive.String(),
		Workers:       1,
		SeedMode:      string(seed.ModeContent),
	}
}

// ValidFormats lists the accepted output formats.
func ValidFormats() []string {
	return []string{"hex", "rgb", "json", "table"}
}

// RegisterFlags binds c's fields to flags on fs.
func RegisterFlags(fs *pflag.FlagSet, c *Config) {
	fs.IntVarP(&c.Colours, "colours", "c", c.Colours, "number of colours to extract (1-256)")
	fs.StringVarP(&c.Algorithm, "algorithm", "a", c.Algorithm, "extraction algorithm (kmeans)")
	fs.StringVarP(&c.Format, "format", "f", c.Format, "output format (hex, rgb, json, table)")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output file (default: stdout)")
	fs.StringVar(&c.Preview, "preview", c.Preview, "show colour swatches (auto, always, never)")
	fs.Float64Var(&c.Scale, "scale", c.Scale, "resize factor applied before sampling (0-1, 1 keeps every pixel)")
	fs.IntVar(&c.MaxIterations, "max-iterations", c.MaxIterations, "iteration cap (1-100)")
	fs.StringVar(&c.Init, "init", c.Init, "centroid seeding (naive, kmeans++)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines used for the assignment step")
	fs.StringVar(&c.SeedMode, "seed-mode", c.SeedMode, "seed mode: content, filepath, manual, random")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed value (implies --seed-mode=manual)")
	fs.BoolVar(&c.Cache, "cache", c.Cache, "cache images fetched from URLs")
	fs.StringVar(&c.CacheDir, "cache-dir", c.CacheDir, "image cache directory (default: user cache dir)")
	fs.DurationVar(&c.CacheMaxAge, "cache-max-age", c.CacheMaxAge, "refetch cached images older than this (0 keeps them forever)")
	fs.BoolVar(&c.RefreshCache, "refresh-cache", c.RefreshCache, "refetch cached images even when fresh")
	fs.BoolVar(&c.AllowPrivate, "allow-private-hosts", c.AllowPrivate, "allow URLs pointing at loopback or private addresses")
}

type envBinding struct {
	env  string
	flag string
}

var envBindings = []envBinding{
	{EnvPrefix + "COLOURS", "colours"},
	{EnvPrefix + "FORMAT", "format"},
	{EnvPrefix + "PREVIEW", "preview"},
	{EnvPrefix + "SCALE", "scale"},
	{EnvPrefix + "MAX_ITERATIONS", "max-iterations"},
	{EnvPrefix + "INIT", "init"},
	{EnvPrefix + "WORKERS", "workers"},
	{EnvPrefix + "SEED_MODE", "seed-mode"},
	{EnvPrefix + "SEED", "seed"},
	{EnvPrefix + "CACHE", "cache"},
	{EnvPrefix + "CACHE_DIR", "cache-dir"},
	{EnvPrefix + "CACHE_MAX_AGE", "cache-max-age"},
	{EnvPrefix + "REFRESH_CACHE", "refresh-cache"},
	{EnvPrefix + "ALLOW_PRIVATE_HOSTS", "allow-private-hosts"},
}

// ApplyEnv sets every flag that was not given on the command line from its
// SWATCH_* variable, if present. lookup is normally os.LookupEnv.
func ApplyEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(b.env)
		if !ok || v == "" {
			continue
		}
		f := fs.Lookup(b.flag)
		if f == nil || f.Changed {
			continue
		}
		if err := fs.Set(b.flag, v); err != nil {
			return fmt.Errorf("invalid %s: %w", b.env, err)
		}
	}
	return nil
}

// Validate checks every setting and returns the first problem found.
func (c Config) Validate() error {
	ec := colour.ExtractorConfig{
		Algorithm:  colour.Algorithm(c.Algorithm),
		ColorCount: c.Colours,
	}
	if err := ec.Validate(); err != nil {
		return err
	}
	if !slices.Contains(ValidFormats(), c.Format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", c.Format, strings.Join(ValidFormats(), ", "))
	}
	switch c.Preview {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid preview mode: %s (valid: auto, always, never)", c.Preview)
	}
	if c.Scale <= 0 || c.Scale > 1 {
		return fmt.Errorf("scale must be in (0, 1], got %g", c.Scale)
	}
	if c.MaxIterations < 1 || c.MaxIterations > kmeans.MaxIterations {
		return fmt.Errorf("max iterations must be between 1 and %d, got %d", kmeans.MaxIterations, c.MaxIterations)
	}
	if _, err := kmeans.ParseInit(c.Init); err != nil {
		return err
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("cache max age cannot be negative, got %s", c.CacheMaxAge)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := seed.ParseMode(c.SeedMode); err != nil {
		return err
	}
	return nil
}

// SeedConfig returns the seed configuration the settings describe.
func (c Config) SeedConfig() seed.Config {
	mode, _ := seed.ParseMode(c.SeedMode)
	cfg := seed.Config{Mode: mode}
	if mode == seed.ModeManual {
		v := c.Seed
		cfg.Value = &v
	}
	return cfg
}
