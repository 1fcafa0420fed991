// Package seed derives the random seed used to initialise k-means, so the
// same image can produce the same palette on every run.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"
)

// Mode determines how the seed is chosen.
type Mode string

const (
	// ModeContent hashes the image pixels (default; stable across renames).
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute path or URL.
	ModeFilepath Mode = "filepath"
	// ModeManual uses a caller-supplied value.
	ModeManual Mode = "manual"
	// ModeRandom leaves seeding to the shared random source.
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode
	Value *int64 // only used by ModeManual
}

// Resolve returns the seed for img loaded from imagePath. A nil result
// means the run should not be seeded (ModeRandom).
func Resolve(img image.Image, imagePath string, config Config) (*int64, error) {
	var (
		v   int64
		err error
	)
	switch config.Mode {
	case ModeContent:
		v, err = Content(img)
	case ModeFilepath:
		v, err = Filepath(imagePath)
	case ModeManual:
		if config.Value == nil {
			return nil, fmt.Errorf("seed value is required for manual seed mode")
		}
		v = *config.Value
	case ModeRandom:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Content hashes the image dimensions and a grid of at most ~100x100
// pixels into a seed.
func Content(img image.Image) (int64, error) {
	if img == nil {
		return 0, fmt.Errorf("image cannot be nil")
	}

	bounds := img.Bounds()
	hasher := sha256.New()

	dim := make([]byte, 8)
	binary.LittleEndian.PutUint32(dim[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are non-negative
	binary.LittleEndian.PutUint32(dim[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are non-negative
	hasher.Write(dim)

	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	px := make([]byte, 4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			px[0] = byte(r >> 8)
			px[1] = byte(g >> 8)
			px[2] = byte(b >> 8)
			px[3] = byte(a >> 8)
			hasher.Write(px)
		}
	}

	return sumToSeed(hasher.Sum(nil)), nil
}

// Filepath hashes the absolute form of imagePath into a seed. URLs are
// hashed verbatim.
func Filepath(imagePath string) (int64, error) {
	if imagePath == "" {
		return 0, fmt.Errorf("image path cannot be empty")
	}

	key := imagePath
	if !isURL(imagePath) {
		if abs, err := filepath.Abs(imagePath); err == nil {
			key = abs
		}
	}

	sum := sha256.Sum256([]byte(key))
	return sumToSeed(sum[:]), nil
}

func sumToSeed(sum []byte) int64 {
	return int64(binary.LittleEndian.Uint64(sum[:8])) // #nosec G115 -- hash bits are reinterpreted
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(s))
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: content, filepath, manual, random)", s)
}
