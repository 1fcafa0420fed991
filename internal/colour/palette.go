// Package colour provides colour extraction and palette rendering.
package colour

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/swatch/internal/kmeans"
)

// Palette is the set of representative colours extracted from an image,
// in the order the clustering engine produced them.
type Palette struct {
	Colors []RGB
	// Counts is the number of samples behind each colour. Nil when unknown.
	Counts []int
	// Weights is Counts normalised to sum to 1. Nil when unknown.
	Weights []float64
}

// NewPaletteFromResult builds a palette from a finished clustering run.
func NewPaletteFromResult(res *kmeans.Result) *Palette {
	colors := make([]RGB, len(res.Centroids))
	for i, c := range res.Centroids {
		colors[i] = FromCentroid(c)
	}

	total := 0
	for _, n := range res.Counts {
		total += n
	}
	weights := make([]float64, len(res.Counts))
	if total > 0 {
		for i, n := range res.Counts {
			weights[i] = float64(n) / float64(total)
		}
	}

	return &Palette{
		Colors:  colors,
		Counts:  res.Counts,
		Weights: weights,
	}
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// FromCentroid converts an engine centroid to RGB.
func FromCentroid(c kmeans.Centroid) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// ToHex converts the palette colors to hex strings.
// Returns a slice of hex color codes (e.g., ["#1a2b3c", "#4d5e6f"]).
func (p *Palette) ToHex() []string {
	hexColors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexColors[i] = c.Hex()
	}
	return hexColors
}

// ColorJSON represents a color in JSON output format.
type ColorJSON struct {
	Hex    string  `json:"hex"`
	RGB    RGB     `json:"rgb"`
	Count  *int    `json:"count,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Colors []ColorJSON `json:"colors"`
}

// ToJSON converts the palette to JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	colors := make([]ColorJSON, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = ColorJSON{
			Hex: c.Hex(),
			RGB: c,
		}
		if i < len(p.Counts) {
			n := p.Counts[i]
			colors[i].Count = &n
		}
		if i < len(p.Weights) {
			colors[i].Weight = p.Weights[i]
		}
	}

	paletteJSON := PaletteJSON{
		Count:  len(p.Colors),
		Colors: colors,
	}

	return json.MarshalIndent(paletteJSON, "", "  ")
}
