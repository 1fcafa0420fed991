package image

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/swatch/internal/kmeans"
)

// DefaultScale halves each dimension before sampling.
const DefaultScale = 0.5

// Downscale resizes img by factor using bilinear interpolation. Factors of
// one or more, or non-positive factors, return img unchanged. Each
// dimension is truncated and never drops below one pixel.
func Downscale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor >= 1 {
		return img
	}

	b := img.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Samples returns one sample per pixel in row-major order, channels R, G, B
// taken from the non-premultiplied colour. Alpha is discarded.
func Samples(img image.Image) []kmeans.Sample {
	b := img.Bounds()
	samples := make([]kmeans.Sample, 0, b.Dx()*b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				i := x * 4
				samples = append(samples, kmeans.Sample{R: row[i], G: row[i+1], B: row[i+2]})
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				samples = append(samples, kmeans.Sample{R: c.R, G: c.G, B: c.B})
			}
		}
	}

	return samples
}
