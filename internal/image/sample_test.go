package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/swatch/internal/kmeans"
)

func TestSamples_RowMajor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 2, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 3, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 4, G: 5, B: 6, A: 0})

	got := Samples(img)
	want := []kmeans.Sample{{R: 1}, {G: 2}, {B: 3}, {R: 4, G: 5, B: 6}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSamples_SubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.SetNRGBA(2, 2, color.NRGBA{R: 9, G: 9, B: 9, A: 255})

	sub := img.SubImage(image.Rect(1, 1, 3, 3))
	got := Samples(sub)
	if len(got) != 4 {
		t.Fatalf("Expected 4 samples, got %d", len(got))
	}
	if got[3] != (kmeans.Sample{R: 9, G: 9, B: 9}) {
		t.Errorf("last sample = %v", got[3])
	}
}

func TestSamples_OtherModels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 77})

	got := Samples(gray)
	if len(got) != 1 || got[0] != (kmeans.Sample{R: 77, G: 77, B: 77}) {
		t.Errorf("Samples(gray) = %v", got)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if got := Samples(rgba); got[0] != (kmeans.Sample{R: 10, G: 20, B: 30}) {
		t.Errorf("Samples(rgba) = %v", got)
	}
}

func TestDownscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 101, 51))

	tests := []struct {
		name   string
		factor float64
		w, h   int
	}{
		{"half", 0.5, 50, 25},
		{"tiny", 0.001, 1, 1},
		{"identity", 1, 101, 51},
		{"upscale ignored", 2, 101, 51},
		{"zero ignored", 0, 101, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Downscale(img, tt.factor).Bounds()
			if b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("Downscale(%v) = %dx%d, want %dx%d", tt.factor, b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestDownscale_SolidColour(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	near := func(a, b uint8) bool { return a-b <= 1 || b-a <= 1 }
	for _, s := range Samples(Downscale(img, DefaultScale)) {
		if !near(s.R, 200) || !near(s.G, 100) || !near(s.B, 50) {
			t.Fatalf("solid image should stay solid, got %v", s)
		}
	}
}
