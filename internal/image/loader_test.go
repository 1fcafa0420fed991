package image

import (
	"bytes"
	"compress/gzip"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFileLoader_Load(t *testing.T) {
	raw := encodePNG(t)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(raw)
	gw.Close()

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	if err != nil {
		t.Fatal(err)
	}
	xw.Write(raw)
	xw.Close()

	dir := t.TempDir()
	files := map[string][]byte{
		"plain.png":    raw,
		"wall.png.gz":  gz.Bytes(),
		"wall.png.xz":  xzBuf.Bytes(),
		"renamed.data": xzBuf.Bytes(),
	}

	loader := NewFileLoader()
	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, dir, name, data)
			img, err := loader.Load(p)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
				t.Errorf("bounds = %v", b)
			}
			if err := ValidateImagePath(p); err != nil {
				t.Errorf("ValidateImagePath() error = %v", err)
			}
		})
	}
}

func TestFileLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewFileLoader()

	if _, err := loader.Load(""); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := loader.Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := loader.Load(dir); err == nil {
		t.Error("Expected error for directory")
	}

	bad := writeFile(t, dir, "bad.png", []byte("not an image"))
	if _, err := loader.Load(bad); err == nil {
		t.Error("Expected error for undecodable file")
	}
	if err := ValidateImagePath(bad); err == nil {
		t.Error("ValidateImagePath should reject undecodable files")
	}
}

func TestValidateImagePath(t *testing.T) {
	if err := ValidateImagePath(""); err == nil {
		t.Error("Expected error for empty path")
	}
	if err := ValidateImagePath(t.TempDir()); err != nil {
		t.Errorf("directories are valid, got %v", err)
	}
	if err := ValidateImagePath("https://example.com/wall.png"); err != nil {
		t.Errorf("URL should be valid, got %v", err)
	}
	if err := ValidateImagePath("ftp://example.com/wall.png"); err == nil {
		t.Error("Expected error for a non-image path")
	}
}

func TestScanDirectoryForImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", nil)
	writeFile(t, dir, "b.JPG", nil)
	writeFile(t, dir, "c.tiff.xz", nil)
	writeFile(t, dir, "notes.txt", nil)
	writeFile(t, dir, "archive.gz", nil)
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatalf("ScanDirectoryForImages() error = %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 images, got %v", files)
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("Expected error for directory without images")
	}
}

func TestResolveImagePath(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "only.png", encodePNG(t))

	got, err := ResolveImagePath(dir)
	if err != nil || got != p {
		t.Errorf("ResolveImagePath(dir) = %q, %v; want %q", got, err, p)
	}
	if got, _ := ResolveImagePath(p); got != p {
		t.Errorf("files should resolve to themselves, got %q", got)
	}
	if got, _ := ResolveImagePath("https://example.com/x.png"); got != "https://example.com/x.png" {
		t.Errorf("URLs should resolve to themselves, got %q", got)
	}
	if _, err := ResolveImagePath(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestSelectRandomImage(t *testing.T) {
	if _, err := SelectRandomImage(nil); err == nil {
		t.Error("Expected error for empty list")
	}
	paths := []string{"a.png", "b.png"}
	for range 20 {
		got, err := SelectRandomImage(paths)
		if err != nil || (got != "a.png" && got != "b.png") {
			t.Fatalf("SelectRandomImage() = %q, %v", got, err)
		}
	}
}

func TestSmartLoader_URL(t *testing.T) {
	raw := encodePNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw)
	}))
	defer srv.Close()

	url := srv.URL + "/wall.png"

	if _, err := NewSmartLoader().Load(url); err == nil {
		t.Error("loopback URLs must be rejected by default")
	}

	img, err := NewSmartLoader().AllowPrivateHosts(true).Load(url)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	dir := t.TempDir()
	loader := NewSmartLoader().AllowPrivateHosts(true).WithCache(imagecache.CacheOptions{Dir: dir})
	if _, err := loader.Load(url); err != nil {
		t.Fatalf("cached Load() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, imagecache.Filename(url))); err != nil {
		t.Errorf("expected cache entry: %v", err)
	}
}
