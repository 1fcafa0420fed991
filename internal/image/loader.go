// Package image loads images from disk or HTTP(S) and turns them into
// clustering samples.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/swatch/internal/compression"
	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// Decode decodes an image from r. Gzip, bzip2 and xz wrapped images are
// unwrapped first; name is only used as a hint for the compression format.
func Decode(r io.Reader, name string) (image.Image, string, error) {
	dr, _, err := compression.NewReader(r, name)
	if err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(dr)
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, format, nil
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF, optionally wrapped in
// gzip, bzip2 or xz.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := Decode(file, path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ValidateImagePath checks if the given path is valid and points to a supported image file or directory.
// For local files, it verifies the file exists and its header can be decoded.
// For directories, it verifies the directory exists (actual scanning happens later).
// For HTTP(S) URLs, it only validates the URL (actual fetching happens later).
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	if isURL(path) {
		return security.ValidateImageURL(path, true)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}

	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	r, _, err := compression.NewReader(file, path)
	if err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	if _, _, err := image.DecodeConfig(r); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}

	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// isImageFile checks if a file has a supported image extension, ignoring
// any compression suffix.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(compression.TrimExt(path)))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// isURL checks if a path is an HTTP/HTTPS URL.
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ScanDirectoryForImages scans a directory and returns all valid image files.
// It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Stat follows symlinks; broken links and unreadable entries are skipped.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}

		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}

	return imageFiles, nil
}

// SelectRandomImage selects a random image from a list of image paths.
// Uses crypto/rand so directory picks don't follow the clustering seed.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	maxIndex := big.NewInt(int64(len(imagePaths)))
	randomIndex, err := rand.Int(rand.Reader, maxIndex)
	if err != nil {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		index := int(binary.LittleEndian.Uint64(buf[:]) % uint64(len(imagePaths))) // #nosec G115 -- bounded by len
		return imagePaths[index], nil
	}

	return imagePaths[randomIndex.Int64()], nil
}

// ResolveImagePath resolves a path that could be a file or directory.
// If the path is a directory, it scans for images and returns a random one.
// Files and HTTP(S) URLs are returned as-is.
func ResolveImagePath(path string) (string, error) {
	if isURL(path) {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return path, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return "", err
	}

	return SelectRandomImage(imageFiles)
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader   *FileLoader
	cache        *imagecache.CacheOptions
	allowPrivate bool
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
	}
}

// WithCache makes remote images go through the on-disk cache.
func (l *SmartLoader) WithCache(opts imagecache.CacheOptions) *SmartLoader {
	l.cache = &opts
	return l
}

// AllowPrivateHosts permits URLs that resolve to loopback or private addresses.
func (l *SmartLoader) AllowPrivateHosts(allow bool) *SmartLoader {
	l.allowPrivate = allow
	return l
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(path string) (image.Image, error) {
	if isURL(path) {
		return l.loadFromURL(context.Background(), path)
	}
	return l.fileLoader.Load(path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := security.ValidateImageURL(url, l.allowPrivate); err != nil {
		return nil, err
	}

	if l.cache != nil {
		opts := *l.cache
		opts.BlockPrivateHosts = !l.allowPrivate
		cachedPath, err := imagecache.DownloadAndCache(ctx, url, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to cache image from URL: %w", err)
		}
		return l.fileLoader.Load(cachedPath)
	}

	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{BlockPrivateHosts: !l.allowPrivate})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	img, _, err := Decode(bytes.NewReader(data), url)
	if err != nil {
		return nil, err
	}
	return img, nil
}
