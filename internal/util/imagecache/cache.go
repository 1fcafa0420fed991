// Package imagecache keeps downloaded remote images on disk so repeated
// runs against the same URL don't refetch it.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	httputil "github.com/jmylchreest/swatch/internal/util/http"
)

// CacheOptions configures image caching behavior.
type CacheOptions struct {
	// Dir is where images are cached. If empty, DefaultCacheDir is used.
	Dir string

	// MaxAge makes entries older than this be fetched again. Zero keeps
	// entries forever.
	MaxAge time.Duration

	// Refresh always refetches, replacing any cached copy.
	Refresh bool

	// BlockPrivateHosts is passed through to the fetch.
	BlockPrivateHosts bool
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "swatch", "images"), nil
	}
	return filepath.Join(cacheDir, "swatch", "images"), nil
}

// Filename returns the cache file name for rawURL: a hash of the URL plus
// the URL path's extensions (so "wall.png.xz" keeps ".png.xz").
func Filename(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:16])

	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)

	ext := path.Ext(base)
	switch strings.ToLower(ext) {
	case ".gz", ".bz2", ".xz":
		inner := path.Ext(strings.TrimSuffix(base, ext))
		if inner != "" && len(inner) <= 5 {
			ext = inner + ext
		}
	}
	if ext == "" || len(ext) > 9 {
		return name
	}
	return name + ext
}

// DownloadAndCache returns the local path of rawURL's cached copy,
// downloading it first when it is missing, stale, or Refresh is set.
func DownloadAndCache(ctx context.Context, rawURL string, opts CacheOptions) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(dir, Filename(rawURL))
	if !opts.Refresh && fresh(cachedPath, opts.MaxAge) {
		return cachedPath, nil
	}

	data, err := httputil.Fetch(ctx, rawURL, httputil.FetchOptions{BlockPrivateHosts: opts.BlockPrivateHosts})
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so a failed download never leaves a partial entry.
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}

	return cachedPath, nil
}

func fresh(p string, maxAge time.Duration) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	return maxAge <= 0 || time.Since(info.ModTime()) < maxAge
}
