package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://example.com/wall.png", ".png"},
		{"https://example.com/wall.png.xz", ".png.xz"},
		{"https://example.com/wall.png?size=large", ".png"},
		{"https://example.com/wall", ""},
		{"https://example.com/archive.tar.gz", ".tar.gz"},
	}

	for _, tt := range tests {
		name := Filename(tt.url)
		hash := strings.TrimSuffix(name, tt.wantExt)
		if len(hash) != 32 || hash+tt.wantExt != name {
			t.Errorf("Filename(%q) = %q, want 32 hex chars + %q", tt.url, name, tt.wantExt)
		}
	}

	if Filename("https://a/x.png") == Filename("https://b/x.png") {
		t.Error("different URLs must map to different files")
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	url := srv.URL + "/wall.png"
	ctx := context.Background()

	p, err := DownloadAndCache(ctx, url, CacheOptions{Dir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	if _, err := DownloadAndCache(ctx, url, CacheOptions{Dir: dir}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("cached entry should be reused, server hit %d times", hits.Load())
	}

	if _, err := DownloadAndCache(ctx, url, CacheOptions{Dir: dir, Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("Refresh should refetch, server hit %d times", hits.Load())
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatal(err)
	}
	if _, err := DownloadAndCache(ctx, url, CacheOptions{Dir: dir, MaxAge: time.Hour}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 3 {
		t.Errorf("stale entry should be refetched, server hit %d times", hits.Load())
	}
}

func TestDownloadAndCache_InvalidURL(t *testing.T) {
	if _, err := DownloadAndCache(context.Background(), "ftp://example.com/x.png", CacheOptions{Dir: t.TempDir()}); err == nil {
		t.Error("Expected error for non-HTTP URL")
	}
}

func TestDownloadAndCache_BlockPrivateHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	if _, err := DownloadAndCache(context.Background(), srv.URL+"/wall.png", CacheOptions{Dir: dir, BlockPrivateHosts: true}); err == nil {
		t.Error("Expected loopback fetch to be refused")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("refused fetch must not leave cache entries, found %d", len(entries))
	}
}
