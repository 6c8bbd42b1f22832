package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCachePath(t *testing.T) {
	path, err := defaultCachePath()
	if err != nil {
		t.Skipf("no user cache dir on this system: %v", err)
	}

	userDir, err := os.UserCacheDir()
	if err != nil {
		t.Fatalf("os.UserCacheDir() error = %v", err)
	}
	if !strings.HasPrefix(path, userDir+string(filepath.Separator)) {
		t.Errorf("defaultCachePath() = %q, want under %q", path, userDir)
	}
	if filepath.Base(path) != "detections.db" {
		t.Errorf("defaultCachePath() = %q, want a detections.db file", path)
	}
}

func TestDetectionCacheRoundTrip(t *testing.T) {
	cache, err := openDetectionCache(filepath.Join(t.TempDir(), "cache", "entefix.db"))
	if err != nil {
		t.Fatalf("openDetectionCache() error = %v", err)
	}
	defer cache.Close()

	cache.put("/export/Holiday/photo1.jpg", 1234, 1617235200, ".jpg")

	ext, ok := cache.get("/export/Holiday/photo1.jpg", 1234, 1617235200)
	if !ok || ext != ".jpg" {
		t.Errorf("get() = %q, %v; want .jpg, true", ext, ok)
	}

	// Unknown types cache as empty extensions and still count as hits.
	cache.put("/export/Holiday/odd.bin", 10, 1617235200, "")
	ext, ok = cache.get("/export/Holiday/odd.bin", 10, 1617235200)
	if !ok || ext != "" {
		t.Errorf("get() = %q, %v; want empty hit", ext, ok)
	}
}

func TestDetectionCacheInvalidation(t *testing.T) {
	cache, err := openDetectionCache(filepath.Join(t.TempDir(), "entefix.db"))
	if err != nil {
		t.Fatalf("openDetectionCache() error = %v", err)
	}
	defer cache.Close()

	cache.put("/export/Holiday/photo1.jpg", 1234, 1617235200, ".jpg")

	if _, ok := cache.get("/export/Holiday/photo1.jpg", 1234, 1617999999); ok {
		t.Error("changed mtime must miss")
	}
	if _, ok := cache.get("/export/Holiday/photo1.jpg", 999, 1617235200); ok {
		t.Error("changed size must miss")
	}
	if _, ok := cache.get("/export/Other/photo1.jpg", 1234, 1617235200); ok {
		t.Error("different path must miss")
	}

	// Re-detection replaces the stale row.
	cache.put("/export/Holiday/photo1.jpg", 1234, 1617999999, ".png")
	ext, ok := cache.get("/export/Holiday/photo1.jpg", 1234, 1617999999)
	if !ok || ext != ".png" {
		t.Errorf("get() after replace = %q, %v; want .png, true", ext, ok)
	}
}
