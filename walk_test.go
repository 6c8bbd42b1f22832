package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverAlbums(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Zoo", "a.jpg"), "x")
	writeFile(t, filepath.Join(root, "Beach", "metadata", "a.jpg.json"), "{}")
	writeFile(t, filepath.Join(root, ".hidden", "a.jpg"), "x")
	writeFile(t, filepath.Join(root, "stray.txt"), "x")
	if err := os.MkdirAll(filepath.Join(root, "Empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	albums, err := discoverAlbums(root)
	if err != nil {
		t.Fatalf("discoverAlbums() error = %v", err)
	}

	var names []string
	for _, a := range albums {
		names = append(names, a.Name)
	}
	want := []string{"Beach", "Zoo"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("discoverAlbums() = %v, want %v", names, want)
	}
}

func TestDiscoverAlbumsMissingRoot(t *testing.T) {
	if _, err := discoverAlbums(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestAlbumMediaFiles(t *testing.T) {
	root := t.TempDir()
	albumPath := filepath.Join(root, "Holiday")
	writeFile(t, filepath.Join(albumPath, "b.jpg"), "x")
	writeFile(t, filepath.Join(albumPath, "a.mp4"), "x")
	writeFile(t, filepath.Join(albumPath, ".DS_Store"), "x")
	writeFile(t, filepath.Join(albumPath, "metadata", "a.mp4.json"), "{}")
	writeFile(t, filepath.Join(albumPath, "nested", "c.jpg"), "x")

	album := Album{Name: "Holiday", Path: albumPath}
	files, err := album.mediaFiles(map[string]bool{".DS_Store": true})
	if err != nil {
		t.Fatalf("mediaFiles() error = %v", err)
	}

	want := []string{"a.mp4", "b.jpg"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("mediaFiles() = %v, want %v", files, want)
	}
}

func TestAlbumMediaFilesNoMetadataDir(t *testing.T) {
	root := t.TempDir()
	albumPath := filepath.Join(root, "Loose")
	writeFile(t, filepath.Join(albumPath, "a.jpg"), "x")

	album := Album{Name: "Loose", Path: albumPath}
	if _, err := album.mediaFiles(nil); !errors.Is(err, ErrNoMetadataDir) {
		t.Fatalf("mediaFiles() error = %v, want ErrNoMetadataDir", err)
	}
}

func TestAlbumSidecarFiles(t *testing.T) {
	root := t.TempDir()
	albumPath := filepath.Join(root, "Holiday")
	writeFile(t, filepath.Join(albumPath, "metadata", "a.jpg.json"), "{}")
	writeFile(t, filepath.Join(albumPath, "metadata", "b.mp4.json"), "{}")

	album := Album{Name: "Holiday", Path: albumPath}
	sidecars, err := album.sidecarFiles()
	if err != nil {
		t.Fatalf("sidecarFiles() error = %v", err)
	}

	if len(sidecars) != 2 {
		t.Fatalf("sidecarFiles() returned %d entries, want 2", len(sidecars))
	}
	if got := sidecars["a.jpg.json"]; got != filepath.Join(albumPath, "metadata", "a.jpg.json") {
		t.Errorf("sidecarFiles()[a.jpg.json] = %q", got)
	}
}
