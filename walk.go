package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoMetadataDir marks an album without the metadata/ subdirectory the
// export format requires. The album is skipped; the run continues.
var ErrNoMetadataDir = errors.New("no metadata directory")

// Album is one export subdirectory: media files at its root plus a
// metadata/ subdirectory of JSON sidecars.
type Album struct {
	Name string
	Path string
}

func (a Album) metadataDir() string {
	return filepath.Join(a.Path, "metadata")
}

// discoverAlbums lists album directories under the export root. A directory
// counts as an album when it holds at least one regular file or a metadata/
// subdirectory. Results come back in name order so re-runs enumerate the
// same structure.
func discoverAlbums(root string) ([]Album, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading export root: %w", err)
	}

	var albums []Album
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(root, e.Name())
		if !looksLikeAlbum(path) {
			continue
		}
		albums = append(albums, Album{Name: e.Name(), Path: path})
	}
	return albums, nil
}

func looksLikeAlbum(path string) bool {
	if info, err := os.Stat(filepath.Join(path, "metadata")); err == nil && info.IsDir() {
		return true
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			return true
		}
	}
	return false
}

// mediaFiles lists candidate media files directly under the album directory,
// in name order, excluding the metadata subdirectory, nested directories and
// ignored names.
func (a Album) mediaFiles(ignored map[string]bool) ([]string, error) {
	if info, err := os.Stat(a.metadataDir()); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", a.Name, ErrNoMetadataDir)
	}

	entries, err := os.ReadDir(a.Path)
	if err != nil {
		return nil, fmt.Errorf("reading album %s: %w", a.Name, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || ignored[e.Name()] {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// sidecarFiles maps each sidecar file name in the album's metadata directory
// to its full path.
func (a Album) sidecarFiles() (map[string]string, error) {
	entries, err := os.ReadDir(a.metadataDir())
	if err != nil {
		return nil, fmt.Errorf("reading metadata dir of %s: %w", a.Name, err)
	}

	m := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m[e.Name()] = filepath.Join(a.metadataDir(), e.Name())
	}
	return m, nil
}
