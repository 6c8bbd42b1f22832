package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigTables(t *testing.T) {
	cfg := defaultConfig()

	if !cfg.ignoredNames()[".DS_Store"] {
		t.Error(".DS_Store should be ignored by default")
	}
	if got := cfg.aliases()[".jpeg"]; got != ".jpg" {
		t.Errorf("aliases()[.jpeg] = %q, want .jpg", got)
	}
	if got := cfg.fileTypes()["QuickTime"]; got != ".mov" {
		t.Errorf("fileTypes()[QuickTime] = %q, want .mov", got)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entefix.yaml")
	data := `
exclude:
  - .DS_Store
  - Thumbs.db
extension_aliases:
  jfif: jpg
file_types:
  JXL: jxl
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if !cfg.ignoredNames()["Thumbs.db"] {
		t.Error("Thumbs.db should be ignored after overlay")
	}

	aliases := cfg.aliases()
	if aliases[".jfif"] != ".jpg" {
		t.Errorf("aliases()[.jfif] = %q, want .jpg (normalized to dotted form)", aliases[".jfif"])
	}
	if aliases[".heif"] != ".heic" {
		t.Error("built-in aliases must survive the overlay")
	}

	types := cfg.fileTypes()
	if types["JXL"] != ".jxl" {
		t.Errorf("fileTypes()[JXL] = %q, want .jxl", types["JXL"])
	}
	if types["JPEG"] != ".jpg" {
		t.Error("built-in file types must survive the overlay")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
