package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// builtinTypes maps exiftool FileType values to canonical extensions.
var builtinTypes = map[string]string{
	"JPEG":      ".jpg",
	"PNG":       ".png",
	"GIF":       ".gif",
	"WEBP":      ".webp",
	"HEIC":      ".heic",
	"HEIF":      ".heic",
	"MP4":       ".mp4",
	"MOV":       ".mov",
	"QuickTime": ".mov",
	"AVI":       ".avi",
	"WEBM":      ".webm",
	"MKV":       ".mkv",
	"TIFF":      ".tiff",
	"BMP":       ".bmp",
	"CR2":       ".cr2",
	"NEF":       ".nef",
	"ARW":       ".arw",
	"DNG":       ".dng",
	"RAF":       ".raf",
	"ORF":       ".orf",
	"RW2":       ".rw2",
}

// builtinAliases folds equivalent extensions together before comparison, so
// "photo.jpeg" is not renamed to "photo.jpg".
var builtinAliases = map[string]string{
	".jpeg": ".jpg",
	".jpe":  ".jpg",
	".m4v":  ".mp4",
	".heif": ".heic",
	".tif":  ".tiff",
}

// Config holds one run's settings: the mode flags from the command line and
// the tuning tables an optional YAML file may extend.
type Config struct {
	DryRun    bool   `yaml:"-"`
	Verbose   bool   `yaml:"-"`
	UseCache  bool   `yaml:"-"`
	CachePath string `yaml:"cache_path"`

	Exclude    []string          `yaml:"exclude"`
	ExtAliases map[string]string `yaml:"extension_aliases"`
	FileTypes  map[string]string `yaml:"file_types"`
}

func defaultConfig() Config {
	return Config{
		Exclude: []string{".DS_Store"},
	}
}

// loadConfig overlays a YAML file onto the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) ignoredNames() map[string]bool {
	m := make(map[string]bool, len(c.Exclude))
	for _, name := range c.Exclude {
		m[name] = true
	}
	return m
}

// aliases returns the built-in extension equivalences extended by the
// config. Keys and values are normalized to lowercase dotted form.
func (c *Config) aliases() map[string]string {
	return mergeDotted(builtinAliases, c.ExtAliases)
}

// fileTypes returns the FileType table extended by the config. Values are
// normalized to lowercase dotted extensions; keys keep exiftool's casing.
func (c *Config) fileTypes() map[string]string {
	m := make(map[string]string, len(builtinTypes)+len(c.FileTypes))
	for k, v := range builtinTypes {
		m[k] = v
	}
	for k, v := range c.FileTypes {
		m[k] = dotted(v)
	}
	return m
}

func mergeDotted(base, extra map[string]string) map[string]string {
	m := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		m[k] = v
	}
	for k, v := range extra {
		m[dotted(k)] = dotted(v)
	}
	return m
}

func dotted(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
