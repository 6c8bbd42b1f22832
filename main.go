// Command entefix fixes an Ente Photos export for import elsewhere: it
// copies every album into an output tree, corrects file extensions that do
// not match the file's true content, and sets embedded and filesystem
// timestamps from the per-file JSON sidecars. Sources are never modified.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Show what would be done without making changes")
	verbose := flag.Bool("v", false, "Verbose logging")
	configPath := flag.String("config", "", "Optional YAML config file")
	useCache := flag.Bool("cache", false, "Cache type detection results between runs")
	cachePath := flag.String("cache-path", "", "Detection cache location (default under the user cache dir)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input-dir> <output-dir>\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  input-dir   Ente export directory containing album folders\n")
		fmt.Fprintf(os.Stderr, "  output-dir  Destination for corrected copies\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	InitLogger(*verbose)

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			fatal("%v", err)
		}
	}
	cfg.DryRun = *dryRun
	cfg.Verbose = *verbose
	cfg.UseCache = *useCache
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}

	input, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		fatal("resolving input path: %v", err)
	}
	output, err := filepath.Abs(flag.Arg(1))
	if err != nil {
		fatal("resolving output path: %v", err)
	}

	// Pre-flight: everything fatal fails here, before any file is touched.
	info, err := os.Stat(input)
	if err != nil {
		fatal("input directory not accessible: %v", err)
	}
	if !info.IsDir() {
		fatal("input path is not a directory: %s", input)
	}
	if _, err := exec.LookPath("exiftool"); err != nil {
		fatal("exiftool not found in PATH; install it first")
	}

	tagger := newExifTagger(&cfg)
	defer tagger.Close()

	var cache *detectionCache
	if cfg.UseCache {
		path := cfg.CachePath
		if path == "" {
			path, err = defaultCachePath()
			if err != nil {
				log.Warn("Detection cache unavailable, continuing without: %v", err)
			}
		}
		if path != "" {
			cache, err = openDetectionCache(path)
			if err != nil {
				log.Warn("Detection cache unavailable, continuing without: %v", err)
			} else {
				defer cache.Close()
			}
		}
	}

	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be modified")
	}

	p := &pipeline{
		cfg:     &cfg,
		tagger:  tagger,
		cache:   cache,
		summary: NewRunSummary(),
	}

	if err := p.run(input, output); err != nil {
		fatal("%v", err)
	}

	// Per-file and per-album failures are reported in the summary; only
	// pre-flight problems exit non-zero.
	p.summary.PrintSummary()
	if cfg.DryRun {
		fmt.Fprintln(os.Stderr, "[DRY RUN] no files were modified")
	}
}

func fatal(format string, a ...any) {
	if log != nil {
		log.Error(format, a...)
	} else {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
	os.Exit(1)
}
