package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabrielfortuny/entefix/sidecar"
)

// errDestCollision marks a record whose corrected destination is already
// claimed by another file in the same album.
var errDestCollision = errors.New("destination already claimed")

// pipeline owns one run: it walks albums, builds the per-album batch, drives
// the external tool and folds every outcome into the summary. DryRun runs
// the same decision logic with every filesystem and tool mutation
// suppressed.
type pipeline struct {
	cfg     *Config
	tagger  Tagger
	cache   *detectionCache
	summary *RunSummary
}

// run processes every album under input into output. Only run-level
// failures (unreadable root, no albums, uncreatable output) come back as
// errors; album and file failures are folded into the summary.
func (p *pipeline) run(input, output string) error {
	albums, err := discoverAlbums(input)
	if err != nil {
		return err
	}
	if len(albums) == 0 {
		return errors.New("no albums found in " + input)
	}

	if !p.cfg.DryRun {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return err
		}
	}

	ignored := p.cfg.ignoredNames()
	for _, album := range albums {
		if err := p.processAlbum(album, output, ignored); err != nil {
			log.Warn("Skipping album %s: %v", album.Name, err)
			p.summary.SkipAlbum(album.Path, err)
			continue
		}
		p.summary.Albums.Add(1)
	}
	return nil
}

// processAlbum runs the full pipeline for one album. The batch is built
// eagerly so the external tool is invoked once per stage for the whole
// album, not once per file.
func (p *pipeline) processAlbum(album Album, outputRoot string, ignored map[string]bool) error {
	files, err := album.mediaFiles(ignored)
	if err != nil {
		return err
	}
	sidecars, err := album.sidecarFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Info("Album %s: no media files", album.Name)
		return nil
	}
	log.Info("Album %s: %d files", album.Name, len(files))

	records := make([]*MediaRecord, 0, len(files))
	paths := make([]string, 0, len(files))
	for _, name := range files {
		src := filepath.Join(album.Path, name)
		records = append(records, &MediaRecord{
			Source: src,
			Album:  album.Name,
			Name:   name,
		})
		paths = append(paths, src)
	}

	detections := p.detectBatch(paths)
	outDir := filepath.Join(outputRoot, album.Name)
	aliases := p.cfg.aliases()

	// Extension correction can map two sources onto one destination, e.g.
	// photo.jpg plus a mislabelled photo.png detected as JPEG. The first
	// claimant keeps the name; later ones error instead of overwriting it.
	seen := make(map[string]*MediaRecord, len(records))
	for _, r := range records {
		d := detections[r.Source]
		if d.Err != nil {
			r.fail("file type detection failed", d.Err)
		}
		name, fixed := correctedName(aliases, r.Name, d.Ext)
		if fixed {
			log.Action("FIX", "%s -> %s", r.Name, name)
		}
		r.Dest = filepath.Join(outDir, name)
		r.extFixed = fixed

		if prev, ok := seen[r.Dest]; ok {
			r.fail("destination collision with "+prev.Name, errDestCollision)
		} else {
			seen[r.Dest] = r
		}

		p.resolveSidecar(r, sidecars)
		r.advance(stageResolved)
	}

	// Every record is copied, even those with sidecar or detection
	// problems; only a failed copy or a colliding destination drops a file
	// out of the output tree.
	for _, r := range records {
		if errors.Is(r.err, errDestCollision) {
			continue
		}
		if err := p.copyOne(r); err != nil {
			r.fail("copy failed", err)
			continue
		}
		r.advance(stageCopied)
	}

	p.writeTimestamps(records)

	for _, r := range records {
		p.summary.Record(r)
	}
	return nil
}

// resolveSidecar matches and parses the record's sidecar. A missing sidecar
// or a sidecar without timestamps is a skip; unparseable JSON is a file
// error. Either way the file is still copied.
func (p *pipeline) resolveSidecar(r *MediaRecord, sidecars map[string]string) {
	path, ok := sidecar.Match(r.Name, sidecars)
	if !ok {
		log.Action("SKIP", "%s: no metadata found", r.Name)
		r.skip("no metadata found")
		return
	}
	r.Sidecar = path

	f, err := os.Open(path)
	if err != nil {
		r.fail("reading sidecar", err)
		return
	}
	taken, err := sidecar.Resolve(f)
	f.Close()
	if err != nil {
		if errors.Is(err, sidecar.ErrNoTimestamp) {
			log.Action("SKIP", "%s: no timestamp in sidecar", r.Name)
			r.skip("no timestamp in sidecar")
		} else {
			r.fail("parsing sidecar", err)
		}
		return
	}
	r.Taken = taken
}

// detectBatch resolves content-detected extensions for the album batch,
// serving unchanged files from the cache and detecting the rest in one tool
// call.
func (p *pipeline) detectBatch(paths []string) map[string]Detection {
	out := make(map[string]Detection, len(paths))

	var misses []string
	for _, path := range paths {
		if info, ok := p.cacheStat(path); ok {
			if ext, hit := p.cache.get(path, info.Size(), info.ModTime().Unix()); hit {
				out[path] = Detection{Ext: ext}
				continue
			}
		}
		misses = append(misses, path)
	}

	for path, d := range p.tagger.DetectTypes(misses) {
		out[path] = d
		if d.Err != nil {
			continue
		}
		if info, ok := p.cacheStat(path); ok {
			p.cache.put(path, info.Size(), info.ModTime().Unix(), d.Ext)
		}
	}
	return out
}

func (p *pipeline) cacheStat(path string) (os.FileInfo, bool) {
	if p.cache == nil {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}

func (p *pipeline) copyOne(r *MediaRecord) error {
	if p.cfg.DryRun {
		log.Action("DRY", "would copy %s -> %s", r.Source, r.Dest)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.Dest), 0o755); err != nil {
		return err
	}
	n, err := copyFile(r.Source, r.Dest)
	if err != nil {
		return err
	}
	p.summary.AddBytes(n)
	log.Action("COPY", "%s -> %s", r.Source, r.Dest)
	return nil
}

// writeTimestamps issues the album's single batch tag-write call for every
// copied record with a resolved capture time. A tool failure for one file
// marks that file only.
func (p *pipeline) writeTimestamps(records []*MediaRecord) {
	var batch []TagRequest
	byDest := make(map[string]*MediaRecord)
	for _, r := range records {
		if r.failed() || r.Taken.IsZero() {
			continue
		}
		batch = append(batch, TagRequest{Path: r.Dest, Taken: r.Taken})
		byDest[r.Dest] = r
	}
	if len(batch) == 0 {
		return
	}

	if p.cfg.DryRun {
		for _, req := range batch {
			log.Action("DRY", "would set %s -> %s", filepath.Base(req.Path), req.Taken.Format(exifTimeFormat))
		}
	} else {
		for path, err := range p.tagger.WriteTimestamps(batch) {
			if err != nil {
				byDest[path].fail("timestamp write failed", err)
			}
		}
	}

	for _, r := range byDest {
		if !r.failed() {
			r.advance(stageTagged)
		}
	}
}

// correctedName returns the file name with its canonical extension and
// whether the extension changed. Alias extensions (".jpeg" vs ".jpg") count
// as matching; an unknown detected type keeps the current name.
func correctedName(aliases map[string]string, name, detected string) (string, bool) {
	if detected == "" {
		return name, false
	}
	cur := filepath.Ext(name)
	if normalizeExt(aliases, cur) == normalizeExt(aliases, detected) {
		return name, false
	}
	return strings.TrimSuffix(name, cur) + detected, true
}

func normalizeExt(aliases map[string]string, ext string) string {
	ext = strings.ToLower(ext)
	if canonical, ok := aliases[ext]; ok {
		return canonical
	}
	return ext
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}
