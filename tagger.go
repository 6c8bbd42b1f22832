package main

import (
	"os"
	"sync"
	"time"

	"github.com/barasher/go-exiftool"
)

// exifTimeFormat is the wall-clock layout exiftool expects for date tags.
const exifTimeFormat = "2006:01:02 15:04:05"

// Detection is the per-file result of content-based type detection.
// Ext is empty when the detected format has no canonical extension.
type Detection struct {
	Ext string
	Err error
}

// TagRequest asks for one file's embedded and filesystem timestamps to be
// set to its capture time.
type TagRequest struct {
	Path  string
	Taken time.Time
}

// Tagger is the narrow view of the external tagging tool the pipeline
// depends on: apply one operation to a batch of files, get per-file results
// back. Tests substitute a mock.
type Tagger interface {
	DetectTypes(paths []string) map[string]Detection
	WriteTimestamps(batch []TagRequest) map[string]error
}

// ExifTagger drives a single stay-open exiftool process for batch type
// detection and batch tag writing.
type ExifTagger struct {
	types map[string]string

	et *exiftool.Exiftool
	mu sync.Mutex
}

func newExifTagger(cfg *Config) *ExifTagger {
	return &ExifTagger{types: cfg.fileTypes()}
}

// Close shuts the exiftool process down if it was started.
func (t *ExifTagger) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.et != nil {
		t.et.Close()
		t.et = nil
	}
}

// ensure lazily starts the exiftool process.
func (t *ExifTagger) ensure() (*exiftool.Exiftool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.et != nil {
		return t.et, nil
	}
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, err
	}
	t.et = et
	return t.et, nil
}

// DetectTypes reads each file's true format from content in one exiftool
// call and maps it to a canonical extension.
func (t *ExifTagger) DetectTypes(paths []string) map[string]Detection {
	out := make(map[string]Detection, len(paths))
	if len(paths) == 0 {
		return out
	}

	et, err := t.ensure()
	if err != nil {
		for _, p := range paths {
			out[p] = Detection{Err: err}
		}
		return out
	}

	for _, fm := range et.ExtractMetadata(paths...) {
		if fm.Err != nil {
			out[fm.File] = Detection{Err: fm.Err}
			continue
		}
		fileType, err := fm.GetString("FileType")
		if err != nil {
			// Readable file of a format exiftool cannot name; the
			// current extension stays.
			out[fm.File] = Detection{}
			continue
		}
		out[fm.File] = Detection{Ext: t.types[fileType]}
	}
	return out
}

// WriteTimestamps embeds the capture time of every file in the batch
// (DateTimeOriginal, CreateDate, FileModifyDate) in one exiftool call and
// sets the filesystem mtime to match. One file failing does not stop the
// rest of the batch.
func (t *ExifTagger) WriteTimestamps(batch []TagRequest) map[string]error {
	out := make(map[string]error, len(batch))
	if len(batch) == 0 {
		return out
	}

	et, err := t.ensure()
	if err != nil {
		for _, r := range batch {
			out[r.Path] = err
		}
		return out
	}

	fms := tagBatch(batch)
	taken := make(map[string]time.Time, len(batch))
	for _, r := range batch {
		taken[r.Path] = r.Taken
	}

	et.WriteMetadata(fms)

	for _, fm := range fms {
		if fm.Err != nil {
			out[fm.File] = fm.Err
			continue
		}
		// Rewriting the file bumps its mtime; put the capture time back.
		if err := os.Chtimes(fm.File, time.Now(), taken[fm.File]); err != nil {
			out[fm.File] = err
		}
	}
	return out
}

// tagBatch builds the write request for each file in the batch.
func tagBatch(batch []TagRequest) []exiftool.FileMetadata {
	fms := make([]exiftool.FileMetadata, len(batch))
	for i, r := range batch {
		fm := exiftool.EmptyFileMetadata()
		fm.File = r.Path
		stamp := r.Taken.Format(exifTimeFormat)
		fm.SetString("DateTimeOriginal", stamp)
		fm.SetString("CreateDate", stamp)
		fm.SetString("FileModifyDate", stamp)
		// Only filesystems that track creation time honor this;
		// elsewhere exiftool warns and still applies the other tags.
		fm.SetString("FileCreateDate", stamp)
		fms[i] = fm
	}
	return fms
}
