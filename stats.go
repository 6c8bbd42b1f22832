package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// RunSummary aggregates per-file outcomes for one run. Counters are additive
// only; the skip and failure lists keep the per-file reasons for the final
// report.
type RunSummary struct {
	Albums        atomic.Int64
	AlbumsSkipped atomic.Int64
	Processed     atomic.Int64
	Renamed       atomic.Int64
	Skipped       atomic.Int64
	Errored       atomic.Int64
	BytesCopied   atomic.Int64
	StartTime     time.Time

	mu       sync.Mutex
	skips    []fileNote
	failures []fileNote
}

type fileNote struct {
	path   string
	reason string
}

func NewRunSummary() *RunSummary {
	return &RunSummary{
		StartTime: time.Now(),
	}
}

// Record folds one finished record into the summary.
func (s *RunSummary) Record(r *MediaRecord) {
	switch r.Outcome() {
	case OutcomeProcessed:
		s.Processed.Add(1)
	case OutcomeRenamed:
		s.Renamed.Add(1)
	case OutcomeSkipped:
		s.Skipped.Add(1)
		s.note(&s.skips, r.Source, r.reason)
	case OutcomeErrored:
		s.Errored.Add(1)
		s.note(&s.failures, r.Source, r.reason)
	}
}

// SkipAlbum records an album-level skip (missing metadata directory or an
// unreadable listing).
func (s *RunSummary) SkipAlbum(path string, err error) {
	s.AlbumsSkipped.Add(1)
	s.note(&s.skips, path, err.Error())
}

func (s *RunSummary) AddBytes(n int64) {
	s.BytesCopied.Add(n)
}

func (s *RunSummary) note(list *[]fileNote, path, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*list = append(*list, fileNote{path: path, reason: reason})
}

// PrintSummary outputs the final table followed by the consolidated list of
// skipped and errored entries.
func (s *RunSummary) PrintSummary() {
	duration := time.Since(s.StartTime)

	w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)

	fmt.Fprintln(os.Stderr, "----------------------------------------")

	fmt.Fprintf(w, "Albums:\t%d\n", s.Albums.Load())
	if s.AlbumsSkipped.Load() > 0 {
		fmt.Fprintf(w, "Albums Skipped:\t%d\n", s.AlbumsSkipped.Load())
	}

	fmt.Fprintf(w, "Processed:\t%d\n", s.Processed.Load())
	if s.Renamed.Load() > 0 {
		fmt.Fprintf(w, "Renamed:\t%d\n", s.Renamed.Load())
	}
	if s.Skipped.Load() > 0 {
		fmt.Fprintf(w, "Skipped:\t%d\n", s.Skipped.Load())
	}
	if s.Errored.Load() > 0 {
		fmt.Fprintf(w, "Errors:\t%d\n", s.Errored.Load())
	}
	if s.BytesCopied.Load() > 0 {
		fmt.Fprintf(w, "Data Volume:\t%s\n", humanize.Bytes(uint64(s.BytesCopied.Load())))
	}

	fmt.Fprintf(w, "Duration:\t%s\n", duration.Round(time.Millisecond))

	w.Flush()
	fmt.Fprintln(os.Stderr, "----------------------------------------")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.skips {
		fmt.Fprintf(os.Stderr, "skipped: %s (%s)\n", n.path, n.reason)
	}
	for _, n := range s.failures {
		fmt.Fprintf(os.Stderr, "errored: %s (%s)\n", n.path, n.reason)
	}
}
