package main

import "time"

// stage is how far a record has moved through the pipeline. Transitions are
// monotonic; advance never moves a record backwards.
type stage int

const (
	stageDiscovered stage = iota
	stageResolved
	stageCopied
	stageTagged
)

// Outcome is the final classification of one media file after a run.
type Outcome int

const (
	OutcomeProcessed Outcome = iota
	OutcomeRenamed
	OutcomeSkipped
	OutcomeErrored
)

func (o Outcome) String() string {
	return [...]string{"processed", "renamed", "skipped", "errored"}[o]
}

// MediaRecord tracks one media file through a single run. It is created by
// the album step that owns it and never shared across albums or runs.
type MediaRecord struct {
	Source  string // path in the export, never written to
	Album   string
	Name    string    // file name within the album
	Sidecar string    // matched sidecar path, empty when unmatched
	Taken   time.Time // resolved capture time, zero when unresolved
	Dest    string    // destination path, extension already corrected

	extFixed bool
	stage    stage
	err      error
	reason   string
}

// advance moves the record to a later stage.
func (r *MediaRecord) advance(s stage) {
	if s > r.stage {
		r.stage = s
	}
}

// fail records the first error against the file. Failed records drop out of
// later stages but never abort the album or the run.
func (r *MediaRecord) fail(reason string, err error) {
	if r.err == nil {
		r.err = err
		r.reason = reason
	}
}

func (r *MediaRecord) failed() bool { return r.err != nil }

// skip notes why the file gets no timestamp correction. The file itself is
// still copied.
func (r *MediaRecord) skip(reason string) {
	if r.reason == "" {
		r.reason = reason
	}
}

// Outcome classifies the record: an error at any stage wins, then a
// corrected extension, then a missing timestamp.
func (r *MediaRecord) Outcome() Outcome {
	switch {
	case r.err != nil:
		return OutcomeErrored
	case r.extFixed:
		return OutcomeRenamed
	case r.Taken.IsZero():
		return OutcomeSkipped
	default:
		return OutcomeProcessed
	}
}
