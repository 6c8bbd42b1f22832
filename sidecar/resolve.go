// Package sidecar reads the per-file JSON documents that accompany media
// files in an Ente Photos export. The sidecar carries the capture time that
// is not reliably embedded in the media file itself.
package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrNoTimestamp reports a well-formed sidecar that carries no usable
// capture time in any recognized field.
var ErrNoTimestamp = errors.New("no timestamp in sidecar")

// epoch tolerates both shapes the export writes: "1617235200" and 1617235200.
// Anything else leaves the field unset instead of failing the whole document.
type epoch struct {
	secs int64
	ok   bool
}

func (e *epoch) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(strings.Trim(string(b), `"`), 10, 64)
	if err != nil {
		return nil
	}
	e.secs = v
	e.ok = true
	return nil
}

type timeField struct {
	Timestamp epoch `json:"timestamp"`
}

type document struct {
	PhotoTakenTime timeField `json:"photoTakenTime"`
	CreationTime   timeField `json:"creationTime"`
}

// Resolve extracts the capture time from one sidecar document.
// photoTakenTime wins over creationTime. Epoch values are UTC seconds;
// the returned time carries the local zone, which is what the tag writer
// embeds as wall-clock time.
func Resolve(r io.Reader) (time.Time, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return time.Time{}, fmt.Errorf("parsing sidecar: %w", err)
	}

	for _, f := range [...]epoch{doc.PhotoTakenTime.Timestamp, doc.CreationTime.Timestamp} {
		if f.ok {
			return time.Unix(f.secs, 0), nil
		}
	}
	return time.Time{}, ErrNoTimestamp
}
