package sidecar

import (
	"path/filepath"
	"regexp"
	"strings"
)

// dedupSuffix is the "(1)" counter the export appends to the stem when two
// files in one album share a name.
var dedupSuffix = regexp.MustCompile(`\(\d+\)$`)

// Match finds the sidecar for a media file among an album's sidecar names
// (name -> full path). The sidecar is expected at "<name>.json"; failing
// that, a case-insensitive match is tried, then the numeric de-duplication
// suffix is stripped from the stem and both rules are retried
// ("photo1(1).jpg" falls back to "photo1.jpg.json").
// A miss returns ok=false, not an error.
func Match(name string, sidecars map[string]string) (string, bool) {
	if p, ok := sidecars[name+".json"]; ok {
		return p, true
	}
	if p, ok := matchFold(name+".json", sidecars); ok {
		return p, true
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if suffix := dedupSuffix.FindString(stem); suffix != "" {
		return Match(strings.TrimSuffix(stem, suffix)+ext, sidecars)
	}
	return "", false
}

// matchFold picks the lexicographically smallest case-insensitive match so
// repeated runs resolve ties the same way.
func matchFold(want string, sidecars map[string]string) (string, bool) {
	best := ""
	for k := range sidecars {
		if strings.EqualFold(k, want) && (best == "" || k < best) {
			best = k
		}
	}
	if best == "" {
		return "", false
	}
	return sidecars[best], true
}
