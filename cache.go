package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// detectionCache remembers content-detected file types across runs, keyed by
// source path, size and mtime, so re-running over the same export skips the
// exiftool detection pass for unchanged files. Best-effort: any failure
// degrades to an uncached run.
type detectionCache struct {
	db *sql.DB
}

// defaultCachePath places the cache under the user's cache directory, never
// inside the output tree, so enabling it cannot create output files on a dry
// run.
func defaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(dir, "entefix", "detections.db"), nil
}

func openDetectionCache(path string) (*detectionCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS detections (
		path TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		mod_time INTEGER NOT NULL,
		ext TEXT NOT NULL,
		detected_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &detectionCache{db: db}, nil
}

func (c *detectionCache) Close() error {
	return c.db.Close()
}

// get returns the cached canonical extension when path, size and mtime all
// still match.
func (c *detectionCache) get(path string, size, modTime int64) (string, bool) {
	var ext string
	err := c.db.QueryRow(`
		SELECT ext FROM detections
		WHERE path = ? AND size = ? AND mod_time = ?
	`, path, size, modTime).Scan(&ext)
	if err != nil {
		return "", false
	}
	return ext, true
}

func (c *detectionCache) put(path string, size, modTime int64, ext string) {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO detections (path, size, mod_time, ext, detected_at)
		VALUES (?, ?, ?, ?, ?)
	`, path, size, modTime, ext, time.Now().Unix())
	if err != nil {
		log.Warn("cache write failed for %s: %v", path, err)
	}
}
