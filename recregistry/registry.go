// Package recregistry generalizes recorder.HasIncompleteRecording from
// a single path to a directory tree: a supervisor restarting after a
// crash needs to sweep potentially thousands of recordings to find the
// handful left mid-write, without re-walking and re-parsing the same
// directory on every restart once those have already been recovered.
//
// Grounded on the teacher's only bbolt consumer, pkg/log/db.go: one
// bucket, keys and values both plain strings, bolt.Update/View wrapping
// every access.
package recregistry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const recoveredBucket = "recovered"

// Registry persists, across process restarts, which recording paths
// have already been swept for incomplete-recording recovery.
type Registry struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt database at dbPath and
// ensures the recovered-paths bucket exists.
func Open(dbPath string) (*Registry, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("recregistry: open %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recoveredBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("recregistry: create bucket: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// MarkRecovered records path as already swept, so a future Scan skips it.
func (r *Registry) MarkRecovered(path string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(recoveredBucket))
		return b.Put([]byte(path), []byte("1"))
	})
}

// isRecovered reports whether path has already been marked recovered.
func (r *Registry) isRecovered(path string) (bool, error) {
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(recoveredBucket))
		found = b.Get([]byte(path)) != nil
		return nil
	})
	return found, err
}

// Scan walks dir for "*.lock" files, pairs each with its ".idx"
// sibling, and returns the logical media paths (the lock/idx path with
// its suffix stripped) that still need recorder.Recover — skipping any
// path this Registry has already marked recovered.
func (r *Registry) Scan(dir string) ([]string, error) {
	var pending []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".lock") {
			return nil
		}

		mediaPath := strings.TrimSuffix(p, ".lock")
		idxPath := mediaPath + ".idx"
		if _, err := os.Stat(idxPath); err != nil {
			return nil // lock without a sibling index is not a recoverable recording
		}

		recovered, err := r.isRecovered(mediaPath)
		if err != nil {
			return fmt.Errorf("recregistry: check recovered state for %s: %w", mediaPath, err)
		}
		if recovered {
			return nil
		}

		pending = append(pending, mediaPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recregistry: scan %s: %w", dir, err)
	}

	return pending, nil
}
