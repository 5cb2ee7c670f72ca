// Package fileutil provides helpers for writing output files atomically.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AtomicFile stages output in a hidden temporary file next to the final
// destination and renames it into place on Commit, so a crash or error
// mid-write never leaves a truncated output file behind. Abort discards
// the staging file and is a no-op after a successful Commit, which makes
// it safe to defer unconditionally.
type AtomicFile struct {
	*os.File

	path      string
	committed bool
}

// NewAtomicFile creates the staging file for path in the destination
// directory, so the final rename stays on one filesystem.
func NewAtomicFile(path string) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".xxtea-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &AtomicFile{File: tmp, path: path}, nil
}

// Commit sets the final permissions, closes the staging file and renames
// it over the destination path.
func (a *AtomicFile) Commit(perm os.FileMode) error {
	if err := a.Chmod(perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := a.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(a.Name(), a.path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}

	a.committed = true

	return nil
}

// Abort closes and removes the staging file unless Commit already ran.
func (a *AtomicFile) Abort() {
	if a.committed {
		return
	}

	a.Close()
	os.Remove(a.Name())
}

// RestoreTimes sets the access and modification times of path to t.
func RestoreTimes(path string, t time.Time) error {
	if err := os.Chtimes(path, t, t); err != nil {
		return fmt.Errorf("preserving timestamps: %w", err)
	}

	return nil
}
