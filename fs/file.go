// Package fs writes crawl output to the local filesystem.
package fs

import (
	"io"
	"os"
	"path/filepath"
)

// Ensure AtomicFile implements io.Writer at compile time.
var _ io.Writer = (*AtomicFile)(nil)

// AtomicFile writes to a temporary file next to its destination and only
// replaces the destination on Commit, so readers never see partial output.
type AtomicFile struct {
	path string
	tmp  *os.File
}

// Create opens a temporary file in the directory of path.
// Missing parent directories are created.
func Create(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{path: path, tmp: tmp}, nil
}

// Write appends p to the temporary file.
func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit flushes the temporary file and renames it over the destination.
func (f *AtomicFile) Commit() error {
	if err := f.tmp.Sync(); err != nil {
		_ = f.Abort()
		return err
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Chmod(f.tmp.Name(), 0644); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort discards the temporary file and leaves the destination untouched.
func (f *AtomicFile) Abort() error {
	_ = f.tmp.Close()
	return os.Remove(f.tmp.Name())
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Abort()
		return err
	}
	return f.Commit()
}
