package nvs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	// dirPermissions is the permission mode for the image directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the image file.
	filePermissions = 0600
)

// File is a Medium backed by a single image file.
//
// Commit writes the full image to a temporary file in the same directory,
// syncs it and renames it over the previous image, so a crash mid-commit
// leaves either the old or the new image on disk.
type File struct {
	shadow
	path string
}

var _ Medium = (*File)(nil)

// NewFile returns a file medium for path. Nothing is touched until Open.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the image file path.
func (f *File) Path() string {
	return f.path
}

// Open reads the image file into the shadow. A missing file is an erased
// region. The directory is created if it does not exist.
func (f *File) Open(capacity int) error {
	if err := os.MkdirAll(filepath.Dir(f.path), dirPermissions); err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}

	data, err := os.ReadFile(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading image file: %w", err)
	}

	return f.load(data, capacity)
}

// Commit atomically replaces the image file with the shadow.
func (f *File) Commit() error {
	data, err := f.snapshot()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrCommitFailed, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // No-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("%w: writing image: %w", ErrCommitFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("%w: syncing image: %w", ErrCommitFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing image: %w", ErrCommitFailed, err)
	}
	if err := os.Chmod(tmpPath, filePermissions); err != nil {
		return fmt.Errorf("%w: setting permissions: %w", ErrCommitFailed, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("%w: replacing image: %w", ErrCommitFailed, err)
	}

	return nil
}

// Close drops the shadow.
func (f *File) Close() error {
	f.buf = nil
	return nil
}
