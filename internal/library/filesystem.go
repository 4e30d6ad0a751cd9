// Package library provides durable storage backends for committed captures.
package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// FileSystemLibrary commits captures into a directory on local storage.
// Committed files keep the capture's base name; capture files are uniquely
// named by the capture surface, so collisions mean re-commit of the same
// recording and are treated as idempotent overwrites.
type FileSystemLibrary struct {
	root string
}

// NewFileSystemLibrary creates a library rooted at the given directory.
func NewFileSystemLibrary(root string) (*FileSystemLibrary, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}
	return &FileSystemLibrary{root: root}, nil
}

// Commit copies the capture into the library and returns its new locator.
// The copy is written atomically (temp file + rename) so a crash mid-commit
// never leaves a half-written library asset.
func (l *FileSystemLibrary) Commit(loc provid.AssetLocator) (provid.AssetLocator, error) {
	if !loc.ByteReadable() {
		return provid.AssetLocator{}, &provid.PersistenceError{
			Op:  "commit",
			Err: &provid.UnreadableAssetError{URI: loc.URI()},
		}
	}

	src, err := os.Open(loc.Path())
	if err != nil {
		return provid.AssetLocator{}, &provid.PersistenceError{Op: "commit", Err: err}
	}
	defer src.Close()

	destPath := filepath.Join(l.root, filepath.Base(loc.Path()))
	if err := writeFileAtomic(destPath, src); err != nil {
		return provid.AssetLocator{}, &provid.PersistenceError{Op: "commit", Err: err}
	}

	return provid.LibraryLocator(destPath), nil
}

// writeFileAtomic writes data from r to destPath using a temp file in the
// same directory followed by a rename.
func writeFileAtomic(destPath string, r io.Reader) error {
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemLibrary implements provid.LibraryStore.
var _ provid.LibraryStore = (*FileSystemLibrary)(nil)
