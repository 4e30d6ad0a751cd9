package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// MemoryLibrary is an in-memory implementation of provid.LibraryStore.
// It stores committed content in a map, making it useful for testing.
// Returned locators use the mem:// scheme through LibraryLocator, so they
// are durable handles without local byte access. Safe for concurrent use.
type MemoryLibrary struct {
	mu      sync.Mutex
	content map[string][]byte // base name -> bytes

	// FailCommits forces Commit to fail, for exercising the degraded
	// (ephemeral URI) path.
	FailCommits bool
}

// NewMemoryLibrary creates an empty in-memory library.
func NewMemoryLibrary() *MemoryLibrary {
	return &MemoryLibrary{content: make(map[string][]byte)}
}

// Commit reads the capture into memory and returns an opaque handle.
func (l *MemoryLibrary) Commit(loc provid.AssetLocator) (provid.AssetLocator, error) {
	if l.FailCommits {
		return provid.AssetLocator{}, &provid.PersistenceError{Op: "commit", Err: fmt.Errorf("library unavailable")}
	}
	if !loc.ByteReadable() {
		return provid.AssetLocator{}, &provid.PersistenceError{
			Op:  "commit",
			Err: &provid.UnreadableAssetError{URI: loc.URI()},
		}
	}

	data, err := os.ReadFile(loc.Path())
	if err != nil {
		return provid.AssetLocator{}, &provid.PersistenceError{Op: "commit", Err: err}
	}

	name := filepath.Base(loc.Path())
	l.mu.Lock()
	l.content[name] = data
	l.mu.Unlock()

	return provid.LibraryLocator("mem://" + name), nil
}

// Content returns the committed bytes for a base name, for assertions.
func (l *MemoryLibrary) Content(name string) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.content[name]
	return data, ok
}

// Compile-time check that MemoryLibrary implements provid.LibraryStore.
var _ provid.LibraryStore = (*MemoryLibrary)(nil)
