package testutil

import (
	"sync"
	"time"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// StubExtractor is a provid.FrameExtractor that returns a canned preview
// URI and counts its calls.
type StubExtractor struct {
	PreviewURI string
	Err        error // returned instead of PreviewURI when set

	mu    sync.Mutex
	calls int
}

// NewStubExtractor creates an extractor returning the given preview URI.
func NewStubExtractor(previewURI string) *StubExtractor {
	return &StubExtractor{PreviewURI: previewURI}
}

func (e *StubExtractor) ExtractFrame(path string, offset time.Duration) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.Err != nil {
		return "", e.Err
	}
	return e.PreviewURI, nil
}

// Calls returns how many times ExtractFrame was invoked.
func (e *StubExtractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Compile-time check that StubExtractor implements provid.FrameExtractor.
var _ provid.FrameExtractor = (*StubExtractor)(nil)
