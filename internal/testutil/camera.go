package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// ScriptedCamera is a provid.Camera whose Record blocks until Stop or
// context cancellation, then returns a preconfigured capture URI.
type ScriptedCamera struct {
	CaptureURI string
	Err        error // returned instead of CaptureURI when set

	mu        sync.Mutex
	stop      chan struct{}
	recording chan struct{} // closed when Record is underway
}

// NewScriptedCamera creates a camera returning the given capture URI.
func NewScriptedCamera(captureURI string) *ScriptedCamera {
	return &ScriptedCamera{
		CaptureURI: captureURI,
		stop:       make(chan struct{}),
		recording:  make(chan struct{}),
	}
}

func (c *ScriptedCamera) Record(ctx context.Context) (string, error) {
	c.mu.Lock()
	recording := c.recording
	stop := c.stop
	c.mu.Unlock()

	close(recording)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	if c.Err != nil {
		return "", c.Err
	}
	return c.CaptureURI, nil
}

func (c *ScriptedCamera) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

// Recording returns a channel that is closed once Record has started.
func (c *ScriptedCamera) Recording() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Reset re-arms the camera for another Record call.
func (c *ScriptedCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop = make(chan struct{})
	c.recording = make(chan struct{})
}

// DeniedCapability is a provid.Capability that always refuses.
type DeniedCapability struct{}

func (DeniedCapability) Granted() bool { return false }

// WriteCaptureFile writes content to a file under a test temp dir and
// returns its path, for use as a byte-readable capture URI.
func WriteCaptureFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write capture file: %v", err)
	}
	return path
}

// Compile-time checks against the provid interfaces.
var (
	_ provid.Camera     = (*ScriptedCamera)(nil)
	_ provid.Capability = DeniedCapability{}
)
