// Package camera provides capture-surface implementations. There is no
// hardware camera in a CLI process; the file camera "records" by snapshotting
// a source video into the ephemeral capture directory when the session is
// stopped, which preserves the capture lifecycle the core expects.
package camera

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// FileCamera is a provid.Camera backed by an existing video file.
type FileCamera struct {
	source     string
	captureDir string
	idgen      provid.IDGenerator

	mu      sync.Mutex
	stopped chan struct{}
	pending bool // Stop arrived before Record armed the session
}

// NewFileCamera creates a camera that captures the video at sourcePath.
// Capture files land in captureDir with unique names.
func NewFileCamera(sourcePath, captureDir string, idgen provid.IDGenerator) *FileCamera {
	return &FileCamera{
		source:     sourcePath,
		captureDir: captureDir,
		idgen:      idgen,
	}
}

// Record blocks until the session is stopped (Stop or ctx cancellation),
// then writes the capture file and returns its URI.
func (c *FileCamera) Record(ctx context.Context) (string, error) {
	c.mu.Lock()
	c.stopped = make(chan struct{})
	stopped := c.stopped
	if c.pending {
		c.pending = false
		close(stopped)
	}
	c.mu.Unlock()

	select {
	case <-stopped:
	case <-ctx.Done():
		// Cooperative: proceed with whatever was captured.
	}

	return c.writeCapture()
}

// Stop finishes the current recording session. Safe to call repeatedly. A
// Stop arriving before Record is remembered and ends the next session
// immediately.
func (c *FileCamera) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped == nil {
		c.pending = true
		return
	}
	select {
	case <-c.stopped:
	default:
		close(c.stopped)
	}
}

func (c *FileCamera) writeCapture() (string, error) {
	if err := os.MkdirAll(c.captureDir, 0755); err != nil {
		return "", fmt.Errorf("creating capture directory: %w", err)
	}

	src, err := os.Open(c.source)
	if err != nil {
		return "", fmt.Errorf("opening source video: %w", err)
	}
	defer src.Close()

	capturePath := filepath.Join(c.captureDir, fmt.Sprintf("capture-%s%s", c.idgen.New(), filepath.Ext(c.source)))
	dst, err := os.Create(capturePath)
	if err != nil {
		return "", fmt.Errorf("creating capture file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(capturePath)
		return "", fmt.Errorf("writing capture file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing capture file: %w", err)
	}

	return capturePath, nil
}

// Compile-time check that FileCamera implements provid.Camera.
var _ provid.Camera = (*FileCamera)(nil)
