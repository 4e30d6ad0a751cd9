// Package thumbs derives preview images from video files.
package thumbs

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// FFmpegExtractor extracts preview frames by invoking the ffmpeg binary.
// Extraction is best-effort: callers treat any error as "no thumbnail".
type FFmpegExtractor struct {
	binary    string
	outputDir string
}

// NewFFmpegExtractor creates an extractor using the given ffmpeg binary
// (empty means "ffmpeg" on PATH) writing previews into outputDir (empty
// means the OS temp dir).
func NewFFmpegExtractor(binary, outputDir string) *FFmpegExtractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	return &FFmpegExtractor{binary: binary, outputDir: outputDir}
}

// ExtractFrame decodes a single frame at the given offset and returns the
// path of the written JPEG.
func (e *FFmpegExtractor) ExtractFrame(path string, offset time.Duration) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating thumbnail directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(e.outputDir, base+".jpg")

	cmd := exec.Command(e.binary,
		"-ss", fmt.Sprintf("%.3f", offset.Seconds()),
		"-i", path,
		"-frames:v", "1",
		"-q:v", "3",
		"-y",
		out,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg frame extraction: %w: %s", err, firstLine(output))
	}

	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	return out, nil
}

func firstLine(output []byte) string {
	s := strings.TrimSpace(string(output))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Compile-time check that FFmpegExtractor implements provid.FrameExtractor.
var _ provid.FrameExtractor = (*FFmpegExtractor)(nil)
