package provid

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeLibrary struct {
	committed AssetLocator
	err       error
	calls     int
}

func (l *fakeLibrary) Commit(loc AssetLocator) (AssetLocator, error) {
	l.calls++
	if l.err != nil {
		return AssetLocator{}, l.err
	}
	l.committed = loc
	return LibraryLocator("s3://bucket/" + loc.URI()), nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	err   error
	calls int
	paths []string
}

func (e *fakeExtractor) ExtractFrame(path string, offset time.Duration) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.paths = append(e.paths, path)
	if e.err != nil {
		return "", e.err
	}
	return fmt.Sprintf("/thumbs/preview-%d.jpg", e.calls), nil
}

func TestAssetResolverThumbnail(t *testing.T) {
	t.Run("derives from the capture file and caches", func(t *testing.T) {
		t.Parallel()

		ext := &fakeExtractor{}
		r := NewAssetResolver(&fakeLibrary{}, ext, NewNopLogger())

		record := Record{
			URI:        "/captures/a.mp4",
			FileURI:    "/captures/a.mp4",
			LibraryURI: "s3://bucket/a.mp4",
		}

		uri, ok := r.Thumbnail(record)
		if !ok {
			t.Fatal("Thumbnail() ok = false, want true")
		}
		if uri != "/thumbs/preview-1.jpg" {
			t.Errorf("Thumbnail() = %q", uri)
		}
		if len(ext.paths) != 1 || ext.paths[0] != "/captures/a.mp4" {
			t.Errorf("extractor paths = %v, want the capture file", ext.paths)
		}

		again, ok := r.Thumbnail(record)
		if !ok || again != uri {
			t.Errorf("second Thumbnail() = %q, %v, want cached %q", again, ok, uri)
		}
		if ext.calls != 1 {
			t.Errorf("extractor calls = %d, want 1 (cached)", ext.calls)
		}
	})

	t.Run("falls back to a readable library handle", func(t *testing.T) {
		t.Parallel()

		ext := &fakeExtractor{}
		r := NewAssetResolver(&fakeLibrary{}, ext, NewNopLogger())

		record := Record{
			URI:        "ph://ABC/L0/001",
			LibraryURI: "/library/a.mp4",
		}

		if _, ok := r.Thumbnail(record); !ok {
			t.Fatal("Thumbnail() ok = false, want true")
		}
		if len(ext.paths) != 1 || ext.paths[0] != "/library/a.mp4" {
			t.Errorf("extractor paths = %v, want the library file", ext.paths)
		}
	})

	t.Run("absent when no source is byte-readable", func(t *testing.T) {
		t.Parallel()

		ext := &fakeExtractor{}
		r := NewAssetResolver(&fakeLibrary{}, ext, NewNopLogger())

		record := Record{
			URI:        "ph://ABC/L0/001",
			LibraryURI: "assets-library://asset/asset.MOV",
		}

		if uri, ok := r.Thumbnail(record); ok {
			t.Errorf("Thumbnail() = %q, true; want absent", uri)
		}
		if ext.calls != 0 {
			t.Errorf("extractor calls = %d, want 0", ext.calls)
		}
	})

	t.Run("extraction failure is absence, not an error", func(t *testing.T) {
		t.Parallel()

		ext := &fakeExtractor{err: fmt.Errorf("short clip")}
		r := NewAssetResolver(&fakeLibrary{}, ext, NewNopLogger())

		record := Record{URI: "/captures/a.mp4", FileURI: "/captures/a.mp4"}

		if _, ok := r.Thumbnail(record); ok {
			t.Fatal("Thumbnail() ok = true, want false on extraction failure")
		}

		// Failures are not cached; a later call retries.
		r.Thumbnail(record)
		if ext.calls != 2 {
			t.Errorf("extractor calls = %d, want 2 (failure retried)", ext.calls)
		}
	})
}
