package provid

import (
	"sync"
	"time"
)

// ThumbnailOffset is the fixed extraction point for preview frames.
// Shorter videos are best-effort: the decoder decides, and failures surface
// as an absent thumbnail rather than an error.
const ThumbnailOffset = 1 * time.Second

// LibraryStore commits ephemeral captures into durable storage.
type LibraryStore interface {
	// Commit copies the capture file behind loc into durable storage and
	// returns the resulting library locator. The committed copy denotes
	// exactly the same bytes as the capture at the moment it is created;
	// no guarantee is maintained about the ephemeral file afterwards.
	// Returns *PersistenceError when storage is unavailable or permission
	// is revoked.
	Commit(loc AssetLocator) (AssetLocator, error)
}

// FrameExtractor derives a still preview image from a byte-readable video.
type FrameExtractor interface {
	// ExtractFrame decodes one frame at the given offset from the video at
	// path and returns the URI of the written preview image.
	ExtractFrame(path string, offset time.Duration) (previewURI string, err error)
}

// AssetResolver reconciles the URI spaces that can all refer to the same
// recording and derives preview thumbnails. Thumbnails are cached in memory
// per record key for the lifetime of the process only; they are regenerated
// each session.
type AssetResolver struct {
	library   LibraryStore
	extractor FrameExtractor
	logger    Logger

	mu     sync.Mutex
	thumbs map[string]string // record key -> preview URI
}

// NewAssetResolver creates a resolver over the given library store and
// frame extractor.
func NewAssetResolver(library LibraryStore, extractor FrameExtractor, logger Logger) *AssetResolver {
	return &AssetResolver{
		library:   library,
		extractor: extractor,
		logger:    logger,
		thumbs:    make(map[string]string),
	}
}

// Commit persists the capture into the library. Persistence is best-effort
// from the pipeline's point of view: on *PersistenceError the caller keeps
// the ephemeral locator and the registration is not blocked.
func (r *AssetResolver) Commit(loc AssetLocator) (AssetLocator, error) {
	return r.library.Commit(loc)
}

// Thumbnail returns the preview image URI for a ledger record, deriving it
// on first use. The byte-readable source is preferred (the capture file
// first, since the library handle may use an opaque scheme). Returns
// ok=false, never an error, when no byte-readable source exists or
// extraction fails: callers render a placeholder.
func (r *AssetResolver) Thumbnail(record Record) (uri string, ok bool) {
	r.mu.Lock()
	if cached, hit := r.thumbs[record.Key()]; hit {
		r.mu.Unlock()
		return cached, true
	}
	r.mu.Unlock()

	src, ok := thumbnailSource(record)
	if !ok {
		return "", false
	}

	preview, err := r.extractor.ExtractFrame(src.Path(), ThumbnailOffset)
	if err != nil {
		// Best effort: the capture file may have been garbage-collected
		// by the OS, or the clip may be shorter than the offset.
		r.logger.Debug("thumbnail extraction failed", "source", src.URI(), "error", err)
		return "", false
	}

	r.mu.Lock()
	r.thumbs[record.Key()] = preview
	r.mu.Unlock()
	return preview, true
}

// thumbnailSource picks the record URI most likely to still be readable on
// disk: the capture/file URI pair first, then the library handle.
func thumbnailSource(record Record) (AssetLocator, bool) {
	for _, uri := range []string{record.FileURI, record.URI, record.LibraryURI} {
		if uri == "" {
			continue
		}
		if loc := ParseLocator(uri); loc.ByteReadable() {
			return loc, true
		}
	}
	return AssetLocator{}, false
}
