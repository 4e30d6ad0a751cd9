package library

import (
	"context"
	"fmt"

	"github.com/hsnkilic/ProofVid/internal/config"
	"github.com/hsnkilic/ProofVid/internal/provid"
)

// NewLibraryFromConfig creates a LibraryStore implementation based on the
// library config type.
func NewLibraryFromConfig(ctx context.Context, cfg config.LibraryConfig) (provid.LibraryStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryLibrary(), nil
	case "s3":
		return NewS3Library(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "filesystem":
		if cfg.LibraryRoot == "" {
			return nil, fmt.Errorf("filesystem library requires library_root to be set")
		}
		return NewFileSystemLibrary(cfg.LibraryRoot)
	default:
		return nil, fmt.Errorf("unknown library type: %s", cfg.Type)
	}
}
