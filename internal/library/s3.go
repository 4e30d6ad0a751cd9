package library

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// S3Library commits captures into an S3 bucket. The returned locators use
// the s3:// scheme, which is a valid durable handle but not byte-readable
// locally: thumbnail derivation falls back to the ephemeral capture file or
// a placeholder.
type S3Library struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

// S3Options configures an S3Library.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string // static credentials; empty uses the default chain
	SecretKey string
}

// NewS3Library creates a library backed by the given bucket.
func NewS3Library(ctx context.Context, opts S3Options) (*S3Library, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 library requires a bucket")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Library{
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
		uploader: manager.NewUploader(client),
	}, nil
}

// Commit uploads the capture to the bucket under its base name.
func (l *S3Library) Commit(loc provid.AssetLocator) (provid.AssetLocator, error) {
	if !loc.ByteReadable() {
		return provid.AssetLocator{}, &provid.PersistenceError{
			Op:  "commit",
			Err: &provid.UnreadableAssetError{URI: loc.URI()},
		}
	}

	f, err := os.Open(loc.Path())
	if err != nil {
		return provid.AssetLocator{}, &provid.PersistenceError{Op: "commit", Err: err}
	}
	defer f.Close()

	key := path.Join(l.prefix, filepath.Base(loc.Path()))
	_, err = l.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(l.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return provid.AssetLocator{}, &provid.PersistenceError{Op: "commit", Err: err}
	}

	return provid.LibraryLocator(fmt.Sprintf("s3://%s/%s", l.bucket, key)), nil
}

// Compile-time check that S3Library implements provid.LibraryStore.
var _ provid.LibraryStore = (*S3Library)(nil)
