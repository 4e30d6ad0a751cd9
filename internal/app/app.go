// Package app is the application layer between the CLI and the provenance
// core. It constructs all dependencies from config and exposes high-level
// operations that accept raw string paths.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hsnkilic/ProofVid/internal/camera"
	"github.com/hsnkilic/ProofVid/internal/config"
	"github.com/hsnkilic/ProofVid/internal/ledger"
	"github.com/hsnkilic/ProofVid/internal/library"
	"github.com/hsnkilic/ProofVid/internal/provid"
	"github.com/hsnkilic/ProofVid/internal/registrar"
	"github.com/hsnkilic/ProofVid/internal/thumbs"
)

// App wires the provenance core to its configured backends and manages
// their lifecycle on Close.
type App struct {
	cfg     *config.Config
	ledger  provid.Ledger
	service *provid.Service
	logger  provid.Logger
	logFile *os.File
}

// RecordingView is a ledger record paired with its derived preview, ready
// for display.
type RecordingView struct {
	Record    provid.Record
	Thumbnail string // empty when no preview could be derived
	HasThumb  bool
}

// NewApp creates a fully wired App from the given config.
// sessionID identifies the CLI invocation in the log stream.
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, sessionID string) (*App, error) {
	slogger, logFile, err := newLogger(cfg.LogDir, sessionID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	led, err := ledger.NewLedgerFromConfig(cfg.Ledger)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	lib, err := library.NewLibraryFromConfig(ctx, cfg.Library)
	if err != nil {
		led.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating library: %w", err)
	}

	extractor := thumbs.NewFFmpegExtractor(cfg.Thumbnails.FFmpegPath, cfg.Thumbnails.OutputDir)
	resolver := provid.NewAssetResolver(lib, extractor, logger)
	reg := registrar.NewHTTPRegistrar(cfg.Authority.URL, logger)
	svc := provid.NewService(led, reg, resolver, logger, provid.RealClock{}, cfg.DeviceInfo, cfg.Platform)

	return &App{
		cfg:     cfg,
		ledger:  led,
		service: svc,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// RecordAndRegister runs one complete recording attempt sourced from the
// video at sourcePath and blocks until it reaches a terminal state. onTick,
// if non-nil, receives the elapsed seconds once per second while recording.
// stopCh, if non-nil, stops the recording when it is closed or receives.
func (a *App) RecordAndRegister(ctx context.Context, sourcePath string, onTick func(int), stopCh <-chan struct{}) (*provid.Attempt, error) {
	src, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("source video: %w", err)
	}

	cam := camera.NewFileCamera(src, a.cfg.Capture.CaptureDir, provid.UUIDGenerator{})
	ctrl := provid.NewController(cam, provid.GrantedCapability{}, a.service, provid.RealClock{}, provid.UUIDGenerator{}, a.logger)
	ctrl.OnTick = onTick

	if stopCh != nil {
		go func() {
			<-stopCh
			ctrl.Stop()
		}()
	}

	return ctrl.Start(ctx)
}

// AuthenticateFile fingerprints and registers an already-captured video and
// appends the resulting record to the ledger.
func (a *App) AuthenticateFile(ctx context.Context, rawPath string) (*provid.Record, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.ProcessCapture(ctx, absPath)
}

// ListRecordings returns all ledger records, most-recent-first, each paired
// with its preview thumbnail when one can be derived.
func (a *App) ListRecordings() ([]RecordingView, error) {
	records, err := a.service.Recordings()
	if err != nil {
		return nil, err
	}

	views := make([]RecordingView, 0, len(records))
	for _, r := range records {
		thumb, ok := a.service.Thumbnail(r)
		views = append(views, RecordingView{Record: r, Thumbnail: thumb, HasThumb: ok})
	}
	return views, nil
}

// RemoveRecording deletes the record with the given identity key from the
// local ledger only.
func (a *App) RemoveRecording(key string) error {
	return a.service.RemoveRecording(key)
}

// Close releases the ledger and the log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.ledger.Close(); err != nil {
		firstErr = fmt.Errorf("closing ledger: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
