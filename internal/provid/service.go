package provid

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service coordinates the authentication pipeline: fingerprint a finished
// capture, exchange the fingerprint for a certificate, durably relocate the
// asset, and append the combined record to the ledger. It is also the read
// side used by listing views.
type Service struct {
	ledger     Ledger
	registrar  Registrar
	resolver   *AssetResolver
	logger     Logger
	clock      Clock
	deviceInfo string
	platform   string
}

// NewService creates a Service with the provided dependencies.
// deviceInfo is the human-readable device descriptor sent to the authority
// and stored on every record (e.g. "iOS 17"); platform is the short
// platform name carried in registration metadata (e.g. "ios", "linux").
func NewService(ledger Ledger, registrar Registrar, resolver *AssetResolver, logger Logger, clock Clock, deviceInfo, platform string) *Service {
	return &Service{
		ledger:     ledger,
		registrar:  registrar,
		resolver:   resolver,
		logger:     logger,
		clock:      clock,
		deviceInfo: deviceInfo,
		platform:   platform,
	}
}

// registrationMetadata is the opaque blob sent alongside a fingerprint.
type registrationMetadata struct {
	Timestamp string `json:"timestamp"`
	Platform  string `json:"platform"`
}

// ProcessCapture runs the full post-capture pipeline for the recording at
// captureURI and returns the appended ledger record. This is the path used
// when authenticating an already-captured or user-selected video; the
// capture state machine drives the same three steps individually.
//
// Ordering matters: the fingerprint is computed before any data leaves the
// device (the authority never sees video bytes), registration happens before
// the asset is committed, and the ledger append is last.
func (s *Service) ProcessCapture(ctx context.Context, captureURI string) (*Record, error) {
	fingerprint, err := s.FingerprintCapture(captureURI)
	if err != nil {
		return nil, err
	}

	cert, err := s.Register(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	return s.CommitAndAppend(captureURI, cert)
}

// FingerprintCapture computes the content fingerprint of the capture file.
// Returns *UnreadableAssetError when the URI is not byte-readable.
func (s *Service) FingerprintCapture(captureURI string) (string, error) {
	fingerprint, err := Fingerprint(ParseLocator(captureURI))
	if err != nil {
		return "", err
	}
	s.logger.Debug("fingerprint computed", "uri", captureURI, "hash", fingerprint)
	return fingerprint, nil
}

// Register exchanges a fingerprint for a certificate, attaching the device
// descriptor and the standard metadata blob (client timestamp + platform).
func (s *Service) Register(ctx context.Context, fingerprint string) (*Certificate, error) {
	meta, err := json.Marshal(registrationMetadata{
		Timestamp: s.clock.Now().UTC().Format(time.RFC3339),
		Platform:  s.platform,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding registration metadata: %w", err)
	}

	cert, err := s.registrar.Register(ctx, fingerprint, s.deviceInfo, string(meta))
	if err != nil {
		return nil, err
	}
	s.logger.Info("certificate issued", "certificate_id", cert.CertificateID, "hash", cert.Hash)
	return cert, nil
}

// CommitAndAppend durably relocates the asset and appends the combined
// record to the ledger.
//
// A commit failure degrades to the ephemeral URI and does not abort the
// pipeline. An append failure does, even though the certificate was already
// issued; that inconsistency is surfaced, not swallowed.
func (s *Service) CommitAndAppend(captureURI string, cert *Certificate) (*Record, error) {
	// Best-effort durable relocation. On failure the record keeps the
	// ephemeral URI in all three slots, matching the capture-time layout.
	libraryURI := captureURI
	if committed, err := s.resolver.Commit(ParseLocator(captureURI)); err != nil {
		s.logger.Warn("asset commit failed, keeping ephemeral URI", "uri", captureURI, "error", err)
	} else {
		libraryURI = committed.URI()
	}

	record := Record{
		URI:           captureURI,
		FileURI:       captureURI,
		LibraryURI:    libraryURI,
		Hash:          cert.Hash,
		CertificateID: cert.CertificateID,
		Timestamp:     cert.IssuedAt,
		DeviceInfo:    s.deviceInfo,
	}

	if err := s.ledger.Append(record); err != nil {
		// The certificate exists at the authority but the record is not
		// visible locally. Documented inconsistency.
		s.logger.Error("ledger append failed after certificate issuance",
			"certificate_id", cert.CertificateID, "error", err)
		return nil, err
	}

	s.logger.Info("recording authenticated", "uri", captureURI, "certificate_id", cert.CertificateID)
	return &record, nil
}

// Recordings returns all ledger records, most-recent-first, with device
// descriptors normalized for display.
func (s *Service) Recordings() ([]Record, error) {
	records, err := s.ledger.List()
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].DeviceInfo = NormalizeDeviceInfo(records[i].DeviceInfo)
	}
	return records, nil
}

// RemoveRecording deletes the record with the given identity key from the
// local ledger. The authority's certificate is unaffected.
func (s *Service) RemoveRecording(key string) error {
	if err := s.ledger.Remove(key); err != nil {
		return err
	}
	s.logger.Info("recording removed from ledger", "key", key)
	return nil
}

// Thumbnail returns the preview image URI for a record, or ok=false when no
// preview can be derived.
func (s *Service) Thumbnail(record Record) (string, bool) {
	return s.resolver.Thumbnail(record)
}
