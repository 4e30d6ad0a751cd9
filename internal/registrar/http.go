// Package registrar implements the registration authority client.
package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	v1 "github.com/hsnkilic/ProofVid/api/v1"
	"github.com/hsnkilic/ProofVid/internal/provid"
)

// defaultTimeout bounds a single registration round trip. Registration is
// interactive; a hung authority should surface as a failure the user can
// see, not an indefinite spinner.
const defaultTimeout = 30 * time.Second

// HTTPRegistrar submits fingerprints to the authority over HTTP.
// It performs no retries and no caching: every call is one network round
// trip, and idempotency is enforced authority-side by fingerprint.
type HTTPRegistrar struct {
	baseURL string
	client  *http.Client
	logger  provid.Logger
}

// NewHTTPRegistrar creates a registrar for the authority at baseURL
// (scheme + host, no trailing slash required).
func NewHTTPRegistrar(baseURL string, logger provid.Logger) *HTTPRegistrar {
	return &HTTPRegistrar{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// Register submits the fingerprint and interprets the authority's reply.
// 2xx yields a Certificate, 409 yields *provid.AlreadyRegisteredError, and
// anything else yields *provid.RegistrationFailedError carrying the
// server-provided message when one is present.
func (r *HTTPRegistrar) Register(ctx context.Context, fingerprint, deviceInfo, metadata string) (*provid.Certificate, error) {
	if !v1.RegexpSHA256.MatchString(fingerprint) {
		return nil, &provid.RegistrationFailedError{Reason: fmt.Sprintf("malformed fingerprint %q", fingerprint)}
	}

	body, err := json.Marshal(v1.RegisterRequest{
		Hash:       fingerprint,
		DeviceInfo: deviceInfo,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, &provid.RegistrationFailedError{Reason: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+v1.RegisterRoute, bytes.NewReader(body))
	if err != nil {
		return nil, &provid.RegistrationFailedError{Reason: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.Debug("registering fingerprint", "hash", fingerprint, "authority", r.baseURL)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &provid.RegistrationFailedError{Reason: "contacting authority", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// Duplicate content correctly detected. The body is not relied
		// upon beyond the status.
		io.Copy(io.Discard, resp.Body)
		return nil, &provid.AlreadyRegisteredError{Fingerprint: fingerprint}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &provid.RegistrationFailedError{Reason: errorReason(resp)}
	}

	var reply v1.RegisterReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &provid.RegistrationFailedError{Reason: "decoding authority reply", Err: err}
	}
	if !reply.Success {
		return nil, &provid.RegistrationFailedError{Reason: "authority reported failure"}
	}

	return &provid.Certificate{
		CertificateID: reply.CertificateID,
		Hash:          reply.Hash,
		IssuedAt:      reply.Timestamp,
		Success:       reply.Success,
	}, nil
}

// errorReason extracts the server-provided error message if present, else a
// default message for the status.
func errorReason(resp *http.Response) string {
	var errReply v1.ErrorReply
	if err := json.NewDecoder(resp.Body).Decode(&errReply); err == nil && errReply.Error != "" {
		return errReply.Error
	}
	return fmt.Sprintf("authority returned %s", resp.Status)
}

// Compile-time check that HTTPRegistrar implements provid.Registrar.
var _ provid.Registrar = (*HTTPRegistrar)(nil)
