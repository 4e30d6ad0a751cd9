// Package v1 defines the wire contract between ProofVid clients and the
// registration authority. Both the HTTP client and the test authority build
// against these types so the JSON shapes cannot drift apart.
package v1

import "regexp"

const (
	// APIVersion defines the version number for this contract.
	APIVersion = 1

	// RegisterRoute is the API route for registering a video fingerprint.
	RegisterRoute = "/api/register"
)

// RegexpSHA256 is the valid text representation of a SHA-256 fingerprint.
var RegexpSHA256 = regexp.MustCompile("^[a-f0-9]{64}$")

// RegisterRequest asks the authority to issue a certificate for a
// fingerprint. It carries no video content and no filenames: the fingerprint,
// a human-readable device descriptor, and an opaque metadata blob (minimally
// JSON with a client timestamp and platform name).
type RegisterRequest struct {
	Hash       string `json:"hash"`
	DeviceInfo string `json:"device_info"`
	Metadata   string `json:"metadata"`
}

// RegisterReply is returned by the authority on successful registration.
// Timestamp is the authority clock in ISO-8601.
type RegisterReply struct {
	Success       bool   `json:"success"`
	CertificateID string `json:"certificate_id"`
	Hash          string `json:"hash"`
	Timestamp     string `json:"timestamp"`
}

// ErrorReply carries the authority's error message for non-2xx responses.
// For 409 (fingerprint already registered) the status alone is authoritative;
// clients must not rely on the body.
type ErrorReply struct {
	Error string `json:"error"`
}
