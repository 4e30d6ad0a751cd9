package provid

import "context"

// Certificate is the authority-issued proof binding a fingerprint to an
// issuance timestamp and an opaque identifier. The client never invents one
// locally; certificates are reified from authority replies only.
type Certificate struct {
	CertificateID string
	Hash          string
	IssuedAt      string // authority clock, ISO-8601
	Success       bool
}

// Registrar submits fingerprints to the remote registration authority.
//
// Register blocks until the authority responds or a terminal error occurs.
// Outcomes:
//   - success: the reified Certificate.
//   - *AlreadyRegisteredError: the authority has already issued a
//     certificate for this fingerprint (HTTP 409 equivalent). Not a failure
//     of the recording workflow, but callers must not create a ledger
//     record for it.
//   - *RegistrationFailedError: any other non-2xx response or network
//     failure.
//
// No retry is performed internally: registration is user-initiated and
// interactive, and silent retries would hide cost from the user. Callers
// may retry by calling Register again; idempotency is authority-side,
// keyed by fingerprint.
type Registrar interface {
	Register(ctx context.Context, fingerprint, deviceInfo, metadata string) (*Certificate, error)
}
