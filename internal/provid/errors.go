package provid

import (
	"errors"
	"fmt"
)

// ErrAttemptInProgress is returned by Controller.Start while another
// recording attempt is still in flight. New attempts are rejected, not
// queued.
var ErrAttemptInProgress = errors.New("a recording attempt is already in progress")

// ErrPermissionDenied is returned by Controller.Start when the capture
// capability (camera + microphone) has not been granted. Start fails closed
// and the machine stays in Idle.
var ErrPermissionDenied = errors.New("camera and microphone permission not granted")

// UnreadableAssetError indicates that an asset locator cannot be opened for
// byte access, so fingerprinting (or thumbnailing) cannot proceed. The
// attempt is fatal but the user can retry with a new capture.
type UnreadableAssetError struct {
	URI string
}

func (e *UnreadableAssetError) Error() string {
	return fmt.Sprintf("asset is not byte-readable: %s", e.URI)
}

// AlreadyRegisteredError reports that the authority has previously issued a
// certificate for this fingerprint. This is a correct duplicate detection,
// not a system failure: callers must not append a ledger record and must
// present it distinctly from generic errors.
type AlreadyRegisteredError struct {
	Fingerprint string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("fingerprint already registered: %s", e.Fingerprint)
}

// RegistrationFailedError reports a network or authority failure during
// registration. No local state changes; the user may retry with a new
// attempt.
type RegistrationFailedError struct {
	Reason string
	Err    error
}

func (e *RegistrationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registration failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("registration failed: %s", e.Reason)
}

func (e *RegistrationFailedError) Unwrap() error { return e.Err }

// PersistenceError reports a local durable-storage failure. Op names the
// failed operation ("commit", "append", "list", "remove"). For asset commit
// the pipeline degrades gracefully; for ledger append it fails the attempt
// even though the certificate already exists at the authority.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
