package provid

import "context"

// Camera is the device capture surface. Implementations wrap whatever
// actually produces video bytes (a hardware camera, or a file-backed
// simulator in the CLI and tests).
type Camera interface {
	// Record begins a capture and blocks until the recording is stopped
	// (via Stop, or cooperatively through ctx cancellation), then returns
	// the URI of the ephemeral capture file holding whatever bytes were
	// captured.
	Record(ctx context.Context) (captureURI string, err error)

	// Stop asks the capture to finish. Cooperative: Record proceeds with
	// the bytes captured so far. Safe to call when not recording.
	Stop()
}

// Capability is the permission gate for starting a capture. Permission
// acquisition flows live in the presentation layer; the core only checks
// the resulting capability and fails closed when it is absent.
type Capability interface {
	// Granted reports whether camera and microphone access is available.
	Granted() bool
}

// GrantedCapability is a Capability that is always granted. The CLI uses it
// because process-level file access needs no runtime permission.
type GrantedCapability struct{}

func (GrantedCapability) Granted() bool { return true }
