package provid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// FingerprintSize is the length of a rendered fingerprint: a SHA-256 digest
// as lowercase hex.
const FingerprintSize = sha256.Size * 2

// Fingerprint computes the content fingerprint of the asset behind loc.
// The digest is a pure function of the asset's bytes: no device identity,
// timestamp, or randomness enters it, and identical bytes always yield the
// identical fingerprint regardless of which URI they were reached through.
//
// Returns *UnreadableAssetError when the locator's scheme cannot be opened
// for byte access (e.g. an OS-managed library identifier).
func Fingerprint(loc AssetLocator) (string, error) {
	if !loc.ByteReadable() {
		return "", &UnreadableAssetError{URI: loc.URI()}
	}

	f, err := os.Open(loc.Path())
	if err != nil {
		return "", fmt.Errorf("opening asset %s: %w", loc.Path(), err)
	}
	defer f.Close()

	return FingerprintReader(f)
}

// FingerprintReader computes the fingerprint of all bytes read from r.
func FingerprintReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing asset content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FingerprintBytes computes the fingerprint of an in-memory payload.
func FingerprintBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
