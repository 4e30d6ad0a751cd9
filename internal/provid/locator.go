package provid

import "strings"

// LocatorKind discriminates the URI spaces that can reference the same
// logical recording.
type LocatorKind int

const (
	// KindEphemeral is a direct filesystem path (optionally file://). The
	// bytes are readable while the OS leaves the capture file in place.
	KindEphemeral LocatorKind = iota

	// KindLibrary is a durable handle in device or remote storage. Library
	// handles are not necessarily byte-readable (ph://, assets-library://,
	// s3:// schemes are opaque to local readers).
	KindLibrary

	// KindUnresolvable is a locator whose scheme is not recognized at all.
	KindUnresolvable
)

// AssetLocator is a parsed reference to a video asset. It replaces raw
// string-prefix sniffing with an explicit tagged value: parse once, then ask
// the locator what it supports.
type AssetLocator struct {
	kind LocatorKind
	uri  string
	path string // local filesystem path, only for byte-readable locators
}

// opaque URI schemes that denote durable library handles without local byte
// access. Kept as the single place where legacy scheme matching lives.
var opaqueSchemes = []string{"ph://", "assets-library://", "s3://"}

// ParseLocator classifies a raw URI string into an AssetLocator.
// Accepted ephemeral forms are file:// URIs and bare absolute paths.
func ParseLocator(uri string) AssetLocator {
	switch {
	case uri == "":
		return AssetLocator{kind: KindUnresolvable, uri: uri}
	case strings.HasPrefix(uri, "file://"):
		return AssetLocator{kind: KindEphemeral, uri: uri, path: strings.TrimPrefix(uri, "file://")}
	case strings.HasPrefix(uri, "/"):
		return AssetLocator{kind: KindEphemeral, uri: uri, path: uri}
	}
	for _, scheme := range opaqueSchemes {
		if strings.HasPrefix(uri, scheme) {
			return AssetLocator{kind: KindLibrary, uri: uri}
		}
	}
	return AssetLocator{kind: KindUnresolvable, uri: uri}
}

// EphemeralLocator builds a locator for a local capture file path.
func EphemeralLocator(path string) AssetLocator {
	return AssetLocator{kind: KindEphemeral, uri: path, path: path}
}

// LibraryLocator builds a locator for a durable library handle. If the
// handle is a local file path (filesystem-backed library), it remains
// byte-readable.
func LibraryLocator(uri string) AssetLocator {
	loc := ParseLocator(uri)
	loc.kind = KindLibrary
	return loc
}

// Kind returns the locator's discriminant.
func (l AssetLocator) Kind() LocatorKind { return l.kind }

// URI returns the original string form.
func (l AssetLocator) URI() string { return l.uri }

// ByteReadable reports whether the locator can be opened as a local byte
// stream.
func (l AssetLocator) ByteReadable() bool { return l.path != "" }

// Path returns the local filesystem path for byte-readable locators and ""
// otherwise.
func (l AssetLocator) Path() string { return l.path }
