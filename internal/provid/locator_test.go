package provid

import "testing"

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name         string
		uri          string
		wantKind     LocatorKind
		wantReadable bool
		wantPath     string
	}{
		{"file URI", "file:///var/captures/a.mp4", KindEphemeral, true, "/var/captures/a.mp4"},
		{"bare absolute path", "/var/captures/a.mp4", KindEphemeral, true, "/var/captures/a.mp4"},
		{"photo library handle", "ph://ABC123/L0/001", KindLibrary, false, ""},
		{"assets library handle", "assets-library://asset/asset.MOV", KindLibrary, false, ""},
		{"s3 handle", "s3://bucket/key.mp4", KindLibrary, false, ""},
		{"empty", "", KindUnresolvable, false, ""},
		{"unknown scheme", "gopher://what", KindUnresolvable, false, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loc := ParseLocator(tt.uri)
			if loc.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", loc.Kind(), tt.wantKind)
			}
			if loc.ByteReadable() != tt.wantReadable {
				t.Errorf("ByteReadable() = %v, want %v", loc.ByteReadable(), tt.wantReadable)
			}
			if loc.Path() != tt.wantPath {
				t.Errorf("Path() = %q, want %q", loc.Path(), tt.wantPath)
			}
			if loc.URI() != tt.uri {
				t.Errorf("URI() = %q, want %q", loc.URI(), tt.uri)
			}
		})
	}
}

func TestLibraryLocator(t *testing.T) {
	t.Run("local path stays byte-readable", func(t *testing.T) {
		t.Parallel()

		loc := LibraryLocator("/library/a.mp4")
		if loc.Kind() != KindLibrary {
			t.Errorf("Kind() = %v, want KindLibrary", loc.Kind())
		}
		if !loc.ByteReadable() {
			t.Error("filesystem library handle should be byte-readable")
		}
	})

	t.Run("opaque handle is not byte-readable", func(t *testing.T) {
		t.Parallel()

		loc := LibraryLocator("s3://bucket/a.mp4")
		if loc.ByteReadable() {
			t.Error("s3 handle should not be byte-readable")
		}
	})
}
