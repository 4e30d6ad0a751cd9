package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hsnkilic/ProofVid/internal/config"
	"github.com/hsnkilic/ProofVid/internal/provid"
	"github.com/hsnkilic/ProofVid/internal/testutil"
)

func newTestApp(t *testing.T, authorityURL string) *App {
	t.Helper()

	base := t.TempDir()
	cfg := config.NewConfig(authorityURL, base)
	cfg.DeviceInfo = "test device"
	cfg.Platform = "linux"
	cfg.Ledger = config.LedgerConfig{Type: "sqlite", DataDir: filepath.Join(base, "ledger")}
	cfg.Library = config.LibraryConfig{Type: "filesystem", LibraryRoot: filepath.Join(base, "library")}

	a, err := NewApp(context.Background(), cfg, "test-session")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func writeVideo(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}
	return path
}

func TestAppAuthenticateFile(t *testing.T) {
	t.Run("registers and lists a recording", func(t *testing.T) {
		authority := testutil.NewStubAuthority(t)
		a := newTestApp(t, authority.URL())

		content := []byte("full pipeline")
		videoPath := writeVideo(t, content)

		record, err := a.AuthenticateFile(context.Background(), videoPath)
		if err != nil {
			t.Fatalf("AuthenticateFile() error = %v", err)
		}

		wantHash := provid.FingerprintBytes(content)
		if record.Hash != wantHash {
			t.Errorf("Hash = %q, want %q", record.Hash, wantHash)
		}
		if !authority.Registered(wantHash) {
			t.Error("authority did not record the fingerprint")
		}

		// The library copy holds identical bytes to the source.
		committed, err := os.ReadFile(provid.ParseLocator(record.LibraryURI).Path())
		if err != nil {
			t.Fatalf("reading committed copy: %v", err)
		}
		if string(committed) != string(content) {
			t.Errorf("committed bytes differ from the source")
		}

		views, err := a.ListRecordings()
		if err != nil {
			t.Fatalf("ListRecordings() error = %v", err)
		}
		if len(views) != 1 || views[0].Record.CertificateID != record.CertificateID {
			t.Errorf("views = %+v", views)
		}
	})

	t.Run("duplicate content is rejected with a distinct error", func(t *testing.T) {
		authority := testutil.NewStubAuthority(t)
		a := newTestApp(t, authority.URL())

		videoPath := writeVideo(t, []byte("same bytes"))

		if _, err := a.AuthenticateFile(context.Background(), videoPath); err != nil {
			t.Fatalf("first AuthenticateFile() error = %v", err)
		}

		_, err := a.AuthenticateFile(context.Background(), videoPath)
		var dup *provid.AlreadyRegisteredError
		if !errors.As(err, &dup) {
			t.Fatalf("second AuthenticateFile() error = %v, want *AlreadyRegisteredError", err)
		}

		views, _ := a.ListRecordings()
		if len(views) != 1 {
			t.Errorf("ledger has %d records after duplicate, want 1", len(views))
		}
	})

	t.Run("remove deletes the ledger entry only", func(t *testing.T) {
		authority := testutil.NewStubAuthority(t)
		a := newTestApp(t, authority.URL())

		videoPath := writeVideo(t, []byte("to be removed"))
		record, err := a.AuthenticateFile(context.Background(), videoPath)
		if err != nil {
			t.Fatalf("AuthenticateFile() error = %v", err)
		}

		if err := a.RemoveRecording(record.Key()); err != nil {
			t.Fatalf("RemoveRecording() error = %v", err)
		}

		views, _ := a.ListRecordings()
		if len(views) != 0 {
			t.Errorf("ledger has %d records after remove, want 0", len(views))
		}
		// The authority still holds the certificate.
		if !authority.Registered(record.Hash) {
			t.Error("remove must not touch the authority's record")
		}
	})
}

func TestAppRecordAndRegister(t *testing.T) {
	authority := testutil.NewStubAuthority(t)
	a := newTestApp(t, authority.URL())

	content := []byte("camera bytes")
	sourcePath := writeVideo(t, content)

	stop := make(chan struct{})
	close(stop) // stop immediately; the capture still snapshots the source

	attempt, err := a.RecordAndRegister(context.Background(), sourcePath, nil, stop)
	if err != nil {
		t.Fatalf("RecordAndRegister() error = %v", err)
	}
	if attempt.Err != nil {
		t.Fatalf("attempt failed: %v", attempt.Err)
	}
	if attempt.Record.Hash != provid.FingerprintBytes(content) {
		t.Errorf("Hash = %q, want the source fingerprint", attempt.Record.Hash)
	}

	if _, err := a.RecordAndRegister(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"), nil, stop); err == nil {
		t.Error("RecordAndRegister() with a missing source should fail")
	}
}
