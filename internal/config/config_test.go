package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig("http://authority.example:5000", "/data/proofvid")

	if cfg.Authority.URL != "http://authority.example:5000" {
		t.Errorf("Authority.URL = %q", cfg.Authority.URL)
	}
	if cfg.DeviceInfo == "" {
		t.Error("DeviceInfo should default to a host descriptor")
	}
	if cfg.Platform == "" {
		t.Error("Platform should default to the runtime OS")
	}
	if cfg.LogDir != filepath.Join("/data/proofvid", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Ledger.Type != "sqlite" || cfg.Ledger.DataDir == "" {
		t.Errorf("Ledger = %+v, want sqlite with a data dir", cfg.Ledger)
	}
	if cfg.Library.Type != "filesystem" || cfg.Library.LibraryRoot == "" {
		t.Errorf("Library = %+v, want filesystem with a root", cfg.Library)
	}
	if cfg.Capture.CaptureDir == "" {
		t.Error("Capture.CaptureDir should have a default")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := NewConfig("http://localhost:5000", "/data/proofvid")
	cfg.DeviceInfo = "iOS 26.0"
	cfg.Platform = "ios"
	cfg.Ledger = LedgerConfig{Type: "leveldb", DataDir: "/data/proofvid/ledger"}
	cfg.Library = LibraryConfig{
		Type:     "s3",
		S3Bucket: "proofvid-assets",
		S3Prefix: "captures",
		S3Region: "eu-west-1",
	}
	cfg.Thumbnails = ThumbnailsConfig{FFmpegPath: "/usr/bin/ffmpeg", OutputDir: "/tmp/thumbs"}

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *cfg {
		t.Errorf("round trip changed the config:\n got: %+v\nwant: %+v", got, cfg)
	}
}

func TestReadPartialConfig(t *testing.T) {
	t.Parallel()

	// Unset optional sections decode to zero values, not errors.
	doc := `
device_info = "iOS 26.0"
platform = "ios"

[authority]
url = "http://localhost:5000"

[ledger]
type = "memory"
`
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if cfg.Authority.URL != "http://localhost:5000" {
		t.Errorf("Authority.URL = %q", cfg.Authority.URL)
	}
	if cfg.Ledger.Type != "memory" {
		t.Errorf("Ledger.Type = %q", cfg.Ledger.Type)
	}
	if cfg.Library.Type != "" {
		t.Errorf("Library.Type = %q, want empty", cfg.Library.Type)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "proofvid.toml")
	cfg := NewConfig("http://localhost:5000", "/data/proofvid")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.Authority.URL != cfg.Authority.URL {
		t.Errorf("Authority.URL = %q, want %q", got.Authority.URL, cfg.Authority.URL)
	}

	if err := Init(path, cfg); err == nil {
		t.Error("Init() over an existing file should fail")
	}
}
