package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for proofvid.
type Config struct {
	DeviceInfo string `toml:"device_info"` // human-readable descriptor sent to the authority
	Platform   string `toml:"platform"`    // short platform name carried in registration metadata
	BaseDir    string `toml:"base_dir"`
	LogDir     string `toml:"log_dir"`

	Authority  AuthorityConfig  `toml:"authority"`
	Ledger     LedgerConfig     `toml:"ledger"`
	Library    LibraryConfig    `toml:"library"`
	Capture    CaptureConfig    `toml:"capture"`
	Thumbnails ThumbnailsConfig `toml:"thumbnails"`
}

// AuthorityConfig locates the remote registration authority.
type AuthorityConfig struct {
	URL string `toml:"url"`
}

// LedgerConfig represents configuration for the provenance ledger store.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type LedgerConfig struct {
	Type    string `toml:"type"`               // "sqlite", "leveldb", or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for sqlite and leveldb
}

// LibraryConfig represents configuration for the durable asset library.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type LibraryConfig struct {
	Type string `toml:"type"` // "filesystem", "s3", or "memory"

	// FileSystem-specific fields (only used when Type == "filesystem")
	LibraryRoot string `toml:"library_root,omitempty"`

	// S3-specific fields (only used when Type == "s3"). When the key pair
	// is empty the default AWS credential chain is used.
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// CaptureConfig holds capture-surface settings.
type CaptureConfig struct {
	CaptureDir string `toml:"capture_dir"` // where ephemeral capture files land
}

// ThumbnailsConfig holds preview-derivation settings.
type ThumbnailsConfig struct {
	FFmpegPath string `toml:"ffmpeg_path,omitempty"` // defaults to "ffmpeg" on PATH
	OutputDir  string `toml:"output_dir,omitempty"`  // defaults to the OS temp dir
}

// NewConfig creates a new Config with the provided values and default
// backend choices.
func NewConfig(authorityURL, baseDir string) *Config {
	return &Config{
		DeviceInfo: defaultDeviceInfo(),
		Platform:   runtime.GOOS,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		Authority:  AuthorityConfig{URL: authorityURL},
		Ledger: LedgerConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "ledger"),
		},
		Library: LibraryConfig{
			Type:        "filesystem",
			LibraryRoot: filepath.Join(baseDir, "library"),
		},
		Capture: CaptureConfig{
			CaptureDir: filepath.Join(baseDir, "captures"),
		},
	}
}

func defaultDeviceInfo() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return runtime.GOOS
	}
	return fmt.Sprintf("%s (%s)", host, runtime.GOOS)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
