package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for cobot. It is constructed
// once at startup and passed explicitly into every component; there is no
// process-wide settings object.
type Config struct {
	SpaceID     string         `toml:"space_id"`
	APIBase     string         `toml:"api_base"`
	AccessToken string         `toml:"access_token"`
	DataDir     string         `toml:"data_dir"`
	LogDir      string         `toml:"log_dir"`
	Notify      NotifyConfig   `toml:"notify"`
	Database    DatabaseConfig `toml:"database"`
	Archive     ArchiveConfig  `toml:"archive"`
}

// NotifyConfig holds settings for the change-notification webhook.
// An empty URL disables notification delivery.
type NotifyConfig struct {
	URL            string `toml:"url,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
}

// DatabaseConfig represents configuration for the poll operation log.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant. An empty type disables the log.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ArchiveConfig represents configuration for the snapshot archive backend.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type ArchiveConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// Filesystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// AgeRecipient is an optional X25519 public key ("age1..."). When set,
	// archived files are age-encrypted before upload.
	AgeRecipient string `toml:"age_recipient,omitempty"`
}

// NewConfig creates a new Config with the provided values and default
// directory layout under baseDir.
func NewConfig(spaceID, accessToken, baseDir string) *Config {
	return &Config{
		SpaceID:     spaceID,
		APIBase:     "https://api.cobot.me",
		AccessToken: accessToken,
		DataDir:     filepath.Join(baseDir, "data"),
		LogDir:      filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Validate checks that the fields every command depends on are present.
func (c *Config) Validate() error {
	if c.SpaceID == "" {
		return fmt.Errorf("space_id is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("access_token is required")
	}
	return nil
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
// provided Config. Fails if the file already exists.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
