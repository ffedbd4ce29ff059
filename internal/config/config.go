package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for terapias.
type Config struct {
	Folders   FoldersConfig   `toml:"folders"`
	Log       LogConfig       `toml:"log"`
	Organize  OrganizeConfig  `toml:"organize"`
	Retry     RetryConfig     `toml:"retry"`
	Converter ConverterConfig `toml:"converter"`
	Pending   PendingConfig   `toml:"pending"`
	Backup    BackupConfig    `toml:"backup"`
}

// FoldersConfig holds the three working folders and the optional word processor path.
type FoldersConfig struct {
	Source      string `toml:"source"`
	Destination string `toml:"destination"`
	Backup      string `toml:"backup"`
	WordPath    string `toml:"word_path,omitempty"`
}

// LogConfig controls where the operation log is written.
type LogConfig struct {
	Dir      string `toml:"dir"`
	MaxBytes int64  `toml:"max_bytes"` // rotate when the log grows past this; defaults to 1MB
}

// OrganizeConfig tunes naming and placement.
type OrganizeConfig struct {
	Marker             string   `toml:"marker"`
	Extensions         []string `toml:"extensions"`
	Ignore             []string `toml:"ignore"`
	MaxListed          int      `toml:"max_listed"`
	MaxPathLen         int      `toml:"max_path_len"`
	MaxCollisionSuffix int      `toml:"max_collision_suffix"`
}

// RetryConfig bounds move retries.
type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	Delay       Duration `toml:"delay"`
}

// ConverterConfig selects how documents become PDFs.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ConverterConfig struct {
	Type    string   `toml:"type"`              // "soffice", "manual" or "none"
	Timeout Duration `toml:"timeout,omitempty"` // only used for type=soffice
}

// PendingConfig selects where the awaiting-conversion state lives.
type PendingConfig struct {
	Type string `toml:"type"`          // "filesystem" or "memory"
	Dir  string `toml:"dir,omitempty"` // only used for type=filesystem
}

// BackupConfig controls how originals are stored in the backup folder.
type BackupConfig struct {
	Encryption     string `toml:"encryption"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path,omitempty"`
	PrivateKeyPath string `toml:"private_key_path,omitempty"`
}

// Duration is a time.Duration written as a string such as "3s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// NewConfig creates a new Config with defaults rooted at homeDir (the user's
// home) and baseDir (terapias' own data directory).
func NewConfig(homeDir, baseDir string) *Config {
	root := filepath.Join(homeDir, "Documents", "TERAPIAS")
	return &Config{
		Folders: FoldersConfig{
			Source:      filepath.Join(root, "DOCUMENTOS PARA ARMAR"),
			Destination: filepath.Join(root, "TERAPIAS"),
			Backup:      filepath.Join(root, "Respaldo"),
		},
		Log: LogConfig{
			Dir:      filepath.Join(baseDir, "log"),
			MaxBytes: DefaultLogMaxBytes,
		},
		Organize: OrganizeConfig{
			Marker:             DefaultMarker,
			Extensions:         append([]string(nil), DefaultExtensions...),
			Ignore:             append([]string(nil), DefaultIgnore...),
			MaxListed:          DefaultMaxListed,
			MaxPathLen:         DefaultMaxPathLen,
			MaxCollisionSuffix: DefaultMaxCollisionSuffix,
		},
		Retry: RetryConfig{
			MaxAttempts: DefaultMaxAttempts,
			Delay:       Duration{DefaultRetryDelay},
		},
		Converter: ConverterConfig{
			Type:    "soffice",
			Timeout: Duration{DefaultConverterTimeout},
		},
		Pending: PendingConfig{
			Type: "filesystem",
			Dir:  filepath.Join(baseDir, "state"),
		},
		Backup: BackupConfig{
			Encryption:     "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "terapias.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "terapias.key"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader and fills unset fields with defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
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

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	m := &Manager{}
	if err := m.Write(tmp, cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// Save validates cfg and replaces the config file at path.
// Nothing is written when validation fails.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
