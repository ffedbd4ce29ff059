package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - TERAPIAS_CONFIG_PATH: config file location (default: ~/.config/terapias.toml)
//   - TERAPIAS_HOME: base directory for terapias data (default: ~/.local/share/terapias)
func GetDefaults() (map[string]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	configPath := os.Getenv("TERAPIAS_CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(homeDir, ".config", "terapias.toml")
	}

	baseDir := os.Getenv("TERAPIAS_HOME")
	if baseDir == "" {
		baseDir = filepath.Join(homeDir, ".local", "share", "terapias")
	}

	return map[string]string{
		"home_dir":    homeDir,
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"state_dir":   filepath.Join(baseDir, "state"),
	}, nil
}
