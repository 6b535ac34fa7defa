package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - COBOT_CONFIG_PATH: config file location (default: ~/.config/cobot.toml)
//   - COBOT_HOME: base directory for cobot data (default: ~/.local/share/cobot)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"data_dir":    filepath.Join(baseDir, "data"),
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking COBOT_CONFIG_PATH first,
// then falling back to the default ~/.config/cobot.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("COBOT_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "cobot.toml"), nil
}

// getBaseDir returns the base directory for cobot data, checking COBOT_HOME first,
// then falling back to the XDG default ~/.local/share/cobot.
func getBaseDir() (string, error) {
	if path := os.Getenv("COBOT_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "cobot"), nil
}
