package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads configuration from a file and applies environment
// variable overrides. A missing file falls back to the defaults, so the tool
// works without any configuration in place.
func LoadWithEnv(path string) (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(path); err == nil {
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = Default()
	}

	// Apply environment variable overrides
	if dbPath := os.Getenv("UM_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if keyPath := os.Getenv("UM_KEY_PATH"); keyPath != "" {
		cfg.Encryption.KeyPath = keyPath
	}

	if saltPath := os.Getenv("UM_SALT_PATH"); saltPath != "" {
		cfg.Encryption.SaltPath = saltPath
	}

	if backupDir := os.Getenv("UM_BACKUP_DIR"); backupDir != "" {
		cfg.Backup.Dir = backupDir
	}

	// Validate again after env overrides
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after env overrides: %w", err)
	}

	return cfg, nil
}
