package config

import "fmt"

// Config holds all configuration for the application
type Config struct {
	Environment string           `yaml:"environment"`
	Database    DatabaseConfig   `yaml:"database"`
	Encryption  EncryptionConfig `yaml:"encryption"`
	Backup      BackupConfig     `yaml:"backup"`
	SuperAdmin  SuperAdminConfig `yaml:"super_admin"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EncryptionConfig contains key material file locations
type EncryptionConfig struct {
	KeyPath  string `yaml:"key_path"`
	SaltPath string `yaml:"salt_path"`
}

// BackupConfig contains backup archive configuration
type BackupConfig struct {
	Dir string `yaml:"dir"`
}

// SuperAdminConfig holds the fixed deploy-time super admin credentials. The
// account lives outside the accounts table: it cannot be deleted and its
// password cannot be changed at runtime.
type SuperAdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig contains operational logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Environment: "development",
		Database:    DatabaseConfig{Path: "data/data.db"},
		Encryption: EncryptionConfig{
			KeyPath:  "data/secret.key",
			SaltPath: "data/salt.key",
		},
		Backup: BackupConfig{Dir: "backups"},
		SuperAdmin: SuperAdminConfig{
			Username: "super_admin",
			Password: "Admin_123?",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("environment must be 'development' or 'production'")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Encryption.KeyPath == "" {
		return fmt.Errorf("encryption.key_path is required")
	}
	if c.Encryption.SaltPath == "" {
		return fmt.Errorf("encryption.salt_path is required")
	}

	if c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir is required")
	}

	if c.SuperAdmin.Username == "" {
		return fmt.Errorf("super_admin.username is required")
	}
	if c.SuperAdmin.Password == "" {
		return fmt.Errorf("super_admin.password is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be 'json' or 'text'")
	}

	return nil
}
