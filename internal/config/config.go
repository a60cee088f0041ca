// Package config provides configuration loading and structs for the rawi server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Bulk       BulkConfig       `yaml:"bulk"`
	Import     ImportConfig     `yaml:"import"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds database and index settings. Driver is "sqlite3" or
// "postgres"; DSN is a file path for sqlite3 and a connection string for
// postgres.
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	NameIndexPath string `yaml:"name_index_path"`
}

// DirectoryConfig holds narrator lookup settings.
type DirectoryConfig struct {
	Fuzzy          *bool `yaml:"fuzzy"`
	MaxRetries     int   `yaml:"max_retries"`
	RetryBackoffMS int   `yaml:"retry_backoff_ms"`
}

// FuzzyOrDefault returns whether fuzzy name matching is enabled; defaults to
// true when unset.
func (d *DirectoryConfig) FuzzyOrDefault() bool {
	if d.Fuzzy != nil {
		return *d.Fuzzy
	}
	return true
}

// SimilarityConfig holds similar-text search settings.
type SimilarityConfig struct {
	Threshold   float64 `yaml:"threshold"`
	Limit       int     `yaml:"limit"`
	CorpusLimit int     `yaml:"corpus_limit"`
}

// BulkConfig holds bulk job settings.
type BulkConfig struct {
	ThrottleMS    int `yaml:"throttle_ms"`
	PreviewLength int `yaml:"preview_length"`
}

// ImportConfig holds corpus import settings.
type ImportConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands relative paths. Returns an error if the file cannot be read or
// parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	if cfg.Storage.Driver == "sqlite3" {
		cfg.Storage.DSN = expandPath(cfg.Storage.DSN, configDir)
	}
	cfg.Storage.NameIndexPath = expandPath(cfg.Storage.NameIndexPath, configDir)
	for i := range cfg.Import.Directories {
		cfg.Import.Directories[i] = expandPath(cfg.Import.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
