// Package config loads the YAML application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names a KV storage backend.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Config is the application configuration. Zero values are filled with
// defaults by Load; flags may override individual fields afterwards.
type Config struct {
	// DataDir holds the store file (or database) and logs.
	DataDir string `yaml:"data_dir"`
	// Backend selects the storage primitive: file or sqlite.
	Backend Backend `yaml:"backend"`
	// Year selects the safety record; 0 means the current year.
	Year int `yaml:"year"`
	// CutoffHour is the auto-safe backfill hour (0-23); 0 means default.
	CutoffHour int `yaml:"cutoff_hour"`
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// DefaultPath returns the conventional config location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".safeboard", "config.yaml")
}

func defaults() Config {
	dataDir := ".safeboard"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".safeboard")
	}
	return Config{
		DataDir:  dataDir,
		Backend:  BackendFile,
		LogLevel: "info",
	}
}

// Load reads the config file at path. A missing file yields the defaults; a
// malformed file is an error so a typo cannot silently reset the board's
// settings.
func Load(path string) (Config, error) {
	cfg := defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.Backend != BackendFile && cfg.Backend != BackendSQLite {
		return cfg, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 {
		return cfg, fmt.Errorf("cutoff_hour %d out of range", cfg.CutoffHour)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// StorePath returns the backend's on-disk location under the data dir.
func (c Config) StorePath() string {
	if c.Backend == BackendSQLite {
		return filepath.Join(c.DataDir, "board.db")
	}
	return filepath.Join(c.DataDir, "board.json")
}
