// Package daemon manages the SwipeDeck daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Engine    EngineConfig    `toml:"engine"`
	Ingest    IngestConfig    `toml:"ingest"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig controls the state database location.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// EngineConfig controls queue processing and scoring.
type EngineConfig struct {
	BatchSize   int    `toml:"batch_size"`
	CatalogFile string `toml:"catalog_file"` // YAML scoring overrides; "" = built-in defaults
}

// IngestConfig controls feed crawling.
type IngestConfig struct {
	FeedURL        string `toml:"feed_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Metrics bool `toml:"metrics"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := swipedeckHome()
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8470,
		},
		Storage: StorageConfig{
			Dir: filepath.Join(homeDir, "state"),
		},
		Engine: EngineConfig{
			BatchSize: 20,
		},
		Ingest: IngestConfig{
			TimeoutSeconds: 20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "swipedeck.log"),
		},
		Telemetry: TelemetryConfig{
			Metrics: true,
		},
	}
}

// LoadConfig reads config from ~/.swipedeck/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(swipedeckHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Engine.BatchSize <= 0 {
		cfg.Engine.BatchSize = 20
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.swipedeck/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(swipedeckHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// swipedeckHome returns the SwipeDeck data directory.
func swipedeckHome() string {
	if env := os.Getenv("SWIPEDECK_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".swipedeck")
}

// Home is exported for use by other packages.
func Home() string {
	return swipedeckHome()
}
