// Package daemon manages the Hivemind runtime lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all runtime configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	API       APIConfig       `toml:"api"`
	Scenario  ScenarioConfig  `toml:"scenario"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// StorageConfig controls where the learning store and state cache live.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ScenarioConfig sets scenario generation defaults.
type ScenarioConfig struct {
	ChaosProbability float64 `toml:"chaos_probability"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Dir: hivemindHome(),
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7420,
		},
		Scenario: ScenarioConfig{
			ChaosProbability: 1.0,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.hivemind/config.toml, falling back to
// defaults when the file does not exist.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(hivemindHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.hivemind/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(hivemindHome(), "config.toml")
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

// hivemindHome returns the Hivemind data directory.
func hivemindHome() string {
	if env := os.Getenv("HIVEMIND_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hivemind")
}

// Home is exported for use by other packages.
func Home() string {
	return hivemindHome()
}
