package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want 127.0.0.1", cfg.API.Host)
	}
	if cfg.API.Port != 7420 {
		t.Errorf("API.Port = %d, want 7420", cfg.API.Port)
	}
	if cfg.Scenario.ChaosProbability != 1.0 {
		t.Errorf("Scenario.ChaosProbability = %v, want 1.0", cfg.Scenario.ChaosProbability)
	}
	if cfg.Storage.Dir == "" {
		t.Error("Storage.Dir should default to the home directory")
	}
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	t.Setenv("HIVEMIND_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Scenario.ChaosProbability = 0.5

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", loaded.API.Port)
	}
	if loaded.Scenario.ChaosProbability != 0.5 {
		t.Errorf("Scenario.ChaosProbability = %v, want 0.5", loaded.Scenario.ChaosProbability)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HIVEMIND_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("missing config file should yield defaults, got port %d", cfg.API.Port)
	}
}

func TestNewWithConfig_DegradedFallback(t *testing.T) {
	// A storage dir path that collides with a regular file cannot be created,
	// so the daemon must fall back to the in-memory store.
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0600); err != nil {
		t.Fatalf("seed blocking file: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Storage.Dir = filepath.Join(blocked, "store")

	d, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error: %v", err)
	}
	defer d.Close()

	if !d.DB.InMemory() {
		t.Error("daemon should degrade to the in-memory store")
	}
}
