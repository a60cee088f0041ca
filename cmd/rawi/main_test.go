package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved path: got %q", resolved)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	// Unset fields still get defaults.
	if cfg.Server.Host != "localhost" {
		t.Errorf("host: got %q", cfg.Server.Host)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}
