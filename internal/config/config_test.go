package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Expected default address, got %s", cfg.ServerAddress())
	}
	if cfg.DefaultCategory() != "anime-collection" {
		t.Errorf("Expected anime-collection default, got %s", cfg.DefaultCategory())
	}
	if cfg.AzureEnabled() {
		t.Error("Expected azure to be disabled without credentials")
	}
	if cfg.Analysis.Analyzer != "standard" {
		t.Errorf("Expected standard analyzer, got %q", cfg.Analysis.Analyzer)
	}
	if !cfg.Server.BlockPrivateHosts {
		t.Error("Expected private hosts to be blocked by default")
	}
	if cfg.Analysis.MaxPixels != 100_000_000 {
		t.Errorf("Expected 100MP pixel limit, got %d", cfg.Analysis.MaxPixels)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("BLOCK_PRIVATE_HOSTS", "false")
	t.Setenv("ANALYZER", "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ANALYZER=header-only\n"), 0o644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// godotenv does not override variables that are already set
	os.Unsetenv("ANALYZER")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Analysis.Analyzer != "header-only" {
		t.Errorf("Expected analyzer from .env, got %q", cfg.Analysis.Analyzer)
	}
	if cfg.Server.BlockPrivateHosts {
		t.Error("Expected BLOCK_PRIVATE_HOSTS=false to apply")
	}
}

func TestLoad_TOMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "cards.toml")
	content := `
[server]
port = "9090"
request_timeout = "45s"

[analysis]
default_category = "car-collection"
batch_workers = 3
random_seed = 42
max_pixels = 4000000

[storage]
database_path = "/tmp/cards.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("BATCH_WORKERS", "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout.Std() != 45*time.Second {
		t.Errorf("Expected 45s timeout, got %s", cfg.Server.RequestTimeout.Std())
	}
	if cfg.DefaultCategory() != "car-collection" {
		t.Errorf("Expected car-collection, got %s", cfg.DefaultCategory())
	}
	if cfg.Analysis.BatchWorkers != 6 {
		t.Errorf("Expected env override of 6 workers, got %d", cfg.Analysis.BatchWorkers)
	}
	if cfg.Analysis.MaxPixels != 4_000_000 {
		t.Errorf("Expected 4MP limit from file, got %d", cfg.Analysis.MaxPixels)
	}
	if cfg.Analysis.RandomSeed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Analysis.RandomSeed)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "99999"}},
		{"bad body size", map[string]string{"MAX_REQUEST_BODY_SIZE": "0"}},
		{"bad workers", map[string]string{"BATCH_WORKERS": "-1"}},
		{"bad category", map[string]string{"DEFAULT_CATEGORY": "stamps"}},
		{"bad analyzer", map[string]string{"ANALYZER": "ocr"}},
		{"bad max pixels", map[string]string{"MAX_PIXELS": "-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(ConfigPathEnv, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
