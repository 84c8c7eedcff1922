package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Server.BasePath != "/ezelectronics" {
		t.Fatalf("unexpected base path %q", cfg.Server.BasePath)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Redis.Enabled || cfg.Queue.Enabled {
		t.Fatalf("redis and queue should be disabled by default")
	}
	if cfg.RateLimit.Window() != time.Minute {
		t.Fatalf("unexpected rate limit window %s", cfg.RateLimit.Window())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("DATABASE_MAX_CONNS", "3")
	t.Setenv("QUEUE_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Database.MaxConns != 3 {
		t.Fatalf("expected max conns 3, got %d", cfg.Database.MaxConns)
	}
	if !cfg.Queue.Enabled {
		t.Fatalf("expected queue enabled")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  base_path: /api
rate_limit:
  max_requests: 5
cors:
  allowed_origins: ["https://shop.example"]
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BasePath != "/api" {
		t.Fatalf("unexpected base path %q", cfg.Server.BasePath)
	}
	if cfg.RateLimit.MaxRequests != 5 {
		t.Fatalf("unexpected max requests %d", cfg.RateLimit.MaxRequests)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://shop.example" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadRejectsInvalidBasePath(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_BASE_PATH", "api")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
