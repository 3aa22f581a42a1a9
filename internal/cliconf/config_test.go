package cliconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if len(cfg.Extensions) == 0 || cfg.Extensions[0] != "go" {
		t.Errorf("extensions = %v", cfg.Extensions)
	}
	if cfg.Bridge.Server.Addr != DefaultBridgeAddr {
		t.Errorf("bridge addr = %q", cfg.Bridge.Server.Addr)
	}
}

func TestLoadOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ojpad.yaml")
	body := `
baseURL: https://leetcode.cn
timeout: 5s
poll:
  interval: 2s
  attempts: 30
cache:
  enabled: true
  ttl: 1m
  redis:
    addr: 127.0.0.1:6379
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "https://leetcode.cn" {
		t.Errorf("baseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.Poll.Interval != 2*time.Second || cfg.Poll.Attempts != 30 {
		t.Errorf("poll = %+v", cfg.Poll)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// Unset fields still get backfilled.
	if cfg.SolutionsDir != DefaultSolutionsDir {
		t.Errorf("solutionsDir = %q", cfg.SolutionsDir)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ojpad.yaml")
	if err := os.WriteFile(path, []byte("baseURL: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
