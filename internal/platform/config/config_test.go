package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewRequiresDataDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected empty data dir to fail")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("LABSCHED_API_URL", "")
	t.Setenv("LABSCHED_POLL_INTERVAL", "")
	dir := t.TempDir()
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.PollInterval != 30*time.Second || cfg.AlertTTL != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBPath != filepath.Join(dir, "labsched.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if !cfg.StopPollingOnLogout {
		t.Fatalf("polling should stop on logout by default")
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yml := "api_url: http://labs.example:9000\npoll_interval: 10s\nstop_polling_on_logout: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LABSCHED_API_URL", "")
	t.Setenv("LABSCHED_POLL_INTERVAL", "")
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://labs.example:9000" || cfg.PollInterval != 10*time.Second || cfg.StopPollingOnLogout {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	t.Setenv("LABSCHED_API_URL", "https://override.example")
	cfg, err = Load(dir, "")
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.APIURL != "https://override.example" {
		t.Fatalf("env override not applied: %s", cfg.APIURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LABSCHED_API_URL", "")
	t.Setenv("LABSCHED_POLL_INTERVAL", "")
	cases := map[string]string{
		"relative url":  "api_url: /api\n",
		"bad duration":  "poll_interval: soon\n",
		"zero interval": "poll_interval: 0s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "custom.yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(dir, path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(t.TempDir(), "/nonexistent/labsched.yaml"); err == nil {
		t.Fatalf("explicit config path must exist")
	}
}
