package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with a missing file should use defaults: %v", err)
	}
	if cfg.Recognition.Captures != 5 || cfg.Recognition.Recognitions != 10 {
		t.Errorf("default budgets = %d/%d, want 5/10",
			cfg.Recognition.Captures, cfg.Recognition.Recognitions)
	}
	if cfg.Output.Language != "en" {
		t.Errorf("default language = %q, want en", cfg.Output.Language)
	}
	if cfg.Cache.Dir == "" {
		t.Error("default cache dir should not be empty")
	}
	if got := cfg.Cache.TTLDuration(); got != 48*time.Hour {
		t.Errorf("default TTL = %v, want 48h", got)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("cache:\n  ttl: 24h\nrecognition:\n  captures: 3\noutput:\n  language: ru\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Cache.TTLDuration(); got != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", got)
	}
	if cfg.Recognition.Captures != 3 {
		t.Errorf("captures = %d, want 3", cfg.Recognition.Captures)
	}
	if cfg.Recognition.Recognitions != 10 {
		t.Errorf("recognitions = %d, want the 10 default", cfg.Recognition.Recognitions)
	}
	if cfg.Output.Language != "ru" {
		t.Errorf("language = %q, want ru", cfg.Output.Language)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ROSHCLIP_CACHE_TTL", "72h")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Cache.TTLDuration(); got != 72*time.Hour {
		t.Errorf("TTL = %v, want the 72h env override", got)
	}
}

func TestTTLDuration_Malformed(t *testing.T) {
	c := CacheConfig{TTL: "soon"}
	if got := c.TTLDuration(); got != 48*time.Hour {
		t.Errorf("malformed TTL parsed to %v, want the 48h fallback", got)
	}
}
