package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("unexpected default model: %s", cfg.Gemini.Model)
	}
	if cfg.Retry.MaxRetries != 2 {
		t.Errorf("unexpected default max retries: %d", cfg.Retry.MaxRetries)
	}
	if cfg.Limits.MaxDocumentBytes != 0 {
		t.Errorf("size cap should default to unlimited, got %d", cfg.Limits.MaxDocumentBytes)
	}
	if cfg.Chat.SystemPrompt == "" || cfg.Chat.WelcomeMessage == "" {
		t.Error("default prompts must not be empty")
	}
}

func TestBaseDelay(t *testing.T) {
	cfg := Default()
	if cfg.BaseDelay() != time.Second {
		t.Errorf("unexpected default base delay: %v", cfg.BaseDelay())
	}

	cfg.Retry.BaseDelayMS = 250
	if cfg.BaseDelay() != 250*time.Millisecond {
		t.Errorf("unexpected base delay: %v", cfg.BaseDelay())
	}

	cfg.Retry.BaseDelayMS = -1
	if cfg.BaseDelay() != time.Second {
		t.Errorf("negative delay should fall back to 1s, got %v", cfg.BaseDelay())
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gemini.Model != Default().Gemini.Model {
		t.Errorf("expected defaults, got model %s", cfg.Gemini.Model)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.Gemini.Model = "gemini-1.5-pro"
	cfg.Retry.MaxRetries = 5
	cfg.Limits.MaxDocumentBytes = 1 << 20
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".financial-advisor", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("model not round-tripped: %s", loaded.Gemini.Model)
	}
	if loaded.Retry.MaxRetries != 5 {
		t.Errorf("max retries not round-tripped: %d", loaded.Retry.MaxRetries)
	}
	if loaded.Limits.MaxDocumentBytes != 1<<20 {
		t.Errorf("size cap not round-tripped: %d", loaded.Limits.MaxDocumentBytes)
	}
}
