package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atlastravel/atlas/internal/domain"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Provider != ProviderOpenRouter {
		t.Errorf("expected default provider openrouter, got %q", cfg.Provider)
	}
	if cfg.MaxRepairAttempts != 2 {
		t.Errorf("expected default max_repair_attempts 2, got %d", cfg.MaxRepairAttempts)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != DefaultConfig().Model {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".atlas.yml")
	content := []byte("provider: ollama\nmodel: llama3\nmax_turns: 5\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("expected provider ollama, got %q", cfg.Provider)
	}
	if cfg.MaxTurns != 5 {
		t.Errorf("expected max_turns 5, got %d", cfg.MaxTurns)
	}
	// Unset fields keep their defaults.
	if cfg.HistoryLimit != 20 {
		t.Errorf("expected default history_limit 20, got %d", cfg.HistoryLimit)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".atlas.yml")
	if err := os.WriteFile(path, []byte("model: gpt-4o\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ATLAS_MODEL", "anthropic/claude-sonnet-4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("expected env override to win, got %q", cfg.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "grok" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero max turns", func(c *Config) { c.MaxTurns = 0 }},
		{"negative repair attempts", func(c *Config) { c.MaxRepairAttempts = -1 }},
		{"zero repair attempts", func(c *Config) { c.MaxRepairAttempts = 0 }},
		{"zero tool timeout", func(c *Config) { c.ToolTimeoutSecs = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var confErr *domain.ConfigurationError
			if !errors.As(err, &confErr) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("OPENROUTER_API_KEY", "")
	err := cfg.CheckCredentials()
	var confErr *domain.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError for missing key, got %v", err)
	}

	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	if err := cfg.CheckCredentials(); err != nil {
		t.Errorf("unexpected error with key set: %v", err)
	}

	cfg.Provider = ProviderOllama
	if err := cfg.CheckCredentials(); err != nil {
		t.Errorf("ollama should not need a credential: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".atlas.yml")

	cfg := DefaultConfig()
	cfg.Model = "openai/gpt-4o-mini"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "openai/gpt-4o-mini" {
		t.Errorf("round trip lost model: %q", loaded.Model)
	}
}
