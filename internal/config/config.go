package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/atlastravel/atlas/internal/domain"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ATLAS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: ATLAS_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider("ATLAS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ATLAS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenRouter: true,
	ProviderOpenAI:     true,
	ProviderOllama:     true,
}

// Validate checks that the configuration contains valid values. Failures
// are ConfigurationErrors: fatal at startup, never recovered per-turn.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return &domain.ConfigurationError{Setting: "provider", Reason: "is required"}
	}
	if !validProviders[c.Provider] {
		return &domain.ConfigurationError{
			Setting: "provider",
			Reason:  fmt.Sprintf("invalid value %q: must be one of openrouter, openai, ollama", c.Provider),
		}
	}

	if c.Model == "" {
		return &domain.ConfigurationError{Setting: "model", Reason: "is required"}
	}

	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return &domain.ConfigurationError{
			Setting: "embedding_provider",
			Reason:  fmt.Sprintf("invalid value %q", c.EmbeddingProvider),
		}
	}

	if c.DataDir == "" {
		return &domain.ConfigurationError{Setting: "data_dir", Reason: "is required"}
	}

	if c.MaxTurns <= 0 {
		return &domain.ConfigurationError{Setting: "max_turns", Reason: "must be positive"}
	}

	if c.MaxRepairAttempts < 1 {
		return &domain.ConfigurationError{Setting: "max_repair_attempts", Reason: "must be at least 1"}
	}

	if c.ToolTimeoutSecs <= 0 {
		return &domain.ConfigurationError{Setting: "tool_timeout_secs", Reason: "must be positive"}
	}

	return nil
}

// CheckCredentials verifies that the API key for the configured provider
// is present in the environment. Called once at process start by commands
// that talk to the model.
func (c *Config) CheckCredentials() error {
	envVar := APIKeyEnvVar(c.Provider)
	if envVar == "" {
		return nil // ollama needs no key
	}
	if os.Getenv(envVar) == "" {
		return &domain.ConfigurationError{
			Setting: envVar,
			Reason:  "environment variable is not set",
		}
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
