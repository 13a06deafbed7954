package config

import (
	"os"
	"path/filepath"
)

// ModelPreset describes the models to use for a given provider.
type ModelPreset struct {
	Model          string
	EmbeddingModel string
}

// modelPresets maps each provider to its default model choices.
var modelPresets = map[ProviderType]ModelPreset{
	ProviderOpenRouter: {Model: "openai/gpt-4o", EmbeddingModel: "text-embedding-3-small"},
	ProviderOpenAI:     {Model: "gpt-4o", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama:     {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// GetPreset returns the model preset for the given provider, falling back
// to the OpenRouter preset for unknown values.
func GetPreset(provider ProviderType) ModelPreset {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderOpenRouter]
}

// DefaultDataDir is where profiles, saved itineraries, and conversation
// history live: ~/.atlas.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".atlas"
	}
	return filepath.Join(home, ".atlas")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	preset := GetPreset(ProviderOpenRouter)
	return &Config{
		Provider:          ProviderOpenRouter,
		Model:             preset.Model,
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    preset.EmbeddingModel,
		DataDir:           DefaultDataDir(),
		WeatherBaseURL:    "https://api.openweathermap.org/data/2.5",
		MaxTurns:          12,
		MaxRepairAttempts: 2,
		ToolTimeoutSecs:   10,
		RequestsPerMinute: 60,
		HistoryLimit:      20,
		Server: ServerConfig{
			Port: 8793,
		},
	}
}
