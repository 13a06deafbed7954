package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .atlas.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to atlas! Let's configure your travel assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openrouter", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	// 2. Model override.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: preset.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for profiles and saved trips",
		Default: DefaultDataDir(),
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Weather API key (optional; the weather tool degrades without it).
	weatherPrompt := promptui.Prompt{
		Label:   "OpenWeather API key (blank to skip forecasts)",
		Default: "",
	}
	weatherKey, err := weatherPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("weather key: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.DataDir = dataDir
	cfg.WeatherAPIKey = weatherKey
	if provider == ProviderOllama {
		cfg.EmbeddingProvider = ProviderOllama
	}

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running atlas plan.\n", envVar)
	}

	configPath := ".atlas.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
