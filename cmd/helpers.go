package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atlastravel/atlas/internal/agent"
	"github.com/atlastravel/atlas/internal/config"
	"github.com/atlastravel/atlas/internal/destindex"
	"github.com/atlastravel/atlas/internal/embeddings"
	"github.com/atlastravel/atlas/internal/llm"
	"github.com/atlastravel/atlas/internal/session"
	"github.com/atlastravel/atlas/internal/store"
	"github.com/atlastravel/atlas/internal/tools"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `atlas init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Providers without native embeddings fall back to OpenAI when a key is
// available, and otherwise to the deterministic hash embedder so destination
// search still works offline.
func createEmbedderFromConfig(cfg *config.Config) embeddings.Embedder {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(provider).EmbeddingModel
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 768, "")
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return embeddings.NewHashEmbedder(256)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model))
	}
}

// createLLMProviderFromConfig creates a rate-limited LLM provider from config.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute), nil
}

// buildRegistry assembles the tool registry every planning surface shares:
// destination search, weather, and persistence tools over the local store.
func buildRegistry(ctx context.Context, cfg *config.Config, st *store.Store) (*tools.Registry, error) {
	index, err := destindex.New(ctx, createEmbedderFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("building destination index: %w", err)
	}

	registry := tools.NewRegistry(time.Duration(cfg.ToolTimeoutSecs) * time.Second)
	registry.Register(tools.NewSearchTool(index))
	registry.Register(tools.NewWeatherTool(cfg.WeatherAPIKey, cfg.WeatherBaseURL, nil))
	registry.Register(tools.NewSaveItineraryTool(st))
	registry.Register(tools.NewLoadItineraryTool(st))
	registry.Register(tools.NewLoadProfileTool(st))
	registry.Register(tools.NewUpdateProfileTool(st))
	return registry, nil
}

// buildService wires the full planning stack: store, tools, engine, session.
func buildService(ctx context.Context, cfg *config.Config) (*session.Service, *agent.Engine, *store.Store, error) {
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening data dir: %w", err)
	}

	registry, err := buildRegistry(ctx, cfg, st)
	if err != nil {
		return nil, nil, nil, err
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	engine := agent.NewEngine(provider, registry, cfg.Model, cfg.MaxTurns)
	svc := session.New(engine, st,
		session.WithRepairAttempts(cfg.MaxRepairAttempts),
		session.WithHistoryLimit(cfg.HistoryLimit),
		session.WithEngineFactory(func() session.Engine { return engine.Clone() }),
	)
	return svc, engine, st, nil
}
