package config

// ProviderType identifies a chat or embedding model provider.
type ProviderType string

const (
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level atlas configuration, corresponding to .atlas.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	WeatherAPIKey     string       `yaml:"weather_api_key" koanf:"weather_api_key"`
	WeatherBaseURL    string       `yaml:"weather_base_url" koanf:"weather_base_url"`
	MaxTurns          int          `yaml:"max_turns" koanf:"max_turns"`
	MaxRepairAttempts int          `yaml:"max_repair_attempts" koanf:"max_repair_attempts"`
	ToolTimeoutSecs   int          `yaml:"tool_timeout_secs" koanf:"tool_timeout_secs"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	HistoryLimit      int          `yaml:"history_limit" koanf:"history_limit"`
	Server            ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}
