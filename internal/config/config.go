package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/dilcore/template-agent/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Application identity
	AppName string `env:"APP_NAME" envDefault:"AI Template Agent"`
	Version string `env:"VERSION" envDefault:"0.1.0"`

	// External service configurations
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"OPENROUTER_"`
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`

	// Vector store configuration
	VectorStoreCfg VectorStoreConfig `envPrefix:"VECTOR_STORE_"`

	// Session context configuration
	SessionContextCfg SessionContextConfig `envPrefix:"SESSION_CONTEXT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model               string               `env:"MODEL,notEmpty"`
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/chat/completions"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model              string               `env:"MODEL,notEmpty"`
	EmbeddingsEndpoint string               `env:"EMBEDDINGS_ENDPOINT" envDefault:"/embeddings"`
	CacheTTL           time.Duration        `env:"CACHE_TTL" envDefault:"10m"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type VectorStoreConfig struct {
	BasePath          string `env:"BASE_PATH" envDefault:"./data/vector_store"`
	MetadataIndexName string `env:"METADATA_INDEX_NAME" envDefault:"metadata_index"`
	DataIndexName     string `env:"DATA_INDEX_NAME" envDefault:"data_index"`
}

type SessionContextConfig struct {
	MaxEntries int `env:"MAX_ENTRIES" envDefault:"50"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"API_KEY"`
	Url                   string        `env:"BASE_URL,notEmpty"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return loadConfigForEnv(*envFlag)
}

func loadConfigForEnv(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.SessionContextCfg.MaxEntries < 1 || cfg.SessionContextCfg.MaxEntries > 1000 {
		return fmt.Errorf("SESSION_CONTEXT_MAX_ENTRIES must be between 1 and 1000, got %d", cfg.SessionContextCfg.MaxEntries)
	}

	if cfg.VectorStoreCfg.BasePath == "" {
		return fmt.Errorf("VECTOR_STORE_BASE_PATH must not be empty")
	}

	if !cfg.EnableMocks && cfg.LLMConnectorCfg.Token == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required when mocks are disabled")
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
