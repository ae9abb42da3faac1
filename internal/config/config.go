// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.flowfind/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: generation model, temperature, embedder model
//   - Retrieval: top-K and minimum similarity for catalog search
//   - Ingest: embedding-provider rate limit for bulk loads
//   - Storage: PostgreSQL connection (see storage.go)
//   - Server: listen address, CORS origins, proxy trust
//
// Validation lives in validation.go and uses sentinel errors so callers can
// check failure categories with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultModelName is the default Gemini generation model.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 outputs 3072 dimensions by default, but supports
	// truncation to 768 via OutputDimensionality; our pgvector schema uses
	// 768 dimensions, see catalog.VectorDimension.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultTopK is the default number of catalog entries retrieved per query.
	DefaultTopK = 5

	// DefaultMinSimilarity is the default similarity floor for search results.
	DefaultMinSimilarity float32 = 0.1

	// DefaultServerAddr is the default HTTP listen address.
	DefaultServerAddr = "127.0.0.1:3500"
)

// Config stores application configuration.
type Config struct {
	// AI model configuration
	ModelName     string  `mapstructure:"model_name" json:"model_name"`
	Temperature   float32 `mapstructure:"temperature" json:"temperature"`
	EmbedderModel string  `mapstructure:"embedder_model" json:"embedder_model"`

	// Retrieval tunables (pipeline-level, not hardcoded in retrieval logic)
	TopK          int     `mapstructure:"top_k" json:"top_k"`
	MinSimilarity float32 `mapstructure:"min_similarity" json:"min_similarity"`

	// Ingest throttling: sustained embedding calls per second and burst size.
	// The burst of 10 reproduces the "pause after every 10th record" policy.
	IngestRate  float64 `mapstructure:"ingest_rate" json:"ingest_rate"`
	IngestBurst int     `mapstructure:"ingest_burst" json:"ingest_burst"`

	// Storage configuration (see storage.go for DSN helpers)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"`
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Server configuration (serve mode only)
	ServerAddr  string   `mapstructure:"server_addr" json:"server_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".flowfind")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Also support current directory

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides individual postgres_* settings when set
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// AI defaults
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("embedder_model", DefaultEmbedderModel)

	// Retrieval defaults
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("min_similarity", DefaultMinSimilarity)

	// Ingest defaults: burst of 10, then ~10 records/sec sustained
	v.SetDefault("ingest_rate", 10.0)
	v.SetDefault("ingest_burst", 10)

	// PostgreSQL defaults (matching docker-compose.yml)
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "flowfind")
	v.SetDefault("postgres_password", "flowfind_dev_password")
	v.SetDefault("postgres_db_name", "flowfind")
	v.SetDefault("postgres_ssl_mode", "disable")

	// Server defaults
	v.SetDefault("server_addr", DefaultServerAddr)
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("trust_proxy", false)
}

// bindEnvVariables binds environment variable overrides explicitly.
//
// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
// Validation checks its presence in Validate().
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "FLOWFIND_MODEL_NAME")
	mustBind("embedder_model", "FLOWFIND_EMBEDDER_MODEL")
	mustBind("top_k", "FLOWFIND_TOP_K")
	mustBind("min_similarity", "FLOWFIND_MIN_SIMILARITY")
	mustBind("server_addr", "FLOWFIND_SERVER_ADDR")
	mustBind("cors_origins", "FLOWFIND_CORS_ORIGINS")
	mustBind("trust_proxy", "FLOWFIND_TRUST_PROXY")
	mustBind("postgres_password", "FLOWFIND_POSTGRES_PASSWORD")
}
