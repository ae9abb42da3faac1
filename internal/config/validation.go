package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the generation model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTopK indicates the retrieval top-K value is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidMinSimilarity indicates the similarity floor is out of range.
	ErrInvalidMinSimilarity = errors.New("invalid min_similarity")

	// ErrInvalidIngestRate indicates the ingest rate limit is invalid.
	ErrInvalidIngestRate = errors.New("invalid ingest rate")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrInvalidServerAddr indicates the HTTP listen address is invalid.
	ErrInvalidServerAddr = errors.New("invalid server address")
)

// validSSLModes are the sslmode values accepted by libpq/pgx.
var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// Validate checks the configuration for structural problems.
// It does not verify that external services are reachable.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidEmbedderModel)
	}

	if c.TopK < 1 || c.TopK > 50 {
		return fmt.Errorf("%w: must be between 1 and 50, got %d", ErrInvalidTopK, c.TopK)
	}

	if c.MinSimilarity < 0.0 || c.MinSimilarity >= 1.0 {
		return fmt.Errorf("%w: must be in [0.0, 1.0), got %.2f", ErrInvalidMinSimilarity, c.MinSimilarity)
	}

	if c.IngestRate <= 0 {
		return fmt.Errorf("%w: rate must be positive, got %.2f", ErrInvalidIngestRate, c.IngestRate)
	}
	if c.IngestBurst < 1 {
		return fmt.Errorf("%w: burst must be at least 1, got %d", ErrInvalidIngestRate, c.IngestBurst)
	}

	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidPostgresDBName)
	}
	if !validSSLModes[c.PostgresSSLMode] {
		return fmt.Errorf("%w: got %q", ErrInvalidPostgresSSLMode, c.PostgresSSLMode)
	}

	return nil
}

// ValidateServe checks additional requirements for serve mode.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ServerAddr) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidServerAddr)
	}
	return c.requireAPIKey()
}

// ValidateIngest checks additional requirements for ingest mode.
func (c *Config) ValidateIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.requireAPIKey()
}

// requireAPIKey checks that the Gemini API key is present.
// Genkit reads the key directly from the environment; we only fail fast here
// so the operator gets a clear error before any request is attempted.
func (c *Config) requireAPIKey() error {
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY", ErrMissingAPIKey)
	}
	return nil
}
