// Package config provides configuration management for OAScore.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like SERVER_PORT, LOG_LEVEL)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"oascore.io/oascore/internal/rules"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// ScoringConfig contains the rule weight table.
type ScoringConfig struct {
	Weights rules.Weights `mapstructure:"weights"`
}

// LimitsConfig bounds the accepted input documents.
type LimitsConfig struct {
	MaxDocumentBytes int64 `mapstructure:"max_document_bytes"`
	MaxSchemaDepth   int   `mapstructure:"max_schema_depth"`
}

// WorkerConfig contains evaluation pool settings.
type WorkerConfig struct {
	EvalPoolSize int  `mapstructure:"eval_pool_size"`
	Parallel     bool `mapstructure:"parallel"`
}

// Load reads configuration from file, environment and defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/oascore")

	// Maps nested config: server.port -> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if c.Limits.MaxDocumentBytes < 1 {
		return fmt.Errorf("limits.max_document_bytes must be positive, got %d", c.Limits.MaxDocumentBytes)
	}
	if c.Limits.MaxSchemaDepth < 1 {
		return fmt.Errorf("limits.max_schema_depth must be positive, got %d", c.Limits.MaxSchemaDepth)
	}
	if c.Worker.EvalPoolSize < 1 {
		return fmt.Errorf("worker.eval_pool_size must be positive, got %d", c.Worker.EvalPoolSize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Scoring
	defaults := rules.DefaultWeights()
	v.SetDefault("scoring.weights.schema_types", defaults.SchemaTypes)
	v.SetDefault("scoring.weights.description_docs", defaults.DescriptionDocs)
	v.SetDefault("scoring.weights.paths_operations", defaults.PathsOperations)
	v.SetDefault("scoring.weights.response_codes", defaults.ResponseCodes)
	v.SetDefault("scoring.weights.examples", defaults.Examples)
	v.SetDefault("scoring.weights.security", defaults.Security)
	v.SetDefault("scoring.weights.miscellaneous", defaults.Miscellaneous)

	// Limits
	v.SetDefault("limits.max_document_bytes", 10*1024*1024)
	v.SetDefault("limits.max_schema_depth", 100)

	// Worker
	v.SetDefault("worker.eval_pool_size", 8)
	v.SetDefault("worker.parallel", false)
}
