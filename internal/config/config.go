// Package config loads engine configuration from environment variables,
// with an optional YAML file overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Snapshot source
	SnapshotPath string `yaml:"snapshot_path"`

	// SurrealDB graph store (optional snapshot source)
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`

	// Embedding
	EmbedProvider  string `yaml:"embed_provider"`
	EmbedModel     string `yaml:"embed_model"`
	EmbedDimension int    `yaml:"embed_dimension"`
	OllamaHost     string `yaml:"ollama_host"`
	OpenAIAPIKey   string `yaml:"openai_api_key"`

	// Engine behavior
	LatencyBudget time.Duration `yaml:"-"`
	CacheSize     int           `yaml:"cache_size"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables, applying defaults.
// If BLOCKGRAPH_CONFIG names a YAML file, its values take precedence over
// the environment.
func Load() (Config, error) {
	cfg := Config{
		SnapshotPath: getEnv("BLOCKGRAPH_SNAPSHOT", ""),

		SurrealDBURL:       getEnv("SURREALDB_URL", ""),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "catalog"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "graph"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),

		EmbedProvider:  getEnv("BLOCKGRAPH_EMBED_PROVIDER", ""),
		EmbedModel:     getEnv("BLOCKGRAPH_EMBED_MODEL", ""),
		EmbedDimension: getEnvInt("BLOCKGRAPH_EMBED_DIMENSION", 0),
		OllamaHost:     getEnv("OLLAMA_HOST", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),

		LatencyBudget: time.Duration(getEnvInt("BLOCKGRAPH_LATENCY_BUDGET_MS", 200)) * time.Millisecond,
		CacheSize:     getEnvInt("BLOCKGRAPH_CACHE_SIZE", 256),

		LogFile:  getEnv("BLOCKGRAPH_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("BLOCKGRAPH_LOG_LEVEL", "INFO")),
	}

	if path := os.Getenv("BLOCKGRAPH_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// applyFile overlays values from a YAML config file onto the config.
func (c *Config) applyFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	// Level and budget live outside the YAML struct so the file can use the
	// same textual forms as the env vars ("DEBUG", "250ms").
	var raw struct {
		LogLevel      string `yaml:"log_level"`
		LatencyBudget string `yaml:"latency_budget"`
	}
	if err := yaml.Unmarshal(buf, &raw); err == nil {
		if raw.LogLevel != "" {
			c.LogLevel = parseLogLevel(raw.LogLevel)
		}
		if raw.LatencyBudget != "" {
			d, err := time.ParseDuration(raw.LatencyBudget)
			if err != nil {
				return fmt.Errorf("parse latency_budget: %w", err)
			}
			c.LatencyBudget = d
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
