package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/flowgraph/randgraph/pkg/validation"
)

// Defaults for a run with no environment set.
const (
	DefaultVertices = 5
	DefaultEdges    = 5
	DefaultOutput   = "graph.txt"
	DefaultTimeout  = 30 * time.Second
)

// Config holds all configuration for one generator run
type Config struct {
	Vertices int           `json:"vertices" validate:"min=1"`
	Edges    int           `json:"edges" validate:"min=1"`
	Output   string        `json:"output" validate:"required"`
	Seed     uint64        `json:"seed"`
	Timeout  time.Duration `json:"timeout" validate:"gt=0"`
	Store    StoreConfig   `json:"store"`
}

// StoreConfig selects where generated graphs are archived.
type StoreConfig struct {
	Kind        string `json:"kind" validate:"store_kind"`
	SQLitePath  string `json:"sqlite_path" validate:"required_if=Kind sqlite"`
	DatabaseURL string `json:"database_url" validate:"required_if=Kind postgres"`
	Format      string `json:"format" validate:"blob_format"`
}

// GraphParams lets the validator check the edge budget.
func (c *Config) GraphParams() (int, int) {
	return c.Vertices, c.Edges
}

// Load reads configuration from the environment, after loading any .env
// files given (or ./.env when none are).
func Load(files ...string) (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load(files...)

	cfg := &Config{
		Vertices: getEnvAsInt("RANDGRAPH_VERTICES", DefaultVertices),
		Edges:    getEnvAsInt("RANDGRAPH_EDGES", DefaultEdges),
		Output:   getEnvWithDefault("RANDGRAPH_OUTPUT", DefaultOutput),
		Seed:     getEnvAsUint64("RANDGRAPH_SEED", 0),
		Timeout:  getEnvAsDuration("RANDGRAPH_TIMEOUT", DefaultTimeout),
		Store: StoreConfig{
			Kind:        getEnvWithDefault("RANDGRAPH_STORE", "none"),
			SQLitePath:  getEnvWithDefault("RANDGRAPH_SQLITE_PATH", "randgraph.db"),
			DatabaseURL: getEnvWithDefault("RANDGRAPH_DATABASE_URL", ""),
			Format:      getEnvWithDefault("RANDGRAPH_FORMAT", "msgpack+zstd"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.Struct(c)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
