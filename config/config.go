package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full application configuration, loaded from the
// environment. A .env file is picked up when present.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	LLM       LLMConfig
	Schedule  ScheduleConfig
	Retrieval RetrievalConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// StoreConfig selects and configures the knowledge store backend.
// Driver is one of "sqlite", "postgres", "memory".
type StoreConfig struct {
	Driver     string
	Path       string
	Collection string

	PGHost string
	PGPort int
	PGUser string
	PGPass string
	PGName string

	// PGVectorDim is the pgvector column dimensionality; it must match
	// the embedding model's output size.
	PGVectorDim int
}

// DSN builds the postgres connection string.
func (c *StoreConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPass, c.PGName)
}

// LLMConfig holds the embedding and chat model endpoints. Both speak
// HTTP; the chat endpoint is OpenAI-compatible with tool calling.
type LLMConfig struct {
	EmbedURL   string
	EmbedModel string
	ChatURL    string
	ChatModel  string
	APIKey     string
	Timeout    time.Duration
}

// ScheduleConfig points the tools at the scheduling service and
// configures the in-process one.
type ScheduleConfig struct {
	BaseURL      string
	Token        string
	SchedulePath string
}

// RetrievalConfig tunes the FAQ retrieval pipeline.
type RetrievalConfig struct {
	TopK             int
	MinScore         float64
	MaxContextTokens int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			ListenAddr:      getEnv("SERVER_ADDR", ":8000"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "sqlite"),
			Path:        getEnv("VECTOR_DB_PATH", "./vectordb"),
			Collection:  getEnv("COLLECTION_NAME", "clinic_faq"),
			PGHost:      getEnv("PG_HOST", "localhost"),
			PGPort:      getEnvAsInt("PG_PORT", 5432),
			PGUser:      getEnv("PG_USER", "postgres"),
			PGPass:      getEnv("PG_PASS", ""),
			PGName:      getEnv("PG_DB_NAME", "clinic"),
			PGVectorDim: getEnvAsInt("PG_VECTOR_DIM", 768),
		},
		LLM: LLMConfig{
			EmbedURL:   getEnv("EMBEDDING_URL", "http://localhost:11434/api/embeddings"),
			EmbedModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			ChatURL:    getEnv("LLM_URL", "https://api.groq.com/openai/v1"),
			ChatModel:  getEnv("LLM_MODEL", "openai/gpt-oss-120b"),
			APIKey:     getEnv("LLM_API_KEY", ""),
			Timeout:    getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Schedule: ScheduleConfig{
			BaseURL:      getEnv("SCHEDULE_BASE_URL", "http://localhost:8000"),
			Token:        getEnv("SCHEDULE_TOKEN", ""),
			SchedulePath: getEnv("DOCTOR_SCHEDULE_PATH", ""),
		},
		Retrieval: RetrievalConfig{
			TopK:             getEnvAsInt("RETRIEVAL_TOP_K", 3),
			MinScore:         getEnvAsFloat("RETRIEVAL_MIN_SCORE", 0.3),
			MaxContextTokens: getEnvAsInt("RETRIEVAL_MAX_CONTEXT_TOKENS", 1500),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks driver selection and retrieval bounds.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "memory":
	case "postgres":
		if c.Store.PGVectorDim < 1 {
			return fmt.Errorf("pg vector dimension must be >= 1, got %d", c.Store.PGVectorDim)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval top_k must be >= 1, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 1 {
		return fmt.Errorf("retrieval min_score must be in [0,1], got %f", c.Retrieval.MinScore)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
