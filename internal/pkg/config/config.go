package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider     string // "gemini" or "openai"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
}

// GoogleMapsConfig covers the place lookup and directions clients.
type GoogleMapsConfig struct {
	APIKey         string
	LookupCacheTTL time.Duration
}

// NotebookConfig holds the itinerary synchronization tunables. The enrichment
// distance threshold and the auto-save debounce are deliberate constants with
// no stronger semantics; they are configurable but default to the values the
// product shipped with.
type NotebookConfig struct {
	EnrichDistanceKm float64
	AutosaveDebounce time.Duration
	SessionTTL       time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
}

type Config struct {
	Repositories RepositoriesConfig
	LLM          LLMConfig
	GoogleMaps   GoogleMapsConfig
	Notebook     NotebookConfig
	Auth         AuthConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tripweaver"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		LLM: LLMConfig{
			Provider:     getEnvOrDefault("LLM_PROVIDER", "gemini"),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		},
		GoogleMaps: GoogleMapsConfig{
			APIKey:         os.Getenv("GOOGLE_MAPS_API_KEY"),
			LookupCacheTTL: getDurationOrDefault("PLACE_LOOKUP_CACHE_TTL", 15*time.Minute),
		},
		Notebook: NotebookConfig{
			EnrichDistanceKm: getFloatOrDefault("ENRICH_DISTANCE_KM", 150),
			AutosaveDebounce: getDurationOrDefault("AUTOSAVE_DEBOUNCE", 500*time.Millisecond),
			SessionTTL:       getDurationOrDefault("NOTEBOOK_SESSION_TTL", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			TokenExpiration: getDurationOrDefault("JWT_EXPIRATION", 24*time.Hour),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
