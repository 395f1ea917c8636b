package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Store    StoreConfig
	Catalog  CatalogConfig
	Ai       AIConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port                  string
	Environment           string
	LogFilePath           string
	CompletionLogFilePath string
	CorsAllowedOrigins    string
	NatsURL               string // empty disables event export
	RedisURL              string // empty disables cross-instance fan-out
}

type DatabaseConfig struct {
	Connection string
}

type StoreConfig struct {
	Backend    string // "postgres", "redis" or "memory"
	SessionTTL time.Duration
}

type CatalogConfig struct {
	// Source is an http(s) URL or a path to a JSON file with a top-level "products" array
	Source string
}

type AIConfig struct {
	LLMProvider   string // "openai" or "ollama"
	LLMModel      string
	CompletionURL string
	APIKey        string
	OllamaBaseURL string
	Timeout       time.Duration
}

type EventsConfig struct {
	ChangeTopic string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                  getEnv("APP_PORT", "3000"),
			Environment:           getEnv("GO_ENV", "development"),
			LogFilePath:           getEnv("LOG_FILE_PATH", "app.log.csv"),
			CompletionLogFilePath: getEnv("COMPLETION_LOG_FILE_PATH", "logs/completion.log"),
			CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:               getEnv("NATS_URL", ""),
			RedisURL:              getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "postgres"),
			SessionTTL: time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		Catalog: CatalogConfig{
			Source: getEnv("CATALOG_SOURCE", "products.json"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o"),
			CompletionURL: getEnv("COMPLETION_URL", ""),
			APIKey:        getEnv("COMPLETION_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:       time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 0)) * time.Second,
		},
		Events: EventsConfig{
			ChangeTopic: getEnv("CHANGE_TOPIC", "advisor.changes"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
