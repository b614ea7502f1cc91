package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// OpenAI (hosted chat + image backend)
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIImageModel     string
	OpenAIConcurrentReqs int

	// Gemini (brochure backend)
	GeminiAPIKey string
	GeminiModel  string

	// Ollama (local backend)
	OllamaURL          string
	OllamaModel        string
	OllamaSummaryModel string

	// Workers
	WorkerCount int

	// Storage
	StoragePath string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		OpenAIAPIKey:         mustGetEnv("OPENAI_API_KEY"),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIImageModel:     getEnvOrDefault("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIConcurrentReqs: getEnvAsIntOrDefault("OPENAI_CONCURRENT_REQUESTS", 5),

		GeminiAPIKey: mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),

		OllamaURL:          getEnvOrDefault("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:        getEnvOrDefault("OLLAMA_MODEL", "llama3.2"),
		OllamaSummaryModel: getEnvOrDefault("OLLAMA_SUMMARY_MODEL", "llama3.2:1b"),

		WorkerCount: getEnvAsIntOrDefault("WORKER_COUNT", 5),
		StoragePath: getEnvOrDefault("STORAGE_PATH", "./posters"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:8080"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
