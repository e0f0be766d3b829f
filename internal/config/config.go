package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	APIKey        string
	CORSOrigins   string
	RequestBudget time.Duration

	GeminiAPIKey string
	GeminiModel  string

	RedisAddr     string
	RedisPassword string
	StateTTL      time.Duration

	DatabaseURL string

	TourWindowDays int
	SearchLimit    int

	ChatRequestsPerMinute int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		APIKey:        getEnv("LAYLA_API_KEY", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		RequestBudget: getEnvAsDuration("REQUEST_BUDGET", 30*time.Second),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		StateTTL:      getEnvAsDuration("STATE_TTL", 24*time.Hour),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TourWindowDays: getEnvAsInt("TOUR_WINDOW_DAYS", 7),
		SearchLimit:    getEnvAsInt("SEARCH_LIMIT", 5),

		ChatRequestsPerMinute: getEnvAsInt("CHAT_REQUESTS_PER_MINUTE", 60),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
