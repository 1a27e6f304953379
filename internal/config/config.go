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

	// Sessions
	SessionSecret string

	// Gemini AI
	GeminiAPIKey string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// URLs
	FrontendURL string
	BackendURL  string

	// Generation limits
	MaxDecks     int
	CardsPerDeck int
	GenerateRPM  int
}

// IsProduction reports whether the server runs in production mode.
// Error responses omit internal details when it returns true.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "5000"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),

		SessionSecret: mustGetEnv("SESSION_SECRET"),
		GeminiAPIKey:  mustGetEnv("GEMINI_API_KEY"),

		GoogleClientID:     getEnvOrDefault("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnvOrDefault("GOOGLE_CLIENT_SECRET", ""),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:  getEnvOrDefault("BACKEND_URL", "http://localhost:5000"),

		MaxDecks:     getEnvAsIntOrDefault("MAX_DECKS", 15),
		CardsPerDeck: getEnvAsIntOrDefault("CARDS_PER_DECK", 10),
		GenerateRPM:  getEnvAsIntOrDefault("GENERATE_REQUESTS_PER_MINUTE", 10),
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
