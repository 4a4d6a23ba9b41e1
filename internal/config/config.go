package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI   string
	Port          string
	JWTSecret     string
	AIAPIKey      string
	AIBaseURL     string
	AIModel       string
	TelegramToken string
}

func Load() (*Config, error) {
	// .env file is optional in production
	_ = godotenv.Load()

	return &Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		Port:          getEnvOrDefault("PORT", "4000"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", "change-me"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		AIBaseURL:     getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:       getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
