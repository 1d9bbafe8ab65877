package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	// Server
	Port           string
	Env            string // "development" or "production"
	TrustedProxies []string

	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Security
	JWTSecret string

	// Live map
	MapRefreshInterval time.Duration

	// Notifications
	SendGridAPIKey string
	EmailFromName  string
	EmailFromAddr  string

	// Event publishing (disabled when URL is empty)
	RabbitMQURL      string
	RabbitMQExchange string
}

// Load reads configuration from the environment. A .env file is honored
// when present.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		Env:                getEnv("APP_ENV", "development"),
		DBUser:             getEnv("DB_USER", "server"),
		DBPassword:         getEnv("DB_PASSWORD", "secret"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBName:             getEnv("DB_NAME", "electionwatch"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		MapRefreshInterval: time.Duration(getEnvInt("MAP_REFRESH_INTERVAL_SEC", 30)) * time.Second,
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "ElectionWatch"),
		EmailFromAddr:      getEnv("EMAIL_FROM_ADDR", "alerts@electionwatch.io"),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange:   getEnv("RABBITMQ_EXCHANGE", "electionwatch.reports"),
	}

	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.TrustedProxies = strings.Split(proxies, ",")
		for i, p := range cfg.TrustedProxies {
			cfg.TrustedProxies[i] = strings.TrimSpace(p)
		}
	}

	return cfg
}

// IsDevelopment reports whether the service runs in development mode.
// Error messages from the store are only surfaced to clients in development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
