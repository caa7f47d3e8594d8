// Package config loads the service configuration from the environment,
// with a .env file honored in development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is everything the binaries read from the environment.
type Config struct {
	HTTPAddr string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// Optional integrations; empty disables them.
	TelegramToken  string
	TelegramChatID int64
	WebhookURL     string
	MQTTBroker     string
	MQTTClientID   string
}

// Load reads the environment. Required values are checked by the binary
// that needs them; the admin CLI runs without a JWT secret.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:    os.Getenv("NOTIFY_WEBHOOK_URL"),
		MQTTBroker:    os.Getenv("MQTT_BROKER"),
		MQTTClientID:  getenv("MQTT_CLIENT_ID", "pontotaxi-backend"),
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "pontotaxi"),
			os.Getenv("DB_PASSWORD"),
			getenv("DB_NAME", "pontotaxi"),
			getenv("DB_PORT", "5432"),
		)
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = n
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
