package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	// Identity provider (Auth0-style): tokens are verified against the
	// domain's JWKS endpoint and must carry the configured audience.
	AuthDomain   string
	AuthAudience string

	// Web push VAPID credentials.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string

	RateLimitPost time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", ""),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		AuthDomain:   os.Getenv("AUTH_DOMAIN"),
		AuthAudience: os.Getenv("AUTH_AUDIENCE"),

		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: getEnv("VAPID_SUBSCRIBER", "mailto:admin@kindnest.app"),
	}

	if cfg.AuthDomain == "" || cfg.AuthAudience == "" {
		return nil, fmt.Errorf("AUTH_DOMAIN and AUTH_AUDIENCE must be set")
	}

	var err error
	cfg.RateLimitPost, err = time.ParseDuration(getEnv("RATE_LIMIT_POST", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_POST: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
