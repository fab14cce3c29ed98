package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the API server.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	LoginTokenTTL        time.Duration
	Port                 string
	CORSOrigins          []string
	RedisAddr            string
	CookieName           string
	CookieSecure         bool
	SessionSweepInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// A .env file is applied first when present (ok if missing in prod).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:       parseMinutes(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"), 60*time.Minute),
		LoginTokenTTL:        parseMinutes(os.Getenv("LOGIN_TOKEN_EXPIRE_MINUTES"), 30*time.Minute),
		Port:                 envOr("PORT", "8080"),
		CORSOrigins:          splitOrigins(envOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		RedisAddr:            strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		CookieName:           envOr("COOKIE_NAME", "taskhub"),
		CookieSecure:         os.Getenv("COOKIE_SECURE") == "true",
		SessionSweepInterval: parseMinutes(os.Getenv("SESSION_SWEEP_MINUTES"), 10*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskhub.db"
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseMinutes(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw + "m")
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, p := range strings.Split(raw, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
