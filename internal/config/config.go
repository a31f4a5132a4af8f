// Package config handles application configuration loading from
// environment variables, with a .env file honored in development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Allowed browser origins for the SPA frontend.
	CORSOrigins []string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (sessions + response cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Admin session inactivity window.
	IdleTimeout time.Duration

	// S3-compatible object storage for media uploads (optional).
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// EmailJS-compatible notification settings (optional).
	NotifyEndpoint   string
	NotifyServiceID  string
	NotifyTemplateID string
	NotifyUserID     string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is merged in first (existing environment wins). Returns an error if
// critical values are missing in production mode.
func Load() (*Config, error) {
	// Absent .env is fine; godotenv never overrides real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		CORSOrigins: splitCSV(envOrDefault("CORS_ORIGINS", "http://localhost:5173")),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "devfolio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "devfolio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		IdleTimeout: envDuration("IDLE_TIMEOUT_MINUTES", 5),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "devfolio-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "devfolio-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		NotifyEndpoint:   envOrDefault("NOTIFY_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send"),
		NotifyServiceID:  os.Getenv("NOTIFY_SERVICE_ID"),
		NotifyTemplateID: os.Getenv("NOTIFY_TEMPLATE_ID"),
		NotifyUserID:     os.Getenv("NOTIFY_USER_ID"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration reads a whole-minutes environment variable.
func envDuration(key string, fallbackMinutes int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(fallbackMinutes) * time.Minute
}

// splitCSV splits a comma-separated list, trimming whitespace.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
