package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Upstream booking backend
	UpstreamBaseURL        string
	UpstreamTimeoutSeconds int

	// Redis (sessions, submit guard, seat feed). Empty means in-process only.
	RedisURL string

	// Database (audit trail). Empty disables auditing.
	DatabaseURL string

	// CORS
	AllowedOrigins []string

	// Sessions
	SessionTTL          time.Duration
	SessionCookieSecure bool
	SubmitGuardTTL      time.Duration

	// Proof previews
	PreviewStorage string // local | s3
	PreviewDir     string
	PreviewBaseURL string
	PreviewTTL     time.Duration

	// S3 (previews)
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Upstream
		UpstreamBaseURL:        strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://localhost:8000"), "/"),
		UpstreamTimeoutSeconds: parseInt(getEnv("UPSTREAM_TIMEOUT_SECONDS", "15"), 15),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		// Sessions
		SessionTTL:          parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour),
		SessionCookieSecure: parseBool(getEnv("SESSION_COOKIE_SECURE", "false"), false),
		SubmitGuardTTL:      parseDuration(getEnv("SUBMIT_GUARD_TTL", "1m"), time.Minute),

		// Previews
		PreviewStorage: getEnv("PREVIEW_STORAGE", "local"),
		PreviewDir:     getEnv("PREVIEW_DIR", "./previews"),
		PreviewBaseURL: getEnv("PREVIEW_BASE_URL", "/previews"),
		PreviewTTL:     parseDuration(getEnv("PREVIEW_TTL", "72h"), 72*time.Hour),

		// S3
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", "cinebook-previews"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

// UpstreamTimeout is the per-request budget for calls to the booking backend.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseBool(s string, defaultValue bool) bool {
	value, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
