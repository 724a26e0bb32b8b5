package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// BackendURL is the base URL of the examination REST backend. All
	// question, result, and settings data lives there; the portal never
	// persists anything itself.
	BackendURL     string
	BackendTimeout time.Duration
	// BackendRetries is the number of retry attempts for idempotent
	// backend calls that fail with a network error or a 5xx status.
	BackendRetries int

	// JWTSecret is shared with the backend so bearer tokens it issues can
	// be verified locally before any proxied call.
	JWTSecret string

	// Fallbacks used when the backend settings endpoint omits a value.
	DefaultDurationMinutes int
	DefaultSubjectQuota    int

	// FontDir holds the TTF fonts the PDF exporter embeds.
	FontDir string

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		GinMode:                getEnv("GIN_MODE", "debug"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "pretty"),
		BackendURL:             getEnv("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:         time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
		BackendRetries:         getEnvInt("BACKEND_RETRIES", 3),
		JWTSecret:              getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		DefaultDurationMinutes: getEnvInt("DEFAULT_EXAM_DURATION_MINUTES", 120),
		DefaultSubjectQuota:    getEnvInt("DEFAULT_SUBJECT_QUOTA", 20),
		FontDir:                getEnv("FONT_DIR", "./fonts"),
		AllowedOrigins:         parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
