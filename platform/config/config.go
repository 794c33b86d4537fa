// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// AIConfig provides settings for the Gemini minutes classifier.
// An empty API key means the classifier is unconfigured and the scoring
// pipeline falls back to local simulation.
type AIConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

// WorkerConfig provides settings for the minutes sync worker.
type WorkerConfig interface {
	GetSyncPollInterval() time.Duration
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	RateLimitRPS     float64
	RateLimitBurst   int
	GeminiAPIKey     string
	GeminiModel      string
	SyncPollInterval time.Duration
}

// Load reads configuration from the environment. A .env file is honored
// when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:     mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:   mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SyncPollInterval: mustDuration(getEnv("SYNC_POLL_INTERVAL", "60s")),
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }
func (c *Config) GetGeminiAPIKey() string  { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string   { return c.GeminiModel }

func (c *Config) GetSyncPollInterval() time.Duration { return c.SyncPollInterval }

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func mustDuration(value string) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return time.Minute
	}
	return parsed
}

func mustFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 20
	}
	return parsed
}

func mustInt(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 40
	}
	return parsed
}
