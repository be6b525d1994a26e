package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Trademark check provider ("ipaustralia" or "mock")
	CheckProvider string

	// IP Australia registry configuration.
	// These are intentionally NOT validated at startup: a missing value
	// degrades the trademark check to an "unknown" result at request time
	// rather than preventing the service from starting.
	IPAuEnv          string // "test" or "production"
	IPAuTokenURL     string
	IPAuBaseURL      string
	IPAuClientID     string
	IPAuClientSecret string

	// Outbound HTTP client timeout for registry calls
	HTTPClientTimeout time.Duration

	// CORS origins allowed to call the API (the frontend)
	CORSAllowedOrigins []string

	// Rate limiting for /api/check
	RateLimitEnabled bool
	RateLimitMax     int
	RateLimitWindow  time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8000),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		CheckProvider: getEnv("CHECK_PROVIDER", "ipaustralia"),

		IPAuEnv:          getEnv("IPAU_ENV", "test"),
		IPAuClientID:     getEnv("IPAU_CLIENT_ID", ""),
		IPAuClientSecret: getEnv("IPAU_CLIENT_SECRET", ""),

		HTTPClientTimeout: getEnvDuration("HTTP_CLIENT_TIMEOUT", 30*time.Second),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// The registry exposes separate test and production endpoints; which pair
	// is used follows IPAU_ENV, matching the frontend's expectations.
	if cfg.IPAuEnv == "production" {
		cfg.IPAuTokenURL = getEnv("IPAU_TOKEN_URL_PROD", "")
		cfg.IPAuBaseURL = getEnv("IPAU_TM_BASE_URL_PROD", "")
	} else {
		cfg.IPAuTokenURL = getEnv("IPAU_TOKEN_URL_TEST", "")
		cfg.IPAuBaseURL = getEnv("IPAU_TM_BASE_URL_TEST", "")
	}

	// Parse allowed CORS origins from comma-separated environment variable.
	// Defaults cover the Next.js dev server.
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	for _, origin := range strings.Split(originsStr, ",") {
		trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
		if trimmed != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
		}
	}

	// Validate check provider configuration
	if cfg.CheckProvider != "ipaustralia" && cfg.CheckProvider != "mock" {
		return nil, fmt.Errorf("CHECK_PROVIDER must be either 'ipaustralia' or 'mock', got: %s", cfg.CheckProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
