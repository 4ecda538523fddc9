// Package config loads the service configuration from environment variables.
package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fxsignal_backend/internal/platform/db"
	"fxsignal_backend/internal/platform/logger"
)

// Market data providers.
const (
	ProviderOanda        = "oanda"
	ProviderAlphaVantage = "alphavantage"
	ProviderDemo         = "demo"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPAddr string

	DB            db.Config
	RunMigrations bool

	// Infrastructure
	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	// Market data
	MarketProvider      string
	OandaAPIKey         string
	OandaEnv            string
	AlphaVantageAPIKey  string
	AlphaVantageBaseURL string
	ProviderRatePerMin  int
	CatalogPath         string

	// API
	JWTSecret   string
	RequireAuth bool
	CORSOrigins []string

	LogLevel slog.Level
	LogFile  string

	GeminiEnabled bool
	GeminiModel   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DB:            db.LoadConfigFromEnv(),
		RunMigrations: getBool("RUN_MIGRATIONS", false),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getDuration("CACHE_TTL", 20*time.Second),

		MarketProvider:      strings.ToLower(getEnv("MARKET_PROVIDER", ProviderOanda)),
		OandaAPIKey:         getEnv("OANDA_API_KEY", ""),
		OandaEnv:            strings.ToLower(getEnv("OANDA_ENV", "practice")),
		AlphaVantageAPIKey:  getEnv("ALPHA_VANTAGE_API_KEY", ""),
		AlphaVantageBaseURL: getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
		ProviderRatePerMin:  getInt("PROVIDER_RATE_PER_MIN", 120),
		CatalogPath:         getEnv("CATALOG_PATH", "config/catalog.yaml"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		RequireAuth: getBool("REQUIRE_AUTH", false),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		LogLevel: logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:  getEnv("LOG_FILE", ""),

		GeminiEnabled: getBool("GEMINI_ENABLED", false),
		GeminiModel:   getEnv("GEMINI_MODEL", ""),
	}
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("20s") and plain seconds ("20").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
