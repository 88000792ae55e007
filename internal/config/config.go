package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrMissingDB        = errors.New("DATABASE_URL is required")
	ErrMissingSearchURL = errors.New("SEARCH_API_URL is required")
	ErrInvalidDelay     = errors.New("AUTH_REDIRECT_DELAY_MS must not be negative")
)

type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Search    SearchConfig
	Session   SessionConfig
	Auth      AuthConfig
	Credits   CreditsConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Addr        string
	MetricsAddr string
}

type DatabaseConfig struct {
	URL string
}

type SearchConfig struct {
	BaseURL string
	// 0 - без таймаута, как у браузерного fetch
	Timeout time.Duration
}

type SessionConfig struct {
	RedisURL string
	TTL      time.Duration
}

type AuthConfig struct {
	Path          string
	RedirectDelay time.Duration
}

type CreditsConfig struct {
	FreeSearches int
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() (*Config, error) {
	cfg := load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStore - для команд, которым нужна только база (migrate, credits)
func LoadStore() (*Config, error) {
	cfg := load()
	if cfg.Database.URL == "" {
		return nil, ErrMissingDB
	}
	return cfg, nil
}

func load() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
			MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Search: SearchConfig{
			BaseURL: os.Getenv("SEARCH_API_URL"),
			Timeout: time.Duration(getEnvIntOrDefault("SEARCH_TIMEOUT_SEC", 0)) * time.Second,
		},
		Session: SessionConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			TTL:      time.Duration(getEnvIntOrDefault("SESSION_TTL_SEC", 86400)) * time.Second,
		},
		Auth: AuthConfig{
			Path:          getEnvOrDefault("AUTH_PATH", "/auth"),
			RedirectDelay: time.Duration(getEnvIntOrDefault("AUTH_REDIRECT_DELAY_MS", 2000)) * time.Millisecond,
		},
		Credits: CreditsConfig{
			FreeSearches: getEnvIntOrDefault("FREE_SEARCHES", 3),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		},
	}
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if c.Search.BaseURL == "" {
		return ErrMissingSearchURL
	}
	if c.Auth.RedirectDelay < 0 {
		return ErrInvalidDelay
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
