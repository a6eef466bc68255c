package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	LogFile   string

	// Proxy
	Port         string
	UpstreamURL  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Listing client
	ProxyURL     string
	HTTPTimeout  time.Duration
	DefaultImage string
	ImageDir     string

	// Circuit breaker around data-source fetches
	BreakerEnabled  bool
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("IDEAS_LOG_FILE", ""),

		Port:         getEnv("PORT", "3001"),
		UpstreamURL:  getEnv("IDEAS_UPSTREAM_URL", "https://suitmedia-backend.suitdev.com/api"),
		ReadTimeout:  getDurationEnv("IDEAS_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getDurationEnv("IDEAS_WRITE_TIMEOUT", 15*time.Second),

		ProxyURL:     getEnv("IDEAS_PROXY_URL", "http://localhost:3001"),
		HTTPTimeout:  getDurationEnv("IDEAS_HTTP_TIMEOUT", 30*time.Second),
		DefaultImage: getEnv("IDEAS_DEFAULT_IMAGE", "assets/default-image.jpg"),
		ImageDir:     getEnv("IDEAS_IMAGE_DIR", ""),

		BreakerEnabled:  getBoolEnv("IDEAS_BREAKER_ENABLED", true),
		BreakerFailures: getUint32Env("IDEAS_BREAKER_FAILURES", 5),
		BreakerTimeout:  getDurationEnv("IDEAS_BREAKER_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that would leave the proxy or client unusable.
func (c *Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", c.Port))
	}
	if err := validateBaseURL(c.UpstreamURL); err != nil {
		errs = append(errs, fmt.Errorf("IDEAS_UPSTREAM_URL: %w", err))
	}
	if err := validateBaseURL(c.ProxyURL); err != nil {
		errs = append(errs, fmt.Errorf("IDEAS_PROXY_URL: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("not an absolute http(s) URL: %q", raw)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ListenAddr is the proxy's listen address built from Port.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getUint32Env(key string, defaultValue uint32) uint32 {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint32(u)
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
