package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET_KEY is unset. It matches the frontend's
// historical fallback and must never reach production.
const DefaultJWTSecret = "your-super-secret-key-12345"

// Config aggregates runtime configuration for the gate.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Upstream UpstreamConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Name        string
	Development bool
}

// AuthConfig defines credential verification parameters.
type AuthConfig struct {
	JWTSecret string
	// SecretFromDefault reports that JWT_SECRET_KEY was not provided.
	SecretFromDefault bool
}

// UpstreamConfig points at the page renderer that receives forwarded requests.
type UpstreamConfig struct {
	URL            string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET_KEY")
	fromDefault := secret == ""
	if fromDefault {
		secret = DefaultJWTSecret
	}

	upstream := strings.TrimRight(getEnv("UPSTREAM_URL", "http://127.0.0.1:3000"), "/")
	if _, err := url.ParseRequestURI(upstream); err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_URL: %w", err)
	}

	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "shoplive-access-gate"),
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Name:        "gate",
			Development: appEnv == "development",
		},
		Auth: AuthConfig{
			JWTSecret:         secret,
			SecretFromDefault: fromDefault,
		},
		Upstream: UpstreamConfig{
			URL:            upstream,
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 15),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the upstream relay timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
