// Package config loads and validates the service configuration from the
// process environment, with an optional .env file as a lower-priority
// source. Loading is one-shot and fail-fast: the process must not start
// with an invalid configuration.
//
// Environment files are resolved in the following order:
//
//  1. ENV_FILE, when set, names the only file loaded.
//  2. .env in the working directory otherwise.
//
// Values already present in the process environment always win over file
// contents.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperr "github.com/codex-template/service-template/internal/errors"
)

// Defaults for every recognized option. SECRET_KEY deliberately has no
// default: a template that ships a baked-in secret ships a vulnerability.
const (
	DefaultAppName            = "Codex Template"
	DefaultAppVersion         = "0.1.0"
	DefaultEnvironment        = "development"
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 8000
	DefaultRedisURL           = "redis://localhost:6379"
	DefaultAPIPrefix          = "/api/v1"
	DefaultTokenExpireMinutes = 30
	DefaultLogLevel           = "INFO"
	DefaultLogFormat          = "json"
)

// AppConfig identifies the application instance.
type AppConfig struct {
	Name        string
	Version     string
	Debug       bool
	Environment string
	APIPrefix   string
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds the optional database connection settings.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	URL string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	SecretKey                string
	AccessTokenExpireMinutes int
}

// CORSConfig holds the allowed cross-origin request sources.
type CORSConfig struct {
	Origins []string
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// FeatureConfig holds the feature flags.
type FeatureConfig struct {
	EnableDocs    bool
	EnableMetrics bool
}

// Config is the validated configuration snapshot for a process. Instances
// are immutable once constructed; callers must treat every field as
// read-only.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Logging  LoggingConfig
	Features FeatureConfig
}

// IsProduction reports whether the environment tag is "production".
func (c *Config) IsProduction() bool { return c.App.Environment == "production" }

// IsDevelopment reports whether the environment tag is "development".
func (c *Config) IsDevelopment() bool { return c.App.Environment == "development" }

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessTokenTTL returns the access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenExpireMinutes) * time.Minute
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

var validLogLevels = map[string]bool{
	"DEBUG":    true,
	"INFO":     true,
	"WARNING":  true,
	"ERROR":    true,
	"CRITICAL": true,
}

var validLogFormats = map[string]bool{
	"json":   true,
	"pretty": true,
}

// Load constructs a Config by reading every recognized environment
// variable, applying documented defaults for unset ones and validating the
// result. It returns a ConfigurationError naming the first offending field.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", DefaultAppName),
			Version:     getEnv("APP_VERSION", DefaultAppVersion),
			Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
			APIPrefix:   getEnv("API_V1_PREFIX", DefaultAPIPrefix),
		},
		Server: ServerConfig{
			Host: getEnv("HOST", DefaultHost),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", DefaultRedisURL),
		},
		Auth: AuthConfig{
			SecretKey: os.Getenv("SECRET_KEY"),
		},
		CORS: CORSConfig{
			Origins: splitOrigins(getEnv("CORS_ORIGINS", "*")),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", DefaultLogLevel),
			Format: getEnv("LOG_FORMAT", DefaultLogFormat),
		},
	}

	var err error
	if cfg.App.Debug, err = getBool("DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.Server.Port, err = getInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.Auth.AccessTokenExpireMinutes, err = getInt("ACCESS_TOKEN_EXPIRE_MINUTES", DefaultTokenExpireMinutes); err != nil {
		return nil, err
	}
	if cfg.Features.EnableDocs, err = getBool("ENABLE_DOCS", true); err != nil {
		return nil, err
	}
	if cfg.Features.EnableMetrics, err = getBool("ENABLE_METRICS", true); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return apperr.Configuration("SECRET_KEY", "required and must not be empty")
	}
	if !validEnvironments[c.App.Environment] {
		return apperr.Configuration("ENVIRONMENT",
			fmt.Sprintf("must be one of development, staging, production; got %q", c.App.Environment))
	}
	if c.Server.Host == "" {
		return apperr.Configuration("HOST", "must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return apperr.Configuration("PORT", fmt.Sprintf("must be between 1 and 65535; got %d", c.Server.Port))
	}
	if c.Auth.AccessTokenExpireMinutes < 1 {
		return apperr.Configuration("ACCESS_TOKEN_EXPIRE_MINUTES",
			fmt.Sprintf("must be a positive number of minutes; got %d", c.Auth.AccessTokenExpireMinutes))
	}
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			return apperr.Configuration("DATABASE_URL", fmt.Sprintf("not a valid URL: %v", err))
		}
	}
	if !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return apperr.Configuration("REDIS_URL", fmt.Sprintf("must start with redis:// or rediss://; got %q", c.Redis.URL))
	}
	if len(c.CORS.Origins) == 0 {
		return apperr.Configuration("CORS_ORIGINS", "must list at least one origin")
	}
	if !validLogLevels[c.Logging.Level] {
		return apperr.Configuration("LOG_LEVEL",
			fmt.Sprintf("must be one of DEBUG, INFO, WARNING, ERROR, CRITICAL; got %q", c.Logging.Level))
	}
	if !validLogFormats[c.Logging.Format] {
		return apperr.Configuration("LOG_FORMAT",
			fmt.Sprintf("must be json or pretty; got %q", c.Logging.Format))
	}
	return nil
}

// loadEnvFile merges .env contents into the process environment without
// overriding variables that are already set. A missing file is not an
// error; an unreadable ENV_FILE is ignored as well since the environment
// itself remains authoritative.
func loadEnvFile() {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = godotenv.Load(envFile)
		return
	}
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
	if err != nil {
		return false, apperr.Configuration(key, fmt.Sprintf("not a valid boolean: %q", v))
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, apperr.Configuration(key, fmt.Sprintf("not a valid integer: %q", v))
	}
	return n, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
