package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/graham-screener/internal/secrets"
)

// Cache backends.
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Sources   SourcesConfig
	Screen    ScreenConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CacheConfig selects where fundamentals records are kept.
type CacheConfig struct {
	Backend string
	Dir     string
}

// SourcesConfig holds the upstream endpoints and credentials.
type SourcesConfig struct {
	YahooBaseURL  string
	YahooChartURL string
	FMPBaseURL    string
	FMPAPIKey     string
	NasdaqBaseURL string
	HTTPTimeout   time.Duration
}

// ScreenConfig holds screening options.
type ScreenConfig struct {
	CriteriaFile string
	Concurrency  int
}

// LogConfig holds logging options.
type LogConfig struct {
	Level  string
	Pretty bool
}

// SchedulerConfig holds the periodic refresh settings. Both fields must be
// set for the refresh to run.
type SchedulerConfig struct {
	Schedule      string
	WatchlistFile string
}

// Enabled reports whether a scheduled refresh is configured.
func (c SchedulerConfig) Enabled() bool {
	return c.Schedule != "" && c.WatchlistFile != ""
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/screener.db"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendFile)),
			Dir:     getEnv("CACHE_DIR", "./data"),
		},
		Sources: SourcesConfig{
			YahooBaseURL:  getEnv("YAHOO_BASE_URL", ""),
			YahooChartURL: getEnv("YAHOO_CHART_URL", ""),
			FMPBaseURL:    getEnv("FMP_BASE_URL", ""),
			NasdaqBaseURL: getEnv("NASDAQ_BASE_URL", ""),
		},
		Screen: ScreenConfig{
			CriteriaFile: getEnv("SCREEN_CRITERIA_FILE", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			Schedule:      getEnv("REFRESH_SCHEDULE", ""),
			WatchlistFile: getEnv("WATCHLIST_FILE", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	var err error
	if config.Screen.Concurrency, err = getEnvInt("SCREEN_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if config.Screen.Concurrency < 1 {
		return nil, fmt.Errorf("SCREEN_CONCURRENCY must be at least 1, got %d", config.Screen.Concurrency)
	}
	if config.Sources.HTTPTimeout, err = getEnvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.Log.Pretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}

	switch config.Cache.Backend {
	case CacheBackendFile, CacheBackendSQLite:
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q",
			CacheBackendFile, CacheBackendSQLite, config.Cache.Backend)
	}

	config.Sources.FMPAPIKey, err = secrets.Decrypt(os.Getenv("SECRET_KEY"), getEnv("FMP_API_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt FMP_API_KEY: %w", err)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
