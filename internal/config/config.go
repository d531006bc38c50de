package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
)

// Supported cache backends.
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Warmer   WarmerConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
	// FanoutLimit bounds concurrent month resolutions per conversion.
	FanoutLimit int
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// UpstreamConfig holds the BS month endpoint settings and fetch policy
type UpstreamConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RateLimit     float64
	Burst         int
	FetchAttempts int
	RetryDelay    time.Duration
	FetchTimeout  time.Duration
}

// CacheConfig selects the month cache backend
type CacheConfig struct {
	Backend string
	TTL     time.Duration
}

// RedisConfig holds the connection settings for the redis backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// WarmerConfig holds the cron schedule of the cache warmer. An empty schedule
// disables warming.
type WarmerConfig struct {
	Schedule string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and .env file.
// Malformed numeric or duration values are reported as errors rather than
// silently replaced by defaults.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	p := &parser{}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "5001"),
			Host:        getEnv("SERVER_HOST", "localhost"),
			FanoutLimit: p.getInt("FANOUT_LIMIT", 5),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/bs_calendar.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Upstream: UpstreamConfig{
			BaseURL:       getEnv("BS_API_BASE_URL", "https://data.miti.bikram.io/data"),
			Timeout:       p.getDuration("BS_API_TIMEOUT", 10*time.Second),
			RateLimit:     p.getFloat("BS_API_RATE_LIMIT", 5),
			Burst:         p.getInt("BS_API_BURST", 5),
			FetchAttempts: p.getInt("FETCH_ATTEMPTS", 2),
			RetryDelay:    p.getDuration("FETCH_RETRY_DELAY", 500*time.Millisecond),
			FetchTimeout:  p.getDuration("FETCH_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendSQLite)),
			TTL:     p.getDuration("CACHE_TTL", 30*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       p.getInt("REDIS_DB", 0),
		},
		Warmer: WarmerConfig{
			Schedule: getEnv("WARM_SCHEDULE", "@every 6h"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if p.err != nil {
		return nil, p.err
	}

	switch config.Cache.Backend {
	case CacheBackendSQLite, CacheBackendRedis, CacheBackendMemory:
	default:
		return nil, fmt.Errorf("%w %q: CACHE_BACKEND must be sqlite, redis or memory", apperrors.ErrUnknownCacheBackend, config.Cache.Backend)
	}
	if config.Upstream.FetchAttempts < 1 {
		return nil, fmt.Errorf("invalid FETCH_ATTEMPTS %d: must be at least 1", config.Upstream.FetchAttempts)
	}
	if strings.EqualFold(config.Warmer.Schedule, "off") {
		config.Warmer.Schedule = ""
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

// getList splits a comma separated variable, dropping empty entries.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parser records the first malformed variable.
type parser struct {
	err error
}

func (p *parser) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (p *parser) getFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return f
}

func (p *parser) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return d
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}
