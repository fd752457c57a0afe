package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Notifier  NotifierConfig
	Geocoder  GeocoderConfig
	Detection DetectionConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	GracefulShutdownTimeout time.Duration
	CORSAllowedOrigins      []string
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	URL string
}

type NotifierConfig struct {
	ProviderURL    string
	APIKey         string
	Recipient      string
	RequestTimeout time.Duration
	RatePerSecond  float64
	WorkerCount    int
	QueueSize      int
}

type GeocoderConfig struct {
	ProviderURL    string
	RequestTimeout time.Duration
}

// DetectionConfig carries tunable classification policy. The food small-talk
// suppression threshold is deliberately a named, configurable constant: the
// right cutoff is a policy decision, and it must be auditable rather than
// buried in the classifier.
type DetectionConfig struct {
	FoodTalkSuppressionThreshold float64
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// AdminConfig guards the event review surface. The rate limit applies only
// to admin routes; conversation turns are never volume-rejected.
type AdminConfig struct {
	AdminSecret        string
	RateLimitPerMinute int
}

// DefaultFoodTalkSuppressionThreshold is the eating-concern score below which
// benign food small talk suppresses a match. Explicit high-risk phrases
// override suppression regardless of this value.
const DefaultFoodTalkSuppressionThreshold = 2.0

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSAllowedOrigins:      getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 1*time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Notifier: NotifierConfig{
			ProviderURL:    getEnv("NOTIFIER_PROVIDER_URL", "https://api.emailjs.com/api/v1.0/email/send"),
			APIKey:         getEnv("NOTIFIER_API_KEY", ""),
			Recipient:      getEnv("NOTIFIER_RECIPIENT", "clinician@cvmhw.com"),
			RequestTimeout: getEnvDuration("NOTIFIER_REQUEST_TIMEOUT", 15*time.Second),
			RatePerSecond:  getEnvFloat("NOTIFIER_RATE_PER_SECOND", 2.0),
			WorkerCount:    getEnvInt("NOTIFIER_WORKER_COUNT", 2),
			QueueSize:      getEnvInt("NOTIFIER_QUEUE_SIZE", 256),
		},
		Geocoder: GeocoderConfig{
			ProviderURL:    getEnv("GEOCODER_PROVIDER_URL", "https://api.bigdatacloud.net/data/reverse-geocode-client"),
			RequestTimeout: getEnvDuration("GEOCODER_REQUEST_TIMEOUT", 10*time.Second),
		},
		Detection: DetectionConfig{
			FoodTalkSuppressionThreshold: getEnvFloat("DETECTION_FOOD_TALK_SUPPRESSION_THRESHOLD", DefaultFoodTalkSuppressionThreshold),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Admin: AdminConfig{
			AdminSecret:        getEnv("ADMIN_SECRET", ""),
			RateLimitPerMinute: getEnvInt("ADMIN_RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}
	if c.Notifier.WorkerCount < 1 {
		return fmt.Errorf("notifier worker count must be at least 1")
	}
	if c.Notifier.QueueSize < 1 {
		return fmt.Errorf("notifier queue size must be at least 1")
	}
	if c.Detection.FoodTalkSuppressionThreshold < 0 {
		return fmt.Errorf("food talk suppression threshold must not be negative")
	}
	if c.Geocoder.RequestTimeout <= 0 {
		return fmt.Errorf("geocoder request timeout must be positive")
	}
	if c.Admin.RateLimitPerMinute < 1 {
		return fmt.Errorf("admin rate limit must be at least 1 per minute")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
