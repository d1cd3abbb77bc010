package config

import (
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Cache   CacheConfig
	Views   ViewsConfig
	Site    SiteConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

// DBConfig holds database-related configuration
type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// CacheConfig holds the result cache configuration
type CacheConfig struct {
	Capacity           int
	NumShards          int
	BaseTTL            time.Duration
	MaxJitter          time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// ViewsConfig holds view accounting configuration
type ViewsConfig struct {
	MaxIncrement  int64
	Workers       int
	QueueSize     int
	RatePerSecond float64
	Timeout       time.Duration
}

// SiteConfig holds tenant URL and request defaults
type SiteConfig struct {
	Domain             string
	DefaultNetworkID   int64
	DefaultNetworkSlug string
	PopularWindow      time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Namespace string
}

// Load loads the application configuration from environment variables,
// reading a .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "3000"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DB_DSN", "root:@tcp(localhost:3306)/news?parseTime=true"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 60*time.Second),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			SlowQuery:       getEnvAsDuration("DB_SLOW_QUERY", 500*time.Millisecond),
		},
		Cache: CacheConfig{
			Capacity:           getEnvAsInt("CACHE_CAPACITY", 10000),
			NumShards:          getEnvAsInt("CACHE_SHARDS", 256),
			BaseTTL:            getEnvAsDuration("CACHE_BASE_TTL", 120*time.Second),
			MaxJitter:          getEnvAsDuration("CACHE_MAX_JITTER", 60*time.Second),
			EvictionPercentage: getEnvAsInt("CACHE_EVICTION_PERCENTAGE", 10),
			EvictionInterval:   getEnvAsDuration("CACHE_EVICTION_INTERVAL", 0),
		},
		Views: ViewsConfig{
			MaxIncrement:  int64(getEnvAsInt("VIEWS_MAX_INCREMENT", 800)),
			Workers:       getEnvAsInt("VIEWS_WORKERS", 4),
			QueueSize:     getEnvAsInt("VIEWS_QUEUE_SIZE", 1024),
			RatePerSecond: getEnvAsFloat("VIEWS_RATE_PER_SECOND", 0),
			Timeout:       getEnvAsDuration("VIEWS_TIMEOUT", 5*time.Second),
		},
		Site: SiteConfig{
			Domain:             getEnv("SITE_DOMAIN", "times.co.id"),
			DefaultNetworkID:   int64(getEnvAsInt("DEFAULT_NETWORK_ID", 2)),
			DefaultNetworkSlug: getEnv("DEFAULT_NETWORK_SLUG", "malang"),
			PopularWindow:      getEnvAsDuration("POPULAR_WINDOW", 30*24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "newsnet"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section. Numeric minimums are paired with Required
// because ozzo skips threshold rules on zero values.
func (c *Config) Validate() error {
	return validation.Errors{
		"server":  c.Server.Validate(),
		"db":      c.DB.Validate(),
		"cache":   c.Cache.Validate(),
		"views":   c.Views.Validate(),
		"site":    c.Site.Validate(),
		"metrics": validation.ValidateStruct(&c.Metrics, validation.Field(&c.Metrics.Namespace, validation.Required)),
	}.Filter()
}

// Validate checks the server section.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required),
		validation.Field(&s.Env, validation.In("development", "production", "test")),
	)
}

// Validate checks the database section.
func (d DBConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In("mysql", "postgres", "sqlite3")),
		validation.Field(&d.DSN, validation.Required),
		validation.Field(&d.MaxOpenConns, validation.Required, validation.Min(1)),
		validation.Field(&d.MaxIdleConns, validation.Min(0)),
	)
}

// Validate checks the cache section.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.BaseTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.MaxJitter, validation.Min(time.Duration(0))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

// Validate checks the views section.
func (v ViewsConfig) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.MaxIncrement, validation.Required, validation.Min(int64(1))),
		validation.Field(&v.Workers, validation.Required, validation.Min(1)),
		validation.Field(&v.QueueSize, validation.Required, validation.Min(1)),
		validation.Field(&v.RatePerSecond, validation.Min(float64(0))),
		validation.Field(&v.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// Validate checks the site section.
func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Domain, validation.Required),
		validation.Field(&s.DefaultNetworkID, validation.Required, validation.Min(int64(1))),
		validation.Field(&s.DefaultNetworkSlug, validation.Required),
		validation.Field(&s.PopularWindow, validation.Required, validation.Min(time.Hour)),
	)
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
