package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout    string   `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout   string   `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		TrustedProxies []string `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		Format     string `yaml:"format" env:"LOG_FORMAT"`
		File       string `yaml:"file" env:"LOG_FILE"`
		MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
		MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
		MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
		Compress   bool   `yaml:"compress" env:"LOG_COMPRESS"`
	} `yaml:"logging"`

	Feed struct {
		DefaultPageSize int `yaml:"default_page_size" env:"FEED_DEFAULT_PAGE_SIZE"`
		MaxPageSize     int `yaml:"max_page_size" env:"FEED_MAX_PAGE_SIZE"`
	} `yaml:"feed"`

	RateLimit struct {
		JoinRequestsPerMinute int `yaml:"join_requests_per_minute" env:"RATE_LIMIT_JOIN_REQUESTS_PER_MINUTE"`
		AuthPerMinute         int `yaml:"auth_per_minute" env:"RATE_LIMIT_AUTH_PER_MINUTE"`
		Burst                 int `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	Reconcile struct {
		Enabled   bool   `yaml:"enabled" env:"RECONCILE_ENABLED"`
		Interval  string `yaml:"interval" env:"RECONCILE_INTERVAL"`
		Workers   int    `yaml:"workers" env:"RECONCILE_WORKERS"`
		BatchSize int    `yaml:"batch_size" env:"RECONCILE_BATCH_SIZE"`
	} `yaml:"reconcile"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "collabhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "collabhub.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.MaxSizeMB = 100
	config.Logging.MaxBackups = 3
	config.Logging.MaxAgeDays = 28

	config.Feed.DefaultPageSize = 10
	config.Feed.MaxPageSize = 100

	config.RateLimit.JoinRequestsPerMinute = 20
	config.RateLimit.AuthPerMinute = 30
	config.RateLimit.Burst = 10

	config.Reconcile.Enabled = true
	config.Reconcile.Interval = "5m"
	config.Reconcile.Workers = 4
	config.Reconcile.BatchSize = 100
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"server read timeout":         config.Server.ReadTimeout,
		"server write timeout":        config.Server.WriteTimeout,
		"reconcile interval":          config.Reconcile.Interval,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Feed.DefaultPageSize <= 0 || config.Feed.MaxPageSize < config.Feed.DefaultPageSize {
		return fmt.Errorf("feed page sizes must satisfy 0 < default <= max")
	}

	if config.RateLimit.JoinRequestsPerMinute <= 0 || config.RateLimit.AuthPerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	if config.Reconcile.Workers <= 0 || config.Reconcile.BatchSize <= 0 {
		return fmt.Errorf("reconcile workers and batch size must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
