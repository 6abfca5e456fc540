package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is loaded into the process environment, when present, before env overrides are applied.
var DefaultEnvFile = ".env"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
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
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	// Store holds per-call limits applied by the services around every gateway call.
	Store struct {
		QueryTimeout    string `yaml:"query_timeout" env:"STORE_QUERY_TIMEOUT"`
		SuggestionLimit int    `yaml:"suggestion_limit" env:"STORE_SUGGESTION_LIMIT"`
		TrendingLimit   int    `yaml:"trending_limit" env:"STORE_TRENDING_LIMIT"`
	} `yaml:"store"`

	Cache struct {
		Enabled bool   `yaml:"enabled" env:"CACHE_ENABLED"`
		URL     string `yaml:"url" env:"CACHE_REDIS_URL"`
		TTL     string `yaml:"ttl" env:"CACHE_TTL"`
	} `yaml:"cache"`

	Jobs struct {
		OrphanReportEnabled  bool   `yaml:"orphan_report_enabled" env:"JOBS_ORPHAN_REPORT_ENABLED"`
		OrphanReportSchedule string `yaml:"orphan_report_schedule" env:"JOBS_ORPHAN_REPORT_SCHEDULE"`
	} `yaml:"jobs"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
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

	if err := loadEnvFile(DefaultEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadEnvFile reads KEY=value pairs into the environment without overriding variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "coursereview"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Store.QueryTimeout = "5s"
	config.Store.SuggestionLimit = 10
	config.Store.TrendingLimit = 5

	config.Cache.URL = "redis://localhost:6379/0"
	config.Cache.TTL = "1m"

	config.Jobs.OrphanReportSchedule = "0 0 3 * * *"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}

	if _, err := time.ParseDuration(config.Store.QueryTimeout); err != nil {
		return fmt.Errorf("invalid store query timeout: %w", err)
	}

	if config.Store.SuggestionLimit <= 0 {
		return fmt.Errorf("store suggestion limit must be positive")
	}

	if config.Store.TrendingLimit <= 0 {
		return fmt.Errorf("store trending limit must be positive")
	}

	if config.Cache.Enabled {
		if config.Cache.URL == "" {
			return fmt.Errorf("cache url is required when the cache is enabled")
		}
		if _, err := time.ParseDuration(config.Cache.TTL); err != nil {
			return fmt.Errorf("invalid cache ttl: %w", err)
		}
	}

	if config.Jobs.OrphanReportEnabled && strings.TrimSpace(config.Jobs.OrphanReportSchedule) == "" {
		return fmt.Errorf("orphan report schedule is required when the job is enabled")
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
