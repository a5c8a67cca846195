package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Table sources
const (
	TableSourceStatic = "static"
	TableSourceSQLite = "sqlite"
	TableSourceHTTP   = "http"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Tables    TablesConfig    `mapstructure:"tables"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScoringConfig holds scoring engine configuration
type ScoringConfig struct {
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	DefaultPreset  string `mapstructure:"default_preset"`
	Debug          bool   `mapstructure:"debug"`
}

// TablesConfig selects where the harmful ingredient and allergen keyword lists come from
type TablesConfig struct {
	Source       string `mapstructure:"source"` // "static", "sqlite" or "http"
	SQLitePath   string `mapstructure:"sqlite_path"`
	AdminBaseURL string `mapstructure:"admin_base_url"`
	AdminToken   string `mapstructure:"admin_token"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP    int     `mapstructure:"per_ip"`    // requests per minute
	AdminAPI float64 `mapstructure:"admin_api"` // requests per second
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/petfit/")

	// PETFIT_SERVER_PORT -> server.port
	v.SetEnvPrefix("PETFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Scoring defaults
	v.SetDefault("scoring.max_concurrency", 8)
	v.SetDefault("scoring.default_preset", "BALANCED")
	v.SetDefault("scoring.debug", false)

	// Table source defaults
	v.SetDefault("tables.source", TableSourceStatic)
	v.SetDefault("tables.sqlite_path", "")
	v.SetDefault("tables.admin_base_url", "")
	v.SetDefault("tables.admin_token", "")

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.admin_api", 5)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	switch strings.ToUpper(config.Scoring.DefaultPreset) {
	case "BALANCED", "SAFE", "VALUE":
	default:
		return fmt.Errorf("scoring default preset must be BALANCED, SAFE or VALUE, got: %s", config.Scoring.DefaultPreset)
	}

	if config.Scoring.MaxConcurrency < 1 {
		return fmt.Errorf("scoring max concurrency must be at least 1, got: %d", config.Scoring.MaxConcurrency)
	}

	switch config.Tables.Source {
	case TableSourceStatic:
	case TableSourceSQLite:
		if config.Tables.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when table source is 'sqlite' (set PETFIT_TABLES_SQLITE_PATH)")
		}
	case TableSourceHTTP:
		if config.Tables.AdminBaseURL == "" {
			return fmt.Errorf("admin base URL is required when table source is 'http' (set PETFIT_TABLES_ADMIN_BASE_URL)")
		}
	default:
		return fmt.Errorf("table source must be 'static', 'sqlite' or 'http', got: %s", config.Tables.Source)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP < 1 {
		return fmt.Errorf("per-IP rate limit must be at least 1, got: %d", config.RateLimit.PerIP)
	}

	switch config.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// loadEnvFile copies KEY=VALUE lines from ./.env into the environment.
// Variables that are already set win. A missing file is not an error.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
