package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// StorageBackend selects the record store.
type StorageBackend string

const (
	BackendFile     StorageBackend = "file"
	BackendRedis    StorageBackend = "redis"
	BackendPostgres StorageBackend = "postgres"
)

// Config holds all application configuration.
type Config struct {
	App           AppConfig
	Telegram      TelegramConfig
	Bot           BotConfig
	Storage       StorageConfig
	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `env:"APP_NAME" envDefault:"petquest"`
	Environment Environment `env:"APP_ENV" envDefault:"development"`
	Version     string      `env:"APP_VERSION" envDefault:"dev"`

	// Timezone decides what "today" is for the daily bonus.
	Timezone string `env:"APP_TIMEZONE" envDefault:"Europe/Berlin"`

	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token          string        `env:"TELEGRAM_BOT_TOKEN"`
	PollingTimeout time.Duration `env:"TELEGRAM_POLLING_TIMEOUT" envDefault:"30s"`
	Debug          bool          `env:"TELEGRAM_DEBUG" envDefault:"false"`
}

// BotConfig holds chat surface settings.
type BotConfig struct {
	CommandPrefix string `env:"BOT_COMMAND_PREFIX" envDefault:"!"`

	// Locale selects the reply language ("en" or "de").
	Locale string `env:"BOT_LOCALE" envDefault:"en"`

	// UserRatePerMinute is the per-user update budget. Zero disables limiting.
	UserRatePerMinute int `env:"BOT_USER_RATE_PER_MINUTE" envDefault:"30"`
	UserBurst         int `env:"BOT_USER_BURST" envDefault:"5"`

	// CatalogFile is an optional YAML file replacing the built-in shop.
	CatalogFile string `env:"CATALOG_FILE"`
}

// StorageConfig selects and configures the record store.
type StorageConfig struct {
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"file"`

	DataFile string `env:"DATA_FILE" envDefault:"user_data.json"`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string        `env:"REDIS_KEY" envDefault:"petquest:users"`
	RedisLockTTL  time.Duration `env:"REDIS_LOCK_TTL" envDefault:"5s"`

	DatabaseURL string `env:"DATABASE_URL"`
}

// HTTPConfig holds keep-alive listener settings.
type HTTPConfig struct {
	Enabled bool   `env:"HTTP_ENABLED" envDefault:"true"`
	Host    string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port    int    `env:"HTTP_PORT" envDefault:"8080"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:""`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return Parse()
}

// LoadOffline is Load for tools that never talk to Telegram; the bot token
// may be absent.
func LoadOffline() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return parse(false)
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Parse builds the configuration from the process environment only.
func Parse() (*Config, error) {
	return parse(true)
}

func parse(requireToken bool) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Storage.Backend = StorageBackend(strings.ToLower(string(cfg.Storage.Backend)))

	if err := cfg.validate(requireToken); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(requireToken bool) error {
	var errs []string

	if requireToken && c.Telegram.Token == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); c.App.Timezone == "" || err != nil {
		errs = append(errs, fmt.Sprintf("APP_TIMEZONE %q is not a known IANA zone", c.App.Timezone))
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			errs = append(errs, "DATA_FILE is required for the file backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_BACKEND must be file, redis or postgres (got %q)", c.Storage.Backend))
	}

	if strings.TrimSpace(c.Bot.CommandPrefix) == "" {
		errs = append(errs, "BOT_COMMAND_PREFIX must not be blank")
	}
	if c.Bot.UserRatePerMinute < 0 {
		errs = append(errs, "BOT_USER_RATE_PER_MINUTE must be >= 0")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be 0-65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// LogFormat returns the configured log format, defaulting to JSON in
// production and console output otherwise.
func (c *Config) LogFormat() string {
	if c.Observability.LogFormat != "" {
		return c.Observability.LogFormat
	}
	if c.IsProduction() {
		return "json"
	}
	return "console"
}
