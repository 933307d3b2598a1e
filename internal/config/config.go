package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var backends = []string{BackendMemory, BackendSQLite, BackendPostgres}

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Financia"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Storage struct {
		Backend    string `envconfig:"STORAGE_BACKEND" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"data/financia.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"financia"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	}

	Assistant struct {
		APIKey      string        `envconfig:"GEMINI_API_KEY"`
		Model       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		Temperature float32       `envconfig:"GEMINI_TEMPERATURE" default:"0.5"`
		Timeout     time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"60s"`
	}

	Cache struct {
		Enabled bool  `envconfig:"CACHE_ENABLED" default:"true"`
		MaxCost int64 `envconfig:"CACHE_MAX_COST" default:"67108864"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		// File receives the terminal UI's logs. Empty discards them.
		File string `envconfig:"LOG_FILE" default:""`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AssistantEnabled reports whether a model API key is configured.
func (c *Config) AssistantEnabled() bool {
	return c.Assistant.APIKey != ""
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port))
	}

	if !slices.Contains(backends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("invalid storage backend %q: must be one of %v", c.Storage.Backend, backends))
	}

	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH cannot be empty when using the sqlite backend"))
	}

	if c.Storage.Backend == BackendPostgres && c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME cannot be empty when using the postgres backend"))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid token ttl %s: must be positive", c.Auth.TokenTTL))
	}

	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 2 {
		errs = append(errs, fmt.Errorf("invalid assistant temperature %.2f: must be between 0 and 2", c.Assistant.Temperature))
	}

	if c.Cache.Enabled && c.Cache.MaxCost <= 0 {
		errs = append(errs, fmt.Errorf("invalid cache max cost %d: must be positive", c.Cache.MaxCost))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
