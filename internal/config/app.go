// Package config assembles the service configuration from the environment and
// optional files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	envconfig "smartvision/pkg/config"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// AppConfig holds the API server configuration.
type AppConfig struct {
	// Port the HTTP server listens on. Default: 5000
	Port int

	// DatabaseDriver is "postgres" or "sqlite". Default: postgres
	DatabaseDriver string
	// DatabaseURL is the DSN for the selected driver.
	DatabaseURL string

	// UploadDir is where uploaded PDFs are stored. Default: uploads
	UploadDir string
	// PublicDir holds the single-page front end. Default: public
	PublicDir string

	// UploadMaxBytes caps a PDF upload. Default: 10 MiB
	UploadMaxBytes int64
	// JSONMaxBytes caps JSON request bodies. Default: 1 MiB
	JSONMaxBytes int64

	// SummarizeConcurrency bounds parallel page summarization per request. Default: 4
	SummarizeConcurrency int
	// SummarizerConfigFile is an optional YAML file overriding summarizer tuning.
	SummarizerConfigFile string

	// CORSAllowedOrigins lists allowed origins; "*" allows any. Default: *
	CORSAllowedOrigins []string

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	Version string
}

// LoadDotEnv loads variables from the given .env files (".env" when none is
// given) without overriding variables already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Debug("no env file found, skipping", slog.String("path", p))
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadAppConfig reads the API configuration from the environment and validates it.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                 envconfig.GetEnvInt("PORT", 5000),
		DatabaseDriver:       envconfig.GetEnvString("DB_DRIVER", DriverPostgres),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		UploadDir:            envconfig.GetEnvString("UPLOAD_DIR", "uploads"),
		PublicDir:            envconfig.GetEnvString("PUBLIC_DIR", "public"),
		UploadMaxBytes:       envconfig.GetEnvInt64("UPLOAD_MAX_BYTES", 10<<20),
		JSONMaxBytes:         envconfig.GetEnvInt64("JSON_MAX_BYTES", 1<<20),
		SummarizeConcurrency: envconfig.GetEnvInt("SUMMARIZE_CONCURRENCY", 4),
		SummarizerConfigFile: os.Getenv("SUMMARIZER_CONFIG_FILE"),
		CORSAllowedOrigins:   envconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:      envconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Version:              envconfig.GetEnvString("VERSION", "dev"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR cannot be empty"))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes))
	}
	if c.JSONMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("JSON_MAX_BYTES must be positive, got %d", c.JSONMaxBytes))
	}
	if c.SummarizeConcurrency < 1 {
		errs = append(errs, fmt.Errorf("SUMMARIZE_CONCURRENCY must be >= 1, got %d", c.SummarizeConcurrency))
	}
	if err := envconfig.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SQLiteDSN returns the DSN for the sqlite driver, defaulting to a local file.
func (c *AppConfig) SQLiteDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "file:smartvision.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
