package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv string `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`

	// Backend services. Mutations go to the write API, every query to the read API.
	WriteAPIURL string        `mapstructure:"WRITE_API_URL" validate:"required,url"`
	ReadAPIURL  string        `mapstructure:"READ_API_URL" validate:"required,url"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"required"`
	ClientRPS   float64       `mapstructure:"CLIENT_RPS" validate:"gte=0"`
	ClientBurst int           `mapstructure:"CLIENT_BURST" validate:"gte=1"`
	PageLimit   int           `mapstructure:"PAGE_LIMIT" validate:"gte=1,lte=500"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	SessionFile string `mapstructure:"SESSION_FILE" validate:"required"`
	DownloadDir string `mapstructure:"DOWNLOAD_DIR" validate:"required"`

	// Local sandbox backend.
	SandboxWriteAddr     string        `mapstructure:"SANDBOX_WRITE_ADDR" validate:"required,hostname_port"`
	SandboxReadAddr      string        `mapstructure:"SANDBOX_READ_ADDR" validate:"required,hostname_port"`
	SandboxDatabaseURL   string        `mapstructure:"SANDBOX_DATABASE_URL" validate:"required"`
	SandboxJWTSecret     string        `mapstructure:"SANDBOX_JWT_SECRET"`
	SandboxAdminEmail    string        `mapstructure:"SANDBOX_ADMIN_EMAIL" validate:"omitempty,email"`
	SandboxAdminPassword string        `mapstructure:"SANDBOX_ADMIN_PASSWORD" validate:"omitempty,min=8"`
	ShutdownTimeout      time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`
}

var (
	cfg      *Config
	validate = validator.New(validator.WithRequiredStructEnabled())
)

var keys = []string{
	"APP_ENV",
	"WRITE_API_URL",
	"READ_API_URL",
	"HTTP_TIMEOUT",
	"CLIENT_RPS",
	"CLIENT_BURST",
	"PAGE_LIMIT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"SESSION_FILE",
	"DOWNLOAD_DIR",
	"SANDBOX_WRITE_ADDR",
	"SANDBOX_READ_ADDR",
	"SANDBOX_DATABASE_URL",
	"SANDBOX_JWT_SECRET",
	"SANDBOX_ADMIN_EMAIL",
	"SANDBOX_ADMIN_PASSWORD",
	"SHUTDOWN_TIMEOUT",
}

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("admin")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "ramya-admin"))
	}
	v.AutomaticEnv()

	stateDir := defaultStateDir()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WRITE_API_URL", "http://127.0.0.1:8000")
	v.SetDefault("READ_API_URL", "http://127.0.0.1:8001")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("CLIENT_RPS", 10)
	v.SetDefault("CLIENT_BURST", 20)
	v.SetDefault("PAGE_LIMIT", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SESSION_FILE", filepath.Join(stateDir, "session.json"))
	v.SetDefault("DOWNLOAD_DIR", filepath.Join(stateDir, "downloads"))
	v.SetDefault("SANDBOX_WRITE_ADDR", "127.0.0.1:8000")
	v.SetDefault("SANDBOX_READ_ADDR", "127.0.0.1:8001")
	v.SetDefault("SANDBOX_DATABASE_URL", filepath.Join(stateDir, "sandbox.db"))
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	// Optional config file
	_ = v.ReadInConfig()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Parse duration types that may come as string
	for key, dst := range map[string]*time.Duration{
		"HTTP_TIMEOUT":     &c.HTTPTimeout,
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	} {
		if s := v.GetString(key); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = &c
	return cfg, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// Get returns the loaded configuration. Panics if not loaded.
func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call config.Load or config.MustLoad first")
	}
	return cfg
}

// IsDevelopment reports whether verbose diagnostics are appropriate.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "test"
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ramya-admin")
	}
	return filepath.Join(os.TempDir(), "ramya-admin")
}
