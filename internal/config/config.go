package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"3333"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DBMaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns    int32  `env:"DB_MIN_CONNS" envDefault:"5"`

	ClerkSecretKey     string `env:"CLERK_SECRET_KEY"`
	ClerkWebhookSecret string `env:"CLERK_WEBHOOK_SECRET"`

	MetricsUser string `env:"METRICS_USER"`
	MetricsPass string `env:"METRICS_PASS"`
	PprofSecret string `env:"PPROF_SECRET"`

	FCMCredentialsFile string `env:"FCM_CREDENTIALS_FILE" envDefault:"./serviceAccountKey.json"`
	FCMCredentialsJSON string `env:"FCM_SERVICE_ACCOUNT_JSON"`

	RedisURL       string        `env:"REDIS_URL"`
	LeaderboardTTL time.Duration `env:"LEADERBOARD_TTL" envDefault:"60s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"30"`

	DefaultWeeklyGoalG float64 `env:"DEFAULT_WEEKLY_GOAL_G" envDefault:"5000"`
}

// Load reads an optional .env file and then the process environment.
// loadedDotenv is false when no .env file was found, which is not an error.
func Load(files ...string) (cfg *Config, loadedDotenv bool, err error) {
	loadedDotenv = godotenv.Load(files...) == nil

	cfg = &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, loadedDotenv, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, loadedDotenv, err
	}
	return cfg, loadedDotenv, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL environment variable is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.DefaultWeeklyGoalG <= 0 {
		return errors.New("DEFAULT_WEEKLY_GOAL_G must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
