// Package config loads runtime settings from the environment through viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	AppPort         string
	DBDriver        string
	DatabaseDSN     string
	JWTSecret       string
	JWTTTL          time.Duration
	BcryptCost      int
	RabbitMQURL     string
	RedisAddr       string
	CachePrefix     string
	CacheTTL        time.Duration
	LogLevel        string
	DefaultPerPage  int
	MaxPerPage      int
	ShutdownTimeout time.Duration
	SeedOnStart     bool
	SeedOwnerEmail  string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=teslo port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_PREFIX", "product:")
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEFAULT_PER_PAGE", 5)
	v.SetDefault("MAX_PER_PAGE", 100)
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SEED_ON_START", false)
	v.SetDefault("SEED_OWNER_EMAIL", "admin@teslo.local")
}

// Load reads the configuration from v, which should already have defaults
// and environment binding applied.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		CachePrefix:     v.GetString("CACHE_PREFIX"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		DefaultPerPage:  v.GetInt("DEFAULT_PER_PAGE"),
		MaxPerPage:      v.GetInt("MAX_PER_PAGE"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		SeedOnStart:     v.GetBool("SEED_ON_START"),
		SeedOwnerEmail:  v.GetString("SEED_OWNER_EMAIL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// New builds a viper instance bound to the environment and loads it.
func New() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return Load(v)
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.DefaultPerPage < 1 {
		errs = append(errs, errors.New("DEFAULT_PER_PAGE must be at least 1"))
	}
	if c.MaxPerPage < c.DefaultPerPage {
		errs = append(errs, errors.New("MAX_PER_PAGE must not be below DEFAULT_PER_PAGE"))
	}
	if c.SeedOnStart && c.SeedOwnerEmail == "" {
		errs = append(errs, errors.New("SEED_OWNER_EMAIL is required when SEED_ON_START is set"))
	}
	return errors.Join(errs...)
}
