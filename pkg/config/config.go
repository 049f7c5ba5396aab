package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Port        string
	Environment string

	DatabaseDriver string
	DatabaseDSN    string
	MigrationsPath string
	LogQueries     bool

	JWTSecret string
	TokenTTL  time.Duration

	RateLimitEnabled bool
	RateLimits       map[string]RateLimitConfig
	RateLimitDefault RateLimitConfig

	ReminderInterval time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:           "8080",
		Environment:    "development",
		DatabaseDriver: "sqlite3",
		DatabaseDSN:    "database.db?_foreign_keys=on",
		MigrationsPath: "db/migrations",

		JWTSecret: "development-secret",
		TokenTTL:  3 * time.Hour,

		RateLimitEnabled: true,
		RateLimits: map[string]RateLimitConfig{
			"POST /signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"GET /todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /todos": {
				Requests: 20,
				Window:   time.Minute,
			},
		},
		RateLimitDefault: RateLimitConfig{
			Requests: 60,
			Window:   time.Minute,
		},

		ReminderInterval: 15 * time.Minute,
	}
}

// Load builds the config from the environment on top of the defaults.
func Load() *AppConfig {
	cfg := GetDefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Environment = env
	}

	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.DatabaseDriver = driver
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		cfg.MigrationsPath = path
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}

	if v := os.Getenv("LOG_QUERIES"); v != "" {
		cfg.LogQueries, _ = strconv.ParseBool(v)
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimitEnabled, _ = strconv.ParseBool(v)
	}

	if v := os.Getenv("REMINDER_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil {
			cfg.ReminderInterval = interval
		}
	}

	return cfg
}
