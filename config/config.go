// Package config loads runtime configuration from the environment, with a
// .env file as an optional development convenience. Values are read once at
// startup; nothing here is mutable at runtime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App    AppConfig
	JWT    JWTConfig
	Engine EngineConfig
	Sync   SyncConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	DBPath   string
}

// JWTConfig holds the verification settings for the identity collaborator.
type JWTConfig struct {
	Secret string
}

// EngineConfig holds the payroll rule parameters. These are deployment
// constants: changing one mid-run would make summaries disagree across
// viewers, so they are wired into services at startup and never mutated.
type EngineConfig struct {
	HighValueThreshold  decimal.Decimal
	DailyOvertimeHours  float64
	WeeklyOvertimeHours float64
	BiweeklyAnchor      time.Time
}

// SyncConfig tunes the cross-instance reconcile loop.
type SyncConfig struct {
	PollInterval time.Duration
	Debounce     time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine: production supplies real environment variables.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBPath:   getEnv("DB_PATH", "./data/brokerage.db"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	threshold, err := decimal.NewFromString(getEnv("HIGH_VALUE_THRESHOLD", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid HIGH_VALUE_THRESHOLD: %w", err)
	}

	dailyOT, err := strconv.ParseFloat(getEnv("DAILY_OVERTIME_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_OVERTIME_HOURS: %w", err)
	}

	weeklyOT, err := strconv.ParseFloat(getEnv("WEEKLY_OVERTIME_HOURS", "40"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WEEKLY_OVERTIME_HOURS: %w", err)
	}

	anchor, err := time.Parse("2006-01-02", getEnv("BIWEEKLY_ANCHOR", "2024-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid BIWEEKLY_ANCHOR: %w", err)
	}

	config.Engine = EngineConfig{
		HighValueThreshold:  threshold,
		DailyOvertimeHours:  dailyOT,
		WeeklyOvertimeHours: weeklyOT,
		BiweeklyAnchor:      anchor,
	}

	pollInterval, err := time.ParseDuration(getEnv("SYNC_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_POLL_INTERVAL: %w", err)
	}

	debounce, err := time.ParseDuration(getEnv("SYNC_DEBOUNCE", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_DEBOUNCE: %w", err)
	}

	config.Sync = SyncConfig{
		PollInterval: pollInterval,
		Debounce:     debounce,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Engine.HighValueThreshold.IsNegative() {
		return fmt.Errorf("HIGH_VALUE_THRESHOLD must not be negative")
	}
	if c.Engine.DailyOvertimeHours < 0 {
		return fmt.Errorf("DAILY_OVERTIME_HOURS must not be negative")
	}
	if c.Engine.WeeklyOvertimeHours <= 0 {
		return fmt.Errorf("WEEKLY_OVERTIME_HOURS must be positive")
	}
	if c.Sync.PollInterval <= 0 {
		return fmt.Errorf("SYNC_POLL_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
