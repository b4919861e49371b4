// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"points-ledger/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort            string
	DB                    db.Config
	PresenceTTL           time.Duration
	PresenceSweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables, with sensible
// defaults for local development.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "pointsdb")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PRESENCE_TTL", "30m")
	v.SetDefault("PRESENCE_SWEEP_INTERVAL", "1m")

	presenceTTL := v.GetDuration("PRESENCE_TTL")
	if presenceTTL <= 0 {
		return nil, fmt.Errorf("invalid PRESENCE_TTL: %q", v.GetString("PRESENCE_TTL"))
	}
	sweepInterval := v.GetDuration("PRESENCE_SWEEP_INTERVAL")
	if sweepInterval <= 0 {
		return nil, fmt.Errorf("invalid PRESENCE_SWEEP_INTERVAL: %q", v.GetString("PRESENCE_SWEEP_INTERVAL"))
	}

	return &AppConfig{
		ServerPort: v.GetString("SERVER_PORT"),
		DB: db.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		PresenceTTL:           presenceTTL,
		PresenceSweepInterval: sweepInterval,
	}, nil
}
