package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	BaseURL        string            `env:"BOOKSHELF_BASE_URL"`
	Endpoints      map[string]string `env:"BOOKSHELF_ENDPOINTS" envSeparator:"," envKeyValSeparator:":"`
	DatabasePath   string            `env:"BOOKSHELF_DATABASE_PATH"`
	RequestTimeout time.Duration     `env:"BOOKSHELF_REQUEST_TIMEOUT"`
	RefreshTimeout time.Duration     `env:"BOOKSHELF_REFRESH_TIMEOUT"`
	HealthInterval time.Duration     `env:"BOOKSHELF_HEALTH_INTERVAL"`
	LogLevel       string            `env:"BOOKSHELF_LOG_LEVEL"`
}

// parseEnv overlays Config with the BOOKSHELF_* variables that are set.
func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	setString(&cfg.BaseURL, ec.BaseURL)
	setString(&cfg.DatabasePath, ec.DatabasePath)
	setString(&cfg.LogLevel, ec.LogLevel)
	setDuration(&cfg.RequestTimeout, ec.RequestTimeout)
	setDuration(&cfg.RefreshTimeout, ec.RefreshTimeout)
	setDuration(&cfg.HealthInterval, ec.HealthInterval)
	mergeEndpoints(cfg, ec.Endpoints)
	return nil
}
