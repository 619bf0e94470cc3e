package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "BOOKSHELF_SERVER_"

type envConfig struct {
	HTTPAddr       string        `env:"HTTP_ADDR"`
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	SecretKey      string        `env:"SECRET_KEY"`
	AccessTTL      time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	RefreshTTL     time.Duration `env:"REFRESH_TOKEN_VALIDITY"`
	AdminEmail     string        `env:"ADMIN_EMAIL"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
	S3RootUser     string        `env:"S3_ROOT_USER"`
	S3RootPassword string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string        `env:"S3_BUCKET"`
	S3Region       string        `env:"S3_REGION"`
	S3BaseEndpoint string        `env:"S3_BASE_ENDPOINT"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:","`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogEncoding    string        `env:"LOG_ENCODING"`
}

// parseEnv overlays Config with the BOOKSHELF_SERVER_* variables that are
// set.
func parseEnv(config *Config) error {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	overlay(config, values(ec))
	return nil
}
