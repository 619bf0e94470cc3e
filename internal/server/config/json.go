package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookshelf/internal/flagx"
	"github.com/dmitrijs2005/bookshelf/internal/timex"
)

// JsonConfig is the on-disk form of Config. Lifetimes accept "5m" style
// strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                     string         `json:"http_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	AdminEmail                   string         `json:"admin_email"`
	AdminPassword                string         `json:"admin_password"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	CORSOrigins                  []string       `json:"cors_origins"`
	LogLevel                     string         `json:"log_level"`
	LogEncoding                  string         `json:"log_encoding"`
}

// parseJson overlays config with the JSON file named by -c or -config in
// args. Without the flag nothing is loaded. Unknown keys are rejected so a
// typo does not silently fall back to a default.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	var c JsonConfig
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	overlay(config, values{
		HTTPAddr:       c.HTTPAddr,
		DatabaseDSN:    c.DatabaseDSN,
		SecretKey:      c.SecretKey,
		AccessTTL:      c.AccessTokenValidityDuration.Duration,
		RefreshTTL:     c.RefreshTokenValidityDuration.Duration,
		AdminEmail:     c.AdminEmail,
		AdminPassword:  c.AdminPassword,
		S3RootUser:     c.S3RootUser,
		S3RootPassword: c.S3RootPassword,
		S3Bucket:       c.S3Bucket,
		S3Region:       c.S3Region,
		S3BaseEndpoint: c.S3BaseEndpoint,
		CORSOrigins:    c.CORSOrigins,
		LogLevel:       c.LogLevel,
		LogEncoding:    c.LogEncoding,
	})
	return nil
}
