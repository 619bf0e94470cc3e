package config

import "time"

// values is the shape shared by the JSON and environment loaders. Zero
// fields are treated as unset.
type values struct {
	HTTPAddr       string
	DatabaseDSN    string
	SecretKey      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	AdminEmail     string
	AdminPassword  string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	CORSOrigins    []string
	LogLevel       string
	LogEncoding    string
}

func overlay(c *Config, v values) {
	setString(&c.HTTPAddr, v.HTTPAddr)
	setString(&c.DatabaseDSN, v.DatabaseDSN)
	setString(&c.SecretKey, v.SecretKey)
	setString(&c.AdminEmail, v.AdminEmail)
	setString(&c.AdminPassword, v.AdminPassword)
	setString(&c.S3RootUser, v.S3RootUser)
	setString(&c.S3RootPassword, v.S3RootPassword)
	setString(&c.S3Bucket, v.S3Bucket)
	setString(&c.S3Region, v.S3Region)
	setString(&c.S3BaseEndpoint, v.S3BaseEndpoint)
	setString(&c.LogLevel, v.LogLevel)
	setString(&c.LogEncoding, v.LogEncoding)

	if v.AccessTTL > 0 {
		c.AccessTokenValidityDuration = v.AccessTTL
	}
	if v.RefreshTTL > 0 {
		c.RefreshTokenValidityDuration = v.RefreshTTL
	}
	if len(v.CORSOrigins) > 0 {
		c.CORSOrigins = v.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
