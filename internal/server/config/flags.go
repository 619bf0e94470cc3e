package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-l",
	"-admin-email", "-admin-password", "-cors", "-log-encoding",
}

// parseFlags overlays command-line flags on config:
//
//	-a string               HTTP bind address (e.g. ":3000")
//	-d string               PostgreSQL DSN
//	-s string               JWT HMAC secret key
//	-t int                  access token validity, minutes
//	-r int                  refresh token validity, minutes
//	-u, -p string           S3 root user and password
//	-b, -g, -e string       S3 bucket, region and base endpoint
//	-l string               log level
//	-log-encoding string    "json" or "console"
//	-admin-email string     account seeded at start-up
//	-admin-password string  its password; empty disables seeding
//	-cors string            comma-separated allowed origins
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("bookshelf-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshMinutes := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for covers")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogEncoding, "log-encoding", config.LogEncoding, "log encoding (json, console)")
	fs.StringVar(&config.AdminEmail, "admin-email", config.AdminEmail, "admin account email")
	fs.StringVar(&config.AdminPassword, "admin-password", config.AdminPassword, "admin account password")
	fs.Func("cors", "comma-separated allowed CORS origins", func(v string) error {
		config.CORSOrigins = splitList(v)
		return nil
	})

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessMinutes) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshMinutes) * time.Minute
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
