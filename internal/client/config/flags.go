package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/flagx"
)

var clientFlags = []string{"-u", "-d", "-t", "-l", "-health"}

// parseFlags overlays cfg with the CLI flags found in args:
//
//	-u string          base URL of the resource server
//	-d string          path of the local session database
//	-t int             request timeout in seconds
//	-l string          log level
//	-health duration   server ping interval, 0 disables it
//
// Arguments meant for other loaders are skipped.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("bookshelf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the resource server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&cfg.HealthInterval, "health", cfg.HealthInterval, "server ping interval")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, clientFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
