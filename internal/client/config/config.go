package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
)

// Config holds runtime settings for the bookshelf CLI.
//
// Fields:
//   - BaseURL: scheme://host:port of the resource server.
//   - Endpoints: endpoint name to path overrides, merged over client.DefaultPaths.
//   - DatabasePath: sqlite file that keeps the session between runs.
//   - RequestTimeout: upper bound for one HTTP exchange.
//   - RefreshTimeout: upper bound for one token refresh, shared by all waiters.
//   - HealthInterval: how often the CLI pings the server; zero disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL        string
	Endpoints      map[string]string
	DatabasePath   string
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	HealthInterval time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3000"
	c.Endpoints = client.DefaultPaths()
	c.DatabasePath = "bookshelf.db"
	c.RequestTimeout = 30 * time.Second
	c.RefreshTimeout = 15 * time.Second
	c.HealthInterval = 10 * time.Second
	c.LogLevel = "warn"
}

// Resolve returns the endpoint table the HTTP client and auth API use.
func (c *Config) Resolve() client.Endpoints {
	return client.NewEndpoints(c.BaseURL, c.Endpoints)
}

// LoadConfig applies defaults, then the optional JSON file, the
// environment and the flags in args. Later sources win. The result is
// validated before it is returned.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	for _, load := range []func(*Config) error{
		func(c *Config) error { return parseJson(c, args) },
		parseEnv,
		func(c *Config) error { return parseFlags(c, args) },
	} {
		if err := load(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the CLI can reach a server and bound its calls.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url", c.BaseURL)
	}
	if c.DatabasePath == "" {
		return errors.New("database path is empty")
	}
	if c.RequestTimeout <= 0 || c.RefreshTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive: request %s, refresh %s", c.RequestTimeout, c.RefreshTimeout)
	}
	if c.HealthInterval < 0 {
		return fmt.Errorf("health interval must not be negative, got %s", c.HealthInterval)
	}
	return nil
}
