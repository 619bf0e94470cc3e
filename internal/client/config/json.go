package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/flagx"
	"github.com/dmitrijs2005/bookshelf/internal/timex"
)

// JsonConfig is the on-disk form of Config.
type JsonConfig struct {
	BaseURL        string            `json:"base_url"`
	Endpoints      map[string]string `json:"endpoints"`
	DatabasePath   string            `json:"database_path"`
	RequestTimeout timex.Duration    `json:"request_timeout"`
	RefreshTimeout timex.Duration    `json:"refresh_timeout"`
	HealthInterval timex.Duration    `json:"health_interval"`
	LogLevel       string            `json:"log_level"`
}

// parseJson overlays cfg with the keys present in the JSON file named by -c
// or -config in args.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	setDuration(&cfg.RefreshTimeout, jc.RefreshTimeout.Duration)
	setDuration(&cfg.HealthInterval, jc.HealthInterval.Duration)
	mergeEndpoints(cfg, jc.Endpoints)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func mergeEndpoints(cfg *Config, paths map[string]string) {
	if len(paths) == 0 {
		return
	}
	if cfg.Endpoints == nil {
		cfg.Endpoints = make(map[string]string, len(paths))
	}
	for name, p := range paths {
		cfg.Endpoints[name] = p
	}
}
