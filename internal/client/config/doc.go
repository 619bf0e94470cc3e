// Package config loads runtime configuration for the bookshelf CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. BOOKSHELF_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// LoadConfig validates the merged result and reports the first problem.
//
// Supported flags
//
//	-u string          base URL of the resource server
//	-d string          path of the local session database
//	-t int             request timeout (seconds)
//	-l string          log level
//	-health duration   server ping interval; 0 disables it
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds. Endpoint entries are merged over the defaults:
//
//	{
//	  "base_url": "http://localhost:3000",
//	  "endpoints": {"books": "/api/books"},
//	  "database_path": "bookshelf.db",
//	  "request_timeout": "30s",
//	  "refresh_timeout": "15s",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	BOOKSHELF_BASE_URL, BOOKSHELF_DATABASE_PATH, BOOKSHELF_REQUEST_TIMEOUT,
//	BOOKSHELF_REFRESH_TIMEOUT, BOOKSHELF_HEALTH_INTERVAL, BOOKSHELF_LOG_LEVEL,
//	BOOKSHELF_ENDPOINTS ("books:/api/books,login:/api/login")
package config
