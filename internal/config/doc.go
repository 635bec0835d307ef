// Package config loads runtime configuration for the share CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-o string   origin the share URLs are built against
//	-a string   base URL of the share server API
//	-d string   path to the local SQLite database
//	-t string   path to the auth token file left by the main app
//	-i int      queue drain interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "origin": "https://app.privychat.io",
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "db_path": "sharekit.db",
//	  "token_path": "/home/me/.privychat/token",
//	  "drain_interval": "30s",
//	  "http_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
