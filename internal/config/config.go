package config

import "time"

// Config holds runtime settings for the share CLI.
//
// Fields:
//   - Origin: scheme://host the generated share URLs point at.
//   - APIBaseURL: base URL of the share server API.
//   - DBPath: path of the local SQLite database.
//   - TokenPath: path of the auth token file; empty runs anonymously.
//   - DrainInterval: idle poll period of the metadata queue drain loop.
//   - HTTPTimeout: per-request bound on server calls.
type Config struct {
	Origin        string
	APIBaseURL    string
	DBPath        string
	TokenPath     string
	DrainInterval time.Duration
	HTTPTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Origin = "https://app.privychat.io"
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DBPath = "sharekit.db"
	c.TokenPath = ""
	c.DrainInterval = 30 * time.Second
	c.HTTPTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
