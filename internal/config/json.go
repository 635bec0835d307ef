package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/privychat/sharekit/internal/flagx"
	"github.com/privychat/sharekit/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	Origin        string         `json:"origin"`
	APIBaseURL    string         `json:"api_base_url"`
	DBPath        string         `json:"db_path"`
	TokenPath     string         `json:"token_path"`
	DrainInterval timex.Duration `json:"drain_interval"`
	HTTPTimeout   timex.Duration `json:"http_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.ConfigFileFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Fields absent from the JSON keep their current values. Panics on read or
// unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.ConfigFileFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Origin != "" {
		cfg.Origin = jc.Origin
	}
	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.TokenPath != "" {
		cfg.TokenPath = jc.TokenPath
	}
	if jc.DrainInterval.Duration != 0 {
		cfg.DrainInterval = time.Duration(jc.DrainInterval.Duration)
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
}
