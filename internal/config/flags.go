package config

import (
	"flag"
	"os"
	"time"

	"github.com/privychat/sharekit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-o string   origin the share URLs are built against
//	-a string   base URL of the share server API
//	-d string   path to the local SQLite database
//	-t string   path to the auth token file
//	-i int      queue drain interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-o", "-a", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Origin, "o", cfg.Origin, "origin for generated share URLs")
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the share server API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the local database")
	fs.StringVar(&cfg.TokenPath, "t", cfg.TokenPath, "path to the auth token file")
	drainInterval := fs.Int("i", int(cfg.DrainInterval.Seconds()), "queue drain interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DrainInterval = time.Duration(*drainInterval) * time.Second
}
