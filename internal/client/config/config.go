// Package config loads runtime configuration for the learnjournal CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Command-line flags (see parseFlags).
package config

import "time"

// Config holds runtime settings for the CLI.
//
//   - ServerURL: base URL of the learnjournal API, without a trailing slash.
//   - StatePath: sqlite file holding the session tokens.
//   - RequestTimeout: bound on non-streaming API calls.
//   - StreamTimeout: bound on assistant calls, streamed answers included.
type Config struct {
	ServerURL      string
	StatePath      string
	RequestTimeout time.Duration
	StreamTimeout  time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.StatePath = "learnjournal.db"
	c.RequestTimeout = 30 * time.Second
	c.StreamTimeout = 5 * time.Minute
}

// LoadConfig builds a Config from defaults, the config file and flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
