package config

import "time"

// Config holds runtime settings for the blogkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the blogkeeper HTTP API.
//   - DatabasePath: SQLite file holding the durable session.
//   - RequestTimeout: transport timeout for every API call.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
}

// DefaultDataDir is created under the working directory when DatabasePath is
// left relative.
const DefaultDataDir = "data"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "session.db"
	c.RequestTimeout = 10 * time.Second
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
