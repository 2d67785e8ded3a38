package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the TaskLane CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - HTTPEndpointURL: base URL of the HTTP API, used for file uploads.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: deadline applied to each remote call.
//   - CacheDSN: SQLite file holding the offline task cache. Empty disables it.
type Config struct {
	ServerEndpointAddr  string
	HTTPEndpointURL     string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	CacheDSN            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.HTTPEndpointURL = "http://127.0.0.1:3000"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.CacheDSN = "tasklane.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
