package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string        address and port of the gRPC server
//	-http string     base URL of the HTTP API
//	-i int           online check interval in seconds
//	-timeout dur     per-call deadline, e.g. 5s
//	-cache string    SQLite file for the offline task cache, "" disables it
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-http", "-i", "-timeout", "-cache"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.HTTPEndpointURL, "http", cfg.HTTPEndpointURL, "base URL of the HTTP API")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.CacheDSN, "cache", cfg.CacheDSN, "offline task cache file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
