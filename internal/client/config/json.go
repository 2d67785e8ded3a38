package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/flagx"
	"github.com/dmitrijs2005/tasklane/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	HTTPEndpointURL     *string         `json:"http_endpoint_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	CacheDSN            *string         `json:"cache_dsn"`
}

// parseJson overlays cfg with the file named by -c/-config in args. Read or
// unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.HTTPEndpointURL != nil {
		cfg.HTTPEndpointURL = *jc.HTTPEndpointURL
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.CacheDSN != nil {
		cfg.CacheDSN = *jc.CacheDSN
	}
}
