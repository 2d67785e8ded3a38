package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:8080", "-grpc", "127.0.0.1:9090", "-storage", "mongo",
				"-d", "db", "-mongo-uri", "mongodb://m:27017", "-mongo-db", "tl",
				"-s", "secret", "-t", "1", "-r", "3", "-bcrypt-cost", "4", "-w", "deadline",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-redis", "redis:6379", "-rate-limit", "5", "-rate-window", "30s",
				"-tg-token", "tok", "-tg-chat=-100123", "-sweep", "@every 5m", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:8080",
				EndpointAddrGRPC:             "127.0.0.1:9090",
				Storage:                      "mongo",
				DatabaseDSN:                  "db",
				MongoURI:                     "mongodb://m:27017",
				MongoDatabase:                "tl",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				BcryptCost:                   4,
				Workflow:                     "deadline",
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				RedisAddr:                    "redis:6379",
				RateLimit:                    5,
				RateWindow:                   30 * time.Second,
				TelegramToken:                "tok",
				TelegramChatID:               -100123,
				SessionSweepSpec:             "@every 5m",
				LogLevel:                     "debug",
			},
		},
		{
			name:        "bad int panics",
			args:        []string{"-t", "soon"},
			expectPanic: true,
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-x", "1", "-s", "k"},
			expected: &Config{
				SecretKey: "k",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
