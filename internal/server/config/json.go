package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tasklane/internal/flagx"
	"github.com/dmitrijs2005/tasklane/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// strings such as "15m" and integer nanoseconds. Absent keys leave the
// corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	Storage                      *string         `json:"storage"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	MongoURI                     *string         `json:"mongo_uri"`
	MongoDatabase                *string         `json:"mongo_database"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	Workflow                     *string         `json:"workflow"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	RedisAddr                    *string         `json:"redis_addr"`
	RateLimit                    *int            `json:"rate_limit"`
	RateWindow                   *timex.Duration `json:"rate_window"`
	TelegramToken                *string         `json:"telegram_token"`
	TelegramChatID               *int64          `json:"telegram_chat_id"`
	SessionSweepSpec             *string         `json:"session_sweep_spec"`
	LogLevel                     *string         `json:"log_level"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays config with the JSON file named by -c/-config in args.
// Without the flag nothing is loaded. An unreadable file or invalid JSON
// panics: the server must not start on a half-read configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Workflow, c.Workflow)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.TelegramToken, c.TelegramToken)
	setString(&config.SessionSweepSpec, c.SessionSweepSpec)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RateWindow != nil {
		config.RateWindow = c.RateWindow.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RateLimit != nil {
		config.RateLimit = *c.RateLimit
	}
	if c.TelegramChatID != nil {
		config.TelegramChatID = *c.TelegramChatID
	}
}
