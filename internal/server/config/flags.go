package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/flagx"
)

var serverFlags = []string{
	"-a", "-grpc", "-storage", "-d", "-mongo-uri", "-mongo-db", "-s", "-t", "-r",
	"-bcrypt-cost", "-w", "-u", "-p", "-b", "-g", "-e", "-redis", "-rate-limit",
	"-rate-window", "-tg-token", "-tg-chat", "-sweep", "-l",
}

// parseFlags overlays config with command-line flags.
//
//	-a string        HTTP bind address (e.g. ":3000")
//	-grpc string     gRPC bind address (e.g. ":50051")
//	-storage string  postgres, mongo or memory
//	-d string        PostgreSQL DSN
//	-mongo-uri, -mongo-db string
//	-s string        JWT HMAC secret key
//	-t int           access token validity, minutes
//	-r int           refresh token validity, minutes
//	-bcrypt-cost int
//	-w string        task workflow: free or deadline
//	-u, -p, -b, -g, -e string  S3 user, password, bucket, region, endpoint
//	-redis string    Redis address for rate limiting ("" disables)
//	-rate-limit int, -rate-window duration
//	-tg-token string, -tg-chat int  Telegram contact relay
//	-sweep string    cron spec for the session sweep
//	-l string        log level
//
// Only the flags above are parsed; anything else on the command line (for
// example -c) is filtered out first. Invalid values panic.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("tasklane", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.Storage, "storage", config.Storage, "storage backend: postgres, mongo, memory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "mongo-uri", config.MongoURI, "MongoDB connection URI")
	fs.StringVar(&config.MongoDatabase, "mongo-db", config.MongoDatabase, "MongoDB database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.Workflow, "w", config.Workflow, "task workflow: free or deadline")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "Redis address for rate limiting")
	fs.IntVar(&config.RateLimit, "rate-limit", config.RateLimit, "requests allowed per window")
	fs.DurationVar(&config.RateWindow, "rate-window", config.RateWindow, "rate limit window")
	fs.StringVar(&config.TelegramToken, "tg-token", config.TelegramToken, "Telegram bot token for contact relay")
	fs.Int64Var(&config.TelegramChatID, "tg-chat", config.TelegramChatID, "Telegram chat ID for contact relay")
	fs.StringVar(&config.SessionSweepSpec, "sweep", config.SessionSweepSpec, "cron spec for expired session sweep")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
}
