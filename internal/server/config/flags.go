package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/flagx"
)

var serverFlags = []string{
	"-a", "-grpc", "-d", "-s", "-t", "-r",
	"-provider", "-gateway-url", "-model", "-upstream-timeout",
	"-reminder-interval", "-tz",
	"-u", "-p", "-b", "-g", "-e",
	"-log-backend", "-log-level",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                   HTTP bind address (e.g., ":8080")
//	-grpc string                gRPC health bind address
//	-d string                   PostgreSQL DSN
//	-s string                   JWT HMAC secret key
//	-t int                      access token validity, minutes
//	-r int                      refresh token validity, minutes
//	-provider string            gateway or gemini
//	-gateway-url string         chat completions endpoint
//	-model string               upstream model id
//	-upstream-timeout duration  per-request relay bound
//	-reminder-interval duration reminder job period (0 disables)
//	-tz string                  IANA time zone for "today"
//	-u/-p/-b/-g/-e string       S3 user, password, bucket, region, endpoint
//	-log-backend string         slog or zap
//	-log-level string           debug, info, warn, error
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and any
// unknown flags do not trip the parser. Token validity flags are minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCHealthAddr, "grpc", config.GRPCHealthAddr, "address and port for the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.Provider, "provider", config.Provider, "upstream provider: gateway or gemini")
	fs.StringVar(&config.GatewayURL, "gateway-url", config.GatewayURL, "chat completions endpoint")
	fs.StringVar(&config.Model, "model", config.Model, "upstream model id")
	fs.DurationVar(&config.UpstreamTimeout, "upstream-timeout", config.UpstreamTimeout, "upstream request timeout")
	fs.DurationVar(&config.ReminderInterval, "reminder-interval", config.ReminderInterval, "streak reminder interval")
	fs.StringVar(&config.TimeZone, "tz", config.TimeZone, "time zone for streak days")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.LogBackend, "log-backend", config.LogBackend, "log backend: slog or zap")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
