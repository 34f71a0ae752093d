package config

import "os"

// Secrets may come from the environment so they stay out of config files.
const (
	EnvGatewayAPIKey = "LEARNJOURNAL_GATEWAY_API_KEY"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvSecretKey     = "LEARNJOURNAL_SECRET_KEY"
	EnvDatabaseDSN   = "DATABASE_DSN"
)

func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvGatewayAPIKey); ok {
		config.GatewayAPIKey = v
	}
	if v, ok := os.LookupEnv(EnvGeminiAPIKey); ok {
		config.GeminiAPIKey = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
}
