package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/flagx"
	"github.com/dmitrijs2005/learnjournal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the server configuration. Interval
// fields use timex.Duration so both "1m" and integer nanoseconds parse.
// Only keys present in the file override the current values.
type FileConfig struct {
	HTTPAddr                     *string         `json:"http_addr" yaml:"http_addr"`
	GRPCHealthAddr               *string         `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	DatabaseDSN                  *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	Provider                     *string         `json:"provider" yaml:"provider"`
	GatewayURL                   *string         `json:"gateway_url" yaml:"gateway_url"`
	GatewayAPIKey                *string         `json:"gateway_api_key" yaml:"gateway_api_key"`
	Model                        *string         `json:"model" yaml:"model"`
	GeminiAPIKey                 *string         `json:"gemini_api_key" yaml:"gemini_api_key"`
	UpstreamTimeout              *timex.Duration `json:"upstream_timeout" yaml:"upstream_timeout"`
	ReminderInterval             *timex.Duration `json:"reminder_interval" yaml:"reminder_interval"`
	TimeZone                     *string         `json:"time_zone" yaml:"time_zone"`
	S3RootUser                   *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	LogBackend                   *string         `json:"log_backend" yaml:"log_backend"`
	LogLevel                     *string         `json:"log_level" yaml:"log_level"`
}

// parseFile loads configuration values from the file named by -c/-config
// (or $LEARNJOURNAL_CONFIG). Files ending in .yaml or .yml are decoded as
// YAML, anything else as JSON. A missing or malformed file panics, as does
// any other startup misconfiguration.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setDuration(&c.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&c.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
	setString(&c.Provider, fc.Provider)
	setString(&c.GatewayURL, fc.GatewayURL)
	setString(&c.GatewayAPIKey, fc.GatewayAPIKey)
	setString(&c.Model, fc.Model)
	setString(&c.GeminiAPIKey, fc.GeminiAPIKey)
	setDuration(&c.UpstreamTimeout, fc.UpstreamTimeout)
	setDuration(&c.ReminderInterval, fc.ReminderInterval)
	setString(&c.TimeZone, fc.TimeZone)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.LogBackend, fc.LogBackend)
	setString(&c.LogLevel, fc.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
