package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseFile_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("LEARNJOURNAL_CONFIG", "")

	dir := t.TempDir()
	jsonPath := writeTempJSON(t, dir, "server.json", map[string]any{
		"http_addr":                       "www.example:9000",
		"database_dsn":                    "journal.db",
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": 180000000000,
		"provider":                        "gemini",
		"upstream_timeout":                "45s",
		"s3_bucket":                       "bucket",
	})

	yamlPath := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
http_addr: ":7070"
model: google/gemini-2.5-pro
reminder_interval: 30m
log_backend: zap
`), 0o600))

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", jsonPath}

		cfg := &Config{Model: "keep-me"}
		parseFile(cfg)

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "journal.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, 45*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "keep-me", cfg.Model, "absent keys must not clobber")
	})

	t.Run("loads from yaml via env", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("LEARNJOURNAL_CONFIG", yamlPath)

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, ":7070", cfg.HTTPAddr)
		assert.Equal(t, "google/gemini-2.5-pro", cfg.Model)
		assert.Equal(t, 30*time.Minute, cfg.ReminderInterval)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, ProviderGateway, cfg.Provider)
	})

	t.Run("no config → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: "defaults:1234", UpstreamTimeout: time.Second}
		parseFile(cfg)

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, time.Second, cfg.UpstreamTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
