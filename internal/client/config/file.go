package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/flagx"
	"github.com/dmitrijs2005/learnjournal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the CLI configuration.
type FileConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	StatePath      *string         `json:"state_path" yaml:"state_path"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StreamTimeout  *timex.Duration `json:"stream_timeout" yaml:"stream_timeout"`
}

// parseFile overlays cfg with the file named by -c/-config. Read and decode
// errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerURL != nil {
		cfg.ServerURL = *fc.ServerURL
	}
	if fc.StatePath != nil {
		cfg.StatePath = *fc.StatePath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StreamTimeout != nil {
		cfg.StreamTimeout = fc.StreamTimeout.Duration
	}
}
