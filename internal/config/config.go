// Package config provides configuration management for docchat.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"
)

const appName = "docchat"

// DefaultAPIBaseURL is used when no endpoint is configured. The service is
// deployed behind an API gateway; deployments override this in the config
// file or with --api-url.
const DefaultAPIBaseURL = "https://api.docchat.example.com/prod"

// Config is the top-level configuration structure.
type Config struct {
	APIBaseURL string   `json:"api_base_url,omitempty"`
	Options    *Options `json:"options,omitempty"`
}

// Options holds optional configuration settings.
type Options struct {
	DataDir string `json:"data_directory,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
}

// NewConfig creates a Config with empty options.
func NewConfig() *Config {
	return &Config{
		Options: &Options{},
	}
}

// SetField updates a single field in the global config file using JSON
// path notation. Only the specified field is modified; the rest of the
// file is left byte-for-byte intact.
func SetField(key string, value any) error {
	return SetFieldInFile(GlobalConfigPath(), key, value)
}

// SetFieldInFile updates a single field in the config file at path. A
// missing file is created.
func SetFieldInFile(path, key string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
				return fmt.Errorf("creating config directory: %w", mkErr)
			}
			data = []byte("{}")
		} else {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.WriteFile(path, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
