package cli

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the quizctl client configuration, read from YAML.
type Config struct {
	Server    string `yaml:"server"`
	TokenPath string `yaml:"token_path"`
}

// DefaultConfigPath is where quizctl looks for its config when --config is
// not given.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "quizgenie", "config.yaml")
}

// LoadConfig reads the YAML config from path. A missing file yields the
// defaults rather than an error.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Server == "" {
		cfg.Server = "http://127.0.0.1:8080"
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = filepath.Join(filepath.Dir(path), "token")
	}
	return cfg, nil
}
